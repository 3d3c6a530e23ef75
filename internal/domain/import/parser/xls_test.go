//go:build !noxls

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

func TestExcelExtractor_CorruptXLS(t *testing.T) {
	for name, content := range map[string][]byte{
		"garbage": []byte("definitely not an ole2 compound document"),
		"empty":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			res := NewExcelExtractor(englishOptions(nil)).Extract(statement.Document{Content: content, Filename: "old.xls"}, 0)

			assert.False(t, res.Success)
			assert.Equal(t, statement.KindInternal, res.Kind)
			assert.Equal(t, statement.FormatXLS, res.Metadata.Format)
		})
	}
}
