//go:build noxls

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

func TestExcelExtractor_XLSReaderMissing(t *testing.T) {
	res := New(englishOptions(nil)).ParseFile([]byte("anything"), "old.xls", 0)

	assert.False(t, res.Success)
	assert.Equal(t, statement.KindMissingCapability, res.Kind)
	assert.ErrorIs(t, res.Err, statement.ErrMissingCapability)
	assert.Equal(t, "The xls reader is not available in this build.", res.Error)
}
