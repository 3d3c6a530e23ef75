package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_BundledTablesAreComplete(t *testing.T) {
	names := Available()
	require.ElementsMatch(t, []string{"en", "mn"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			table, err := Load(name)
			require.NoError(t, err)
			assert.Equal(t, name, table.Name())
			for _, k := range Keys {
				assert.NotEqual(t, string(k), table.Text(k), "message %s", k)
			}
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("fr")
	assert.ErrorIs(t, err, ErrUnknownLocale)
}

func TestText(t *testing.T) {
	mn := Default()

	tests := []struct {
		name string
		key  Key
		args []string
		want string
	}{
		{
			name: "unsupported format",
			key:  UnsupportedFormat,
			args: []string{"ext", "docx"},
			want: "Дэмжигдээгүй файлын формат: .docx. Дэмжигдэх форматууд: PDF, Excel (xlsx, xls), CSV",
		},
		{
			name: "read error embeds cause",
			key:  ReadErrorPDF,
			args: []string{"error", "malformed xref"},
			want: "PDF уншихад алдаа гарлаа: malformed xref",
		},
		{
			name: "sheet separator",
			key:  SheetSeparator,
			args: []string{"sheet", "Хуулга"},
			want: "\n--- Хуулга ---\n",
		},
		{
			name: "no placeholders",
			key:  DefaultDescription,
			want: "Гүйлгээ",
		},
		{
			name: "marker",
			key:  TruncationMarker,
			want: "\n\n[Текст хэт урт тул товчилсон...]",
		},
		{
			name: "unknown key",
			key:  Key("nope"),
			want: "nope",
		},
		{
			name: "odd trailing arg is ignored",
			key:  UnsupportedExcel,
			args: []string{"ext", "ods", "dangling"},
			want: "Дэмжигдээгүй Excel формат: ods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mn.Text(tt.key, tt.args...))
		})
	}
}

func TestLoadWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_description: \"Movement\"\n"), 0o600))

	table, err := LoadWithOverride("en", path)
	require.NoError(t, err)
	assert.Equal(t, "Movement", table.Text(DefaultDescription))
	assert.Equal(t, "No data found in the CSV file.", table.Text(EmptyCSV))

	// overrides do not leak into later loads
	fresh, err := Load("en")
	require.NoError(t, err)
	assert.Equal(t, "Transaction", fresh.Text(DefaultDescription))

	t.Run("empty path", func(t *testing.T) {
		table, err := LoadWithOverride("mn", "")
		require.NoError(t, err)
		assert.Equal(t, "Гүйлгээ", table.Text(DefaultDescription))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadWithOverride("mn", filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("- not\n- a map\n"), 0o600))
		_, err := LoadWithOverride("mn", bad)
		assert.Error(t, err)
	})
}
