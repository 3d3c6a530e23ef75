package sniffer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    rune
		sniffed bool
	}{
		{
			name:    "comma",
			text:    "Огноо,Орлого,Зарлага,Утга\n2025.01.10,50000.00,0.00,Salary\n2025.01.11,0.00,1200.00,Coffee",
			want:    ',',
			sniffed: true,
		},
		{
			name:    "semicolon beats commas inside amounts",
			text:    "date;income;expense\n2025.01.10;50,000.00;0.00\n2025.01.11;0.00;1,200.00",
			want:    ';',
			sniffed: true,
		},
		{
			name:    "tab",
			text:    "date\tincome\texpense\n2025.01.10\t100\t0\n",
			want:    '\t',
			sniffed: true,
		},
		{
			name:    "pipe",
			text:    "date|amount\n2025.01.10|100\n2025.01.11|200",
			want:    '|',
			sniffed: true,
		},
		{
			name:    "quoted commas are ignored",
			text:    "date;description\n2025.01.10;\"Salary, January\"\n2025.01.11;\"Rent, office\"",
			want:    ';',
			sniffed: true,
		},
		{
			name:    "inconsistent lines fall back to highest count",
			text:    "a;b;c;d\nx,y\nfoo\nbar;baz\nqux",
			want:    ';',
			sniffed: false,
		},
		{
			name:    "no delimiter at all defaults to comma",
			text:    "just one column\nanother line",
			want:    ',',
			sniffed: false,
		},
		{
			name:    "BOM and CRLF",
			text:    "\uFEFFdate;amount\r\n2025.01.10;100\r\n",
			want:    ';',
			sniffed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectDelimiter(tt.text)
			assert.Equal(t, string(tt.want), string(got.Rune))
			assert.Equal(t, tt.sniffed, got.Sniffed)
		})
	}
}

func TestDetectDelimiter_SamplesOnlyFirstLines(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("a;b;c\n")
	}
	for i := 0; i < 50; i++ {
		b.WriteString("x,y,z,w,v\n")
	}
	assert.Equal(t, ';', DetectDelimiter(b.String()).Rune)
}

func TestDelimiterString(t *testing.T) {
	assert.Equal(t, `\t`, Delimiter{Rune: '\t'}.String())
	assert.Equal(t, ";", Delimiter{Rune: ';'}.String())
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]string{"Огноо", " Орлого ", "Зарлага"})
	b := Fingerprint([]string{"огноо", "орлого", "ЗАРЛАГА!"})
	c := Fingerprint([]string{"date", "amount"})

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Empty(t, Fingerprint([]string{"", "--"}))
}

func TestDecodeText(t *testing.T) {
	t.Run("plain utf-8", func(t *testing.T) {
		got := DecodeText([]byte("Огноо,Орлого\n2025.01.10,100"))
		assert.Equal(t, "utf-8", got.Encoding)
		assert.Equal(t, "Огноо,Орлого\n2025.01.10,100", got.Text)
		assert.False(t, got.Lossy)
	})

	t.Run("utf-8 BOM is stripped", func(t *testing.T) {
		got := DecodeText(append([]byte{0xEF, 0xBB, 0xBF}, []byte("date,amount")...))
		assert.Equal(t, "date,amount", got.Text)
		assert.Equal(t, "utf-8", got.Encoding)
	})

	t.Run("ascii reported as utf-8", func(t *testing.T) {
		got := DecodeText([]byte("date,amount\n2025-01-10,100.00\n"))
		assert.Equal(t, "utf-8", got.Encoding)
	})

	t.Run("utf-16 with BOM", func(t *testing.T) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		data, err := enc.Bytes([]byte("Огноо;Утга"))
		require.NoError(t, err)

		got := DecodeText(data)
		assert.Equal(t, "Огноо;Утга", got.Text)
		assert.Equal(t, "utf-16", got.Encoding)
	})

	t.Run("legacy single-byte cyrillic decodes to valid utf-8", func(t *testing.T) {
		data, err := charmap.Windows1251.NewEncoder().Bytes([]byte(strings.Repeat("Дата,Приход,Расход,Описание\n", 20)))
		require.NoError(t, err)
		require.False(t, utf8.Valid(data))

		got := DecodeText(data)
		assert.True(t, utf8.ValidString(got.Text))
		assert.NotEmpty(t, got.Text)
		assert.NotEqual(t, "utf-8", got.Encoding)
	})

	t.Run("empty input", func(t *testing.T) {
		got := DecodeText(nil)
		assert.Empty(t, got.Text)
		assert.Equal(t, "utf-8", got.Encoding)
	})
}

func TestDecodeUTF8_Lossy(t *testing.T) {
	got := decodeUTF8([]byte{'o', 'k', 0xff, 0xfe, '!'})
	assert.True(t, got.Lossy)
	assert.True(t, utf8.ValidString(got.Text))
	assert.True(t, strings.HasPrefix(got.Text, "ok"))
	assert.True(t, strings.HasSuffix(got.Text, "!"))
}
