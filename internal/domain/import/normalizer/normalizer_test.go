package normalizer

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"thousands separator", "20,000.00", "20000"},
		{"zero", "0.00", "0"},
		{"plain integer", "1500", "1500"},
		{"surrounding spaces", "  1 234.50 ", "1234.5"},
		{"non-breaking space", "12\u00a0500.00", "12500"},
		{"tugrik sign", "₮50,000.00", "50000"},
		{"currency code suffix", "75,000.00 MNT", "75000"},
		{"negative", "-300.25", "-300.25"},
		{"empty", "", "0"},
		{"malformed", "abc", "0"},
		{"dashes only", "--", "0"},
		{"date is not an amount", "2025.01.10", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseAmount_NeverPanicsOnRandomInput(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		input := faker.LetterN(uint(faker.IntRange(0, 12))) + faker.Numerify("#,###.##")
		assert.NotPanics(t, func() { ParseAmount(input) })
	}
}

func TestParseAmountStrict(t *testing.T) {
	_, err := ParseAmountStrict("")
	assert.Error(t, err)

	_, err = ParseAmountStrict("12x")
	assert.Error(t, err)

	d, err := ParseAmountStrict("1,000.10")
	require.NoError(t, err)
	assert.Equal(t, "1000.1", d.String())
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	equivalent := []string{
		"2025.02.01",
		"2025-02-01",
		"01.02.2025",
		"01/02/2025",
		"2025/02/01",
		"2025.2.1",
		"2025.2.1 3:32:01AM",
		"2025.02.01 14:05:09",
		"2025-02-01T00:00:00Z",
		"2025.02.01Гүйлгээ",
		"  2025.02.01  ",
	}

	for _, input := range equivalent {
		t.Run(input, func(t *testing.T) {
			got, err := ParseDate(input)
			require.NoError(t, err)
			assert.Equal(t, want, DateOnly(got))
		})
	}

	t.Run("day first for ambiguous values", func(t *testing.T) {
		got, err := ParseDate("03/04/2025")
		require.NoError(t, err)
		assert.Equal(t, time.April, got.Month())
		assert.Equal(t, 3, got.Day())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, input := range []string{"", "Огноо", "25.01.10", "2025.13.40", "total"} {
			_, err := ParseDate(input)
			assert.Error(t, err, input)
		}
	})
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "Цалин олгов", CleanDescription("  Цалин\n\tолгов  "))
	assert.Equal(t, "", CleanDescription(" \t "))
}

func TestIsTimeToken(t *testing.T) {
	for _, s := range []string{"3:32:01", "14:05", "AM", "pm", "3:32:01AM"} {
		assert.True(t, IsTimeToken(s), s)
	}
	for _, s := range []string{"Salary", "2025.01.10", "1,000.00", "AMOUNT"} {
		assert.False(t, IsTimeToken(s), s)
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("1,000.00"))
	assert.True(t, IsNumeric("2025.01.10"))
	assert.False(t, IsNumeric("Salary 2025"))
	assert.False(t, IsNumeric(""))
}
