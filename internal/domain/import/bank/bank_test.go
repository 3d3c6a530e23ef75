package bank

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentify(t *testing.T) {
	id := Default()

	tests := []struct {
		name   string
		text   string
		want   string
		wantOk bool
	}{
		{"cyrillic header", "ХААН БАНК\nДансны хуулга", "Хаан Банк", true},
		{"english alias", "Statement issued by Golomt Bank LLC", "Голомт Банк", true},
		{"short alias", "TDB online statement", "Худалдаа Хөгжлийн Банк", true},
		{"mixed case cyrillic", "Хас банк ХХК", "Хас Банк", true},
		{"longer alias beats contained one", "Чингис Хаан Банк ХХК", "Чингис Хаан Банк", true},
		{"table order breaks equal lengths", "credit bank and golomt bank", "Голомт Банк", true},
		{"unknown bank", "Some Other Bank statement", "", false},
		{"empty text", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := id.Identify(tt.text)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentify_AllKnownAliases(t *testing.T) {
	id := Default()
	for _, b := range Known {
		for _, alias := range b.Aliases {
			t.Run(alias, func(t *testing.T) {
				got, ok := id.Identify("header " + alias + " footer")
				assert.True(t, ok)
				assert.Equal(t, b.Name, got)
			})
		}
	}
}

func TestNewIdentifier_Empty(t *testing.T) {
	got, ok := NewIdentifier(nil).Identify("khan bank")
	assert.False(t, ok)
	assert.Empty(t, got)

	var nilID *Identifier
	_, ok = nilID.Identify("khan bank")
	assert.False(t, ok)
}

func TestNewIdentifier_CustomTable(t *testing.T) {
	id := NewIdentifier([]Bank{{Name: "Test Bank", Aliases: []string{"  TEST BANK ", ""}}})
	got, ok := id.Identify("welcome to test bank")
	assert.True(t, ok)
	assert.Equal(t, "Test Bank", got)
}

func TestIdentify_Concurrent(t *testing.T) {
	id := Default()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok := id.Identify("Arig Bank statement")
			assert.True(t, ok)
			assert.Equal(t, "Ариг Банк", got)
		}()
	}
	wg.Wait()
}
