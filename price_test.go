package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"currency sigil", "Wireless Mouse - R$ 99,90", "99,90", true},
		{"thousands separator", "Notebook R$ 1.299,00 à vista", "1.299,00", true},
		{"POR marker", "POR: R$ 59,99", "59,99", true},
		{"POR without sigil", "POR: 59,99", "59,99", true},
		{"Valor marker", "Valor: 120,00", "120,00", true},
		{"money emoji", "💰 R$ 45,00", "45,00", true},
		{"lowercase marker", "por: r$ 10,50", "10,50", true},
		{"integer price", "R$ 80", "80", true},
		{"no price", "no money talk here", "", false},
		{"number without marker", "only 99,90 plain", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractPrice(tt.text)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPrice_FirstMatchWins(t *testing.T) {
	price, found := ExtractPrice("de R$ 199,90 POR: R$ 149,90")
	require.True(t, found)
	assert.Equal(t, "199,90", price)
}

func TestExtractPrice_Idempotent(t *testing.T) {
	text := "Wireless Mouse - R$ 99,90 no boleto"

	matched := priceRegex.FindString(text)
	require.NotEmpty(t, matched)

	price, found := ExtractPrice(text)
	require.True(t, found)

	again, found := ExtractPrice(matched)
	require.True(t, found)
	assert.Equal(t, price, again)
}

func TestExtractPrice_PermissiveSeparators(t *testing.T) {
	// The upstream pattern allows repeated group separators; "1.2.3,45" is
	// accepted as-is. Kept on purpose, the capture is display text only.
	price, found := ExtractPrice("R$ 1.2.3,45")
	require.True(t, found)
	assert.Equal(t, "1.2.3,45", price)
}
