package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple shop name", "Safiatou Boutique", "safiatou-boutique"},
		{"already lowercase", "chez-awa", "chez-awa"},
		{"accents dropped", "Élan d'Or", "lan-dor"},
		{"punctuation dropped", "Mode & Style!", "mode-style"},
		{"whitespace runs", "La   Belle    Boutique", "la-belle-boutique"},
		{"hyphen runs collapse", "Afro--Chic", "afro-chic"},
		{"leading and trailing noise", "  --Dakar Shop--  ", "dakar-shop"},
		{"digits kept", "Boutique 2000", "boutique-2000"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.in))
		})
	}
}

func TestPhoneDigits(t *testing.T) {
	assert.Equal(t, "221771234567", PhoneDigits("+221 77 123 45 67"))
	assert.Equal(t, "212612345678", PhoneDigits("+212-612-345-678"))
	assert.Equal(t, "", PhoneDigits("abc"))
}

func TestGenerateRememberTokenParts(t *testing.T) {
	selector, verifier, cookie, err := GenerateRememberTokenParts()
	require.NoError(t, err)

	assert.Len(t, selector, 32)
	assert.Len(t, verifier, 64)
	assert.Equal(t, selector+"."+verifier, cookie)

	selector2, verifier2, _, err := GenerateRememberTokenParts()
	require.NoError(t, err)
	assert.NotEqual(t, selector, selector2)
	assert.NotEqual(t, verifier, verifier2)
}

func TestGenerateRememberTokenPartsAreHex(t *testing.T) {
	selector, verifier, _, err := GenerateRememberTokenParts()
	require.NoError(t, err)
	for _, part := range []string{selector, verifier} {
		assert.Equal(t, strings.ToLower(part), part)
		for _, r := range part {
			assert.Contains(t, "0123456789abcdef", string(r))
		}
	}
}
