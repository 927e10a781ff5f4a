package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_KnownVector(t *testing.T) {
	got := Generate("a", "b", "http://x.test", DefaultSecret)
	assert.Equal(t, "83d33419f78abb4d5bfc2d6d9a8683f5b6b728587a93e8e07dcef48156aabe84", got)
}

func TestGenerate_Deterministic(t *testing.T) {
	first := Generate("ventas@envios.cl", "cliente@example.com", "https://example.com/oferta?id=7", DefaultSecret)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Generate("ventas@envios.cl", "cliente@example.com", "https://example.com/oferta?id=7", DefaultSecret))
	}
	assert.Len(t, first, 64)
	assert.Equal(t, strings.ToLower(first), first)
}

func TestGenerate_EachInputChangesToken(t *testing.T) {
	base := Generate("a", "b", "http://x.test", "s")

	variants := map[string]string{
		"from":   Generate("a2", "b", "http://x.test", "s"),
		"to":     Generate("a", "b2", "http://x.test", "s"),
		"url":    Generate("a", "b", "http://x.test/2", "s"),
		"secret": Generate("a", "b", "http://x.test", "s2"),
	}
	for field, v := range variants {
		assert.NotEqual(t, base, v, "changing %s must change the token", field)
	}
}

func TestSigner_Verify(t *testing.T) {
	signer := NewSigner(DefaultSecret)
	tok := signer.Sign("a", "b", "http://x.test")

	assert.Equal(t, Generate("a", "b", "http://x.test", DefaultSecret), tok)
	assert.True(t, signer.Verify("a", "b", "http://x.test", tok))
	assert.False(t, signer.Verify("a", "b", "http://x.test", strings.ToUpper(tok)))
	assert.False(t, signer.Verify("a", "b", "http://y.test", tok))
	assert.False(t, signer.Verify("a", "b", "http://x.test", ""))
	assert.False(t, NewSigner("otro").Verify("a", "b", "http://x.test", tok))
}
