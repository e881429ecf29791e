package apikey_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/apikey"
)

const testPrefix = "ak_live_"

func TestGenerate_FormatoYLookup(t *testing.T) {
	plaintext, lookupPrefix, digest, err := apikey.Generate(testPrefix)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(plaintext, testPrefix),
		"el plaintext debe comenzar con el prefijo comercial")
	assert.Len(t, lookupPrefix, apikey.PrefixLookupLen,
		"el prefijo de lookup debe tener longitud fija")
	assert.Equal(t, plaintext[:apikey.PrefixLookupLen], lookupPrefix)
	assert.Len(t, digest, 64, "el digest SHA-256 hex tiene 64 caracteres")
	assert.NotContains(t, digest, plaintext[len(testPrefix):],
		"el digest no debe contener el sufijo en claro")
}

func TestGenerate_SufijoCompletoYEnAlfabeto(t *testing.T) {
	const alfabeto = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for i := 0; i < 100; i++ {
		plaintext, _, _, err := apikey.Generate(testPrefix)
		require.NoError(t, err)

		suffix := plaintext[len(testPrefix):]
		assert.Len(t, suffix, 43,
			"el muestreo con rechazo debe rellenar el sufijo completo")
		for _, ch := range suffix {
			assert.Contains(t, alfabeto, string(ch))
		}
	}
}

func TestGenerate_NoRepite(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		plaintext, _, _, err := apikey.Generate(testPrefix)
		require.NoError(t, err)
		assert.False(t, seen[plaintext], "dos llaves generadas no deben coincidir")
		seen[plaintext] = true
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	plaintext, _, digest, err := apikey.Generate(testPrefix)
	require.NoError(t, err)

	assert.True(t, apikey.Verify(plaintext, digest),
		"el plaintext recién generado debe verificar contra su digest")
}

func TestVerify_UnCaracterDistinto_Falla(t *testing.T) {
	plaintext, _, digest, err := apikey.Generate(testPrefix)
	require.NoError(t, err)

	// Se altera el último carácter del sufijo.
	last := plaintext[len(plaintext)-1]
	flipped := byte('a')
	if last == 'a' {
		flipped = 'b'
	}
	tampered := plaintext[:len(plaintext)-1] + string(flipped)

	assert.False(t, apikey.Verify(tampered, digest),
		"un solo carácter distinto debe invalidar la credencial")
}

func TestVerify_DigestVacio_Falla(t *testing.T) {
	assert.False(t, apikey.Verify("ak_live_loquesea", ""))
}
