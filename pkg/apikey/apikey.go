package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// PrefixLookupLen cuántos caracteres del plaintext se guardan como prefijo
// público para lookup en base (incluye el prefijo comercial "ak_live_").
const PrefixLookupLen = 12

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const suffixLen = 43 // ~256 bits de entropía sobre alfabeto base62

// Generate crea una credencial nueva: plaintext = prefix + sufijo aleatorio de
// alta entropía. Devuelve el plaintext (se muestra una única vez), el prefijo
// público de lookup y el digest a persistir. El plaintext jamás se guarda.
func Generate(prefix string) (plaintext, lookupPrefix, digest string, err error) {
	suffix := make([]byte, 0, suffixLen)
	buf := make([]byte, suffixLen)
	for len(suffix) < suffixLen {
		if _, err := rand.Read(buf); err != nil {
			return "", "", "", fmt.Errorf("apikey: generar sufijo: %w", err)
		}
		// Muestreo con rechazo sobre [0, 248): 248 = 4*62, así cada letra
		// del alfabeto sale con la misma probabilidad.
		for _, b := range buf {
			if b >= 248 {
				continue
			}
			suffix = append(suffix, suffixAlphabet[int(b)%len(suffixAlphabet)])
			if len(suffix) == suffixLen {
				break
			}
		}
	}
	plaintext = prefix + string(suffix)
	return plaintext, plaintext[:PrefixLookupLen], Digest(plaintext), nil
}

// Digest devuelve el SHA-256 hex del plaintext completo.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Verify compara el digest del valor presentado contra el guardado, en tiempo
// constante para no filtrar información por timing.
func Verify(presented, storedDigest string) bool {
	d := Digest(presented)
	return subtle.ConstantTimeCompare([]byte(d), []byte(storedDigest)) == 1
}
