package meta

import (
	"encoding/hex"
	"strings"
)

// obfuscatedPrefix marks a credential value that has been through the
// at-rest transform. The prefix and the hex form are a compatibility
// surface shared with other tooling that reads the persisted files.
const obfuscatedPrefix = "Encrypted "

// obfuscationSeed keys the reversible transform. Obfuscation keeps
// credentials out of casual sight at rest; it is not cryptography.
var obfuscationSeed = []byte{0x09, 0x33, 0x91, 0x08, 0x47, 0x46, 0x38, 0x29, 0x82, 0x71}

// Obfuscate transforms a credential for persistence. Values containing
// variable references are stored as-is so they remain substitutable at run
// time; everything else is XORed against the seed and hex encoded under the
// Encrypted prefix.
func Obfuscate(plain string) string {
	if plain == "" {
		return ""
	}
	if strings.Contains(plain, "${") || strings.Contains(plain, "%%") {
		return plain
	}

	b := []byte(plain)
	for i := range b {
		b[i] ^= obfuscationSeed[i%len(obfuscationSeed)]
	}
	return obfuscatedPrefix + hex.EncodeToString(b)
}

// Deobfuscate restores a persisted credential. Values without the Encrypted
// prefix (older files, variable references) pass through unchanged, as does
// anything that fails to decode.
func Deobfuscate(stored string) string {
	if !strings.HasPrefix(stored, obfuscatedPrefix) {
		return stored
	}

	raw, err := hex.DecodeString(stored[len(obfuscatedPrefix):])
	if err != nil {
		return stored
	}
	for i := range raw {
		raw[i] ^= obfuscationSeed[i%len(obfuscationSeed)]
	}
	return string(raw)
}
