// Package secret generates and verifies opaque bearer credentials. The raw
// secret exists only in the creation response; only a one-way hash and a
// short display prefix are ever persisted.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// Prefix is the human-recognizable tag for this credential class,
	// similar to provider key formats like sk-.
	Prefix = "eh-"

	// secretBytes is drawn from the random source per credential: 256 bits
	// of entropy before encoding.
	secretBytes = 32

	// displayPrefixLen is the stored leading substring of the encoded
	// secret: enough to identify a key, far too short to weaken it.
	displayPrefixLen = len(Prefix) + 8
)

// Credential is a freshly generated secret together with its storable parts.
type Credential struct {
	// Raw is the full secret, shown exactly once. Never stored.
	Raw string
	// DisplayPrefix is a literal prefix of Raw, safe to store and display.
	DisplayPrefix string
	// Hash is the hex-encoded SHA-256 of Raw. Only the hash is persisted.
	Hash string
}

// Codec generates credentials from an injected random source so callers can
// test deterministically. A nil source falls back to crypto/rand.
type Codec struct {
	random io.Reader
}

func NewCodec(random io.Reader) *Codec {
	if random == nil {
		random = rand.Reader
	}

	return &Codec{random: random}
}

// Generate draws a new credential from the random source.
func (c *Codec) Generate() (Credential, error) {
	buf := make([]byte, secretBytes)

	if _, err := io.ReadFull(c.random, buf); err != nil {
		return Credential{}, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	raw := Prefix + base64.RawURLEncoding.EncodeToString(buf)

	return Credential{
		Raw:           raw,
		DisplayPrefix: raw[:displayPrefixLen],
		Hash:          Hash(raw),
	}, nil
}

// Hash computes the hex-encoded SHA-256 of an encoded secret.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Verify compares a presented secret against a stored hash in constant time.
func Verify(storedHash, raw string) bool {
	presented := sha256.Sum256([]byte(raw))

	stored, err := hex.DecodeString(storedHash)
	if err != nil || len(stored) != len(presented) {
		return false
	}

	return subtle.ConstantTimeCompare(stored, presented[:]) == 1
}
