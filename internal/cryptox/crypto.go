// Package cryptox implements credential verifiers for the session state
// machine. A verifier turns a PIN into the opaque string that gets persisted
// and later checks a candidate PIN against it.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pinvault/internal/common"
	"golang.org/x/crypto/argon2"
)

var ErrUnknownVerifier = errors.New("unknown verifier")

const (
	NamePlain  = "plain"
	NameArgon2 = "argon2"
)

// Argon2Params are the argon2id cost parameters.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultArgon2Params matches the cost used for master keys elsewhere:
// 1 pass, 64 MiB, 4 lanes, 32-byte output.
var DefaultArgon2Params = Argon2Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}

func DeriveKey(secret, salt []byte, p Argon2Params) []byte {
	return argon2.IDKey(secret, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// PlainVerifier stores the PIN as-is. It reproduces the legacy on-disk
// format and offers no protection for data at rest.
type PlainVerifier struct{}

func (PlainVerifier) Seal(secret string) (string, error) {
	return secret, nil
}

func (PlainVerifier) Verify(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// Argon2Verifier stores "argon2id$<salt>$<key>" with base64 (raw, std)
// encoded salt and derived key.
type Argon2Verifier struct {
	Params Argon2Params
}

func NewArgon2Verifier() *Argon2Verifier {
	return &Argon2Verifier{Params: DefaultArgon2Params}
}

const argon2Prefix = "argon2id"

func (v *Argon2Verifier) Seal(secret string) (string, error) {
	pw := []byte(secret)
	defer common.WipeByteArray(pw)

	salt := common.GenerateRandByteArray(v.Params.SaltLen)
	key := DeriveKey(pw, salt, v.Params)

	enc := base64.RawStdEncoding
	return strings.Join([]string{argon2Prefix, enc.EncodeToString(salt), enc.EncodeToString(key)}, "$"), nil
}

func (v *Argon2Verifier) Verify(stored, candidate string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 || parts[0] != argon2Prefix {
		return false
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := enc.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}

	pw := []byte(candidate)
	defer common.WipeByteArray(pw)

	p := v.Params
	p.KeyLen = uint32(len(want))
	got := DeriveKey(pw, salt, p)

	return subtle.ConstantTimeCompare(got, want) == 1
}

// Verifier is the method set shared by PlainVerifier and Argon2Verifier.
type Verifier interface {
	Seal(secret string) (string, error)
	Verify(stored, candidate string) bool
}

// ByName resolves the verifier configured under name.
func ByName(name string) (Verifier, error) {
	switch strings.ToLower(name) {
	case NamePlain:
		return PlainVerifier{}, nil
	case NameArgon2, "":
		return NewArgon2Verifier(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVerifier, name)
	}
}
