package kernel

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"orderflow/internal/pkg/errs"
)

const (
	tokenEntropyBytes = 32
	maxTokenLength    = 512
)

// ErrTokenIsNotConstructed is returned when validating a zero-value Token.
var ErrTokenIsNotConstructed = errs.NewValueIsRequiredError("token")

// Token is the opaque handle of one suspended workflow step. Generated tokens carry 256 bits
// of entropy encoded as unpadded base64url.
type Token struct {
	value string
}

// NewToken draws a fresh random token.
func NewToken() (Token, error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return Token{}, fmt.Errorf("generate token: %w", err)
	}
	return Token{value: base64.RawURLEncoding.EncodeToString(buf)}, nil
}

// TokenFromString wraps a token received from a caller or read back from storage.
func TokenFromString(s string) (Token, error) {
	if s == "" {
		return Token{}, ErrTokenIsNotConstructed
	}
	if len(s) > maxTokenLength {
		return Token{}, errs.NewValueIsOutOfRangeError("token length", len(s), 1, maxTokenLength)
	}
	return Token{value: s}, nil
}

// OptionalTokenFromString is TokenFromString with the empty string mapped to the zero Token.
func OptionalTokenFromString(s string) (Token, error) {
	if s == "" {
		return Token{}, nil
	}
	return TokenFromString(s)
}

func (t Token) String() string {
	return t.value
}

func (t Token) IsZero() bool {
	return t.value == ""
}

func (t Token) IsEqual(other Token) bool {
	return t.value == other.value
}

// Redacted returns a short prefix safe to put in logs.
func (t Token) Redacted() string {
	if len(t.value) <= 6 {
		return "***"
	}
	return t.value[:6] + "***"
}

func (t Token) Validate() error {
	if t.value == "" {
		return ErrTokenIsNotConstructed
	}
	return nil
}
