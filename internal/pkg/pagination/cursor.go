// Package pagination encodes keyset cursors shared by every paginated listing.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/pkg/errs"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor points just past the last item of a page, ordered by (At, ID).
type Cursor struct {
	At time.Time
	ID string
}

// Encode returns the opaque form handed to clients.
func (c Cursor) Encode() string {
	raw := c.At.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a cursor. The empty string is the first page.
func Decode(s string) (Cursor, bool, error) {
	if s == "" {
		return Cursor{}, false, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, false, errs.NewValueIsInvalidErrorWithCause("cursor", err)
	}
	at, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return Cursor{}, false, errs.NewValueIsInvalidErrorWithCause("cursor", fmt.Errorf("malformed cursor"))
	}
	t, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Cursor{}, false, errs.NewValueIsInvalidErrorWithCause("cursor", err)
	}
	return Cursor{At: t, ID: id}, true, nil
}

// ClampLimit maps non-positive limits to DefaultLimit and caps at MaxLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// After reports whether (at, id) sorts strictly after c in descending (newest first) order,
// i.e. belongs to the next page.
func (c Cursor) After(at time.Time, id string) bool {
	if !at.Equal(c.At) {
		return at.Before(c.At)
	}
	return id < c.ID
}
