package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cursor is the ordering-key tuple of the last row of the previous
// page: creation timestamp plus the row id as tie-break. The encoded
// form is opaque to clients; only round-trip behavior is guaranteed.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// ErrMalformedCursor is returned by Decode for tokens that do not
// round-trip. Callers recover by treating the request as first-page.
var ErrMalformedCursor = errors.New("malformed pagination cursor")

// Encode serializes the cursor as base64url("<unixNano>_<id>").
// UnixNano keeps sub-second precision intact, which matters when rows
// are created within the same second under load.
func Encode(c Cursor) string {
	raw := fmt.Sprintf("%d_%s", c.CreatedAt.UnixNano(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode reverses Encode.
func Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrMalformedCursor
	}

	parts := strings.SplitN(string(raw), "_", 2)
	if len(parts) != 2 {
		return Cursor{}, ErrMalformedCursor
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Cursor{}, ErrMalformedCursor
	}
	if _, err := uuid.Parse(parts[1]); err != nil {
		return Cursor{}, ErrMalformedCursor
	}

	return Cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: parts[1]}, nil
}
