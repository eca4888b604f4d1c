package pagination

import "strconv"

// Mode selects the response shape for a list request. Three shapes are
// served from the same filtered query for backward compatibility:
// a bare array, an offset envelope, and a cursor envelope.
type Mode int

const (
	// ModeRaw returns the full filtered set as a bare array.
	ModeRaw Mode = iota
	// ModeOffset returns a page/limit/total/totalPages envelope.
	ModeOffset
	// ModeCursor returns a keyset-paginated envelope with an opaque cursor.
	ModeCursor
)

// Limits holds the per-resource default and maximum page size.
type Limits struct {
	Default int
	Max     int
}

// Standard limits per resource.
var (
	TaskLimits         = Limits{Default: 20, Max: 100}
	NotificationLimits = Limits{Default: 20, Max: 100}
	ActivityLimits     = Limits{Default: 50, Max: 200}
)

// Request is a normalized page request. It is the single classification
// point for the three list modes so shared filter logic never forks.
type Request struct {
	Mode   Mode
	Page   int     // offset mode only, 1-based
	Limit  int     // clamped to Limits
	Cursor *Cursor // cursor mode only, nil means start of sequence
}

// Parse classifies raw query parameters into a Request.
//
// Presence of cursor (even empty) selects cursor mode and wins over
// page. Presence of page selects offset mode. Neither selects raw mode.
// Bad page/limit values are corrected to defaults, never rejected, and
// an undecodable cursor falls back to the start of the sequence so the
// endpoint stays usable with stale client state.
func Parse(pageStr string, hasPage bool, cursorStr string, hasCursor bool, limitStr string, limits Limits) Request {
	limit := parsePositive(limitStr)
	if limit <= 0 {
		limit = limits.Default
	}
	if limit > limits.Max {
		limit = limits.Max
	}

	if hasCursor {
		req := Request{Mode: ModeCursor, Limit: limit}
		if cursorStr != "" {
			if cur, err := Decode(cursorStr); err == nil {
				req.Cursor = &cur
			}
		}
		return req
	}

	if hasPage {
		page := parsePositive(pageStr)
		if page <= 0 {
			page = 1
		}
		return Request{Mode: ModeOffset, Page: page, Limit: limit}
	}

	return Request{Mode: ModeRaw}
}

func parsePositive(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
