package pagination

import (
	"context"
	"time"
)

// OffsetMeta is the pagination block of the offset envelope.
type OffsetMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// CursorMeta is the pagination block of the cursor envelope. Total is
// recomputed on every page, so it tracks concurrent inserts and deletes
// rather than staying frozen across a traversal.
type CursorMeta struct {
	Limit      int     `json:"limit"`
	Total      int     `json:"total"`
	HasMore    bool    `json:"hasMore"`
	NextCursor *string `json:"nextCursor"`
}

// Result carries the fetched rows plus the metadata for the chosen
// mode. Exactly one of Offset/Cursor is set for the envelope modes;
// raw mode sets neither.
type Result[T any] struct {
	Mode   Mode
	Data   []T
	Offset *OffsetMeta
	Cursor *CursorMeta
}

// Fetcher adapts a repository to the engine. Fetch must return rows in
// descending (created_at, id) order for cursor requests; limit == 0
// means unbounded. Key extracts the ordering key used to mint the next
// cursor.
type Fetcher[T any] struct {
	Fetch func(ctx context.Context, limit, offset int, after *Cursor) ([]T, error)
	Count func(ctx context.Context) (int, error)
	Key   func(T) (time.Time, string)
}

// Paginate executes a normalized Request against a Fetcher. All three
// modes run the same filtered query; only the bounds and the metadata
// differ. Cursor mode fetches limit+1 rows to detect a next page
// without a second query.
func Paginate[T any](ctx context.Context, req Request, f Fetcher[T]) (*Result[T], error) {
	switch req.Mode {
	case ModeOffset:
		total, err := f.Count(ctx)
		if err != nil {
			return nil, err
		}
		data, err := f.Fetch(ctx, req.Limit, (req.Page-1)*req.Limit, nil)
		if err != nil {
			return nil, err
		}
		totalPages := (total + req.Limit - 1) / req.Limit
		return &Result[T]{
			Mode: ModeOffset,
			Data: data,
			Offset: &OffsetMeta{
				Page:       req.Page,
				Limit:      req.Limit,
				Total:      total,
				TotalPages: totalPages,
			},
		}, nil

	case ModeCursor:
		total, err := f.Count(ctx)
		if err != nil {
			return nil, err
		}
		rows, err := f.Fetch(ctx, req.Limit+1, 0, req.Cursor)
		if err != nil {
			return nil, err
		}
		hasMore := len(rows) > req.Limit
		if hasMore {
			rows = rows[:req.Limit]
		}
		meta := &CursorMeta{Limit: req.Limit, Total: total, HasMore: hasMore}
		if hasMore && len(rows) > 0 {
			createdAt, id := f.Key(rows[len(rows)-1])
			token := Encode(Cursor{CreatedAt: createdAt, ID: id})
			meta.NextCursor = &token
		}
		return &Result[T]{Mode: ModeCursor, Data: rows, Cursor: meta}, nil

	default:
		data, err := f.Fetch(ctx, 0, 0, nil)
		if err != nil {
			return nil, err
		}
		return &Result[T]{Mode: ModeRaw, Data: data}, nil
	}
}
