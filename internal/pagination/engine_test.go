package pagination

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	id        string
	createdAt time.Time
}

// memStore serves rows in descending (createdAt, id) order with the
// same keyset predicate the repositories use.
type memStore struct {
	rows []fakeRow
}

func newMemStore(n int, apart time.Duration) *memStore {
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	rows := make([]fakeRow, n)
	for i := 0; i < n; i++ {
		rows[i] = fakeRow{id: uuid.NewString(), createdAt: base.Add(time.Duration(i) * apart)}
	}
	s := &memStore{rows: rows}
	s.sortDesc()
	return s
}

func (s *memStore) sortDesc() {
	sort.Slice(s.rows, func(i, j int) bool {
		if !s.rows[i].createdAt.Equal(s.rows[j].createdAt) {
			return s.rows[i].createdAt.After(s.rows[j].createdAt)
		}
		return s.rows[i].id > s.rows[j].id
	})
}

func (s *memStore) fetcher() Fetcher[fakeRow] {
	return Fetcher[fakeRow]{
		Fetch: func(_ context.Context, limit, offset int, after *Cursor) ([]fakeRow, error) {
			var out []fakeRow
			for _, r := range s.rows {
				if after != nil {
					before := r.createdAt.Before(after.CreatedAt) ||
						(r.createdAt.Equal(after.CreatedAt) && r.id < after.ID)
					if !before {
						continue
					}
				}
				out = append(out, r)
			}
			if offset > 0 {
				if offset >= len(out) {
					out = nil
				} else {
					out = out[offset:]
				}
			}
			if limit > 0 && len(out) > limit {
				out = out[:limit]
			}
			return out, nil
		},
		Count: func(context.Context) (int, error) { return len(s.rows), nil },
		Key:   func(r fakeRow) (time.Time, string) { return r.createdAt, r.id },
	}
}

func TestPaginate_RawReturnsEverythingWithoutMeta(t *testing.T) {
	s := newMemStore(25, time.Minute)
	res, err := Paginate(context.Background(), Request{Mode: ModeRaw}, s.fetcher())
	require.NoError(t, err)
	require.Len(t, res.Data, 25)
	require.Nil(t, res.Offset)
	require.Nil(t, res.Cursor)
	// descending creation time
	for i := 1; i < len(res.Data); i++ {
		require.False(t, res.Data[i].createdAt.After(res.Data[i-1].createdAt))
	}
}

func TestPaginate_OffsetMetadata(t *testing.T) {
	s := newMemStore(25, time.Minute)
	res, err := Paginate(context.Background(), Request{Mode: ModeOffset, Page: 2, Limit: 10}, s.fetcher())
	require.NoError(t, err)
	require.Len(t, res.Data, 10)
	require.Equal(t, &OffsetMeta{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, res.Offset)
}

func TestPaginate_OffsetLengthInvariant(t *testing.T) {
	// len(data) == min(limit, max(0, total-(page-1)*limit)) for every page
	s := newMemStore(25, time.Minute)
	total := 25
	for _, limit := range []int{1, 7, 10, 25, 40} {
		for page := 1; page <= 6; page++ {
			res, err := Paginate(context.Background(), Request{Mode: ModeOffset, Page: page, Limit: limit}, s.fetcher())
			require.NoError(t, err)

			want := total - (page-1)*limit
			if want < 0 {
				want = 0
			}
			if want > limit {
				want = limit
			}
			require.Len(t, res.Data, want, "page=%d limit=%d", page, limit)
		}
	}
}

func TestPaginate_OffsetPageBeyondEndIsEmptyNotError(t *testing.T) {
	s := newMemStore(5, time.Minute)
	res, err := Paginate(context.Background(), Request{Mode: ModeOffset, Page: 9, Limit: 10}, s.fetcher())
	require.NoError(t, err)
	require.Empty(t, res.Data)
	require.Equal(t, 5, res.Offset.Total)
	require.Equal(t, 1, res.Offset.TotalPages)
}

func TestPaginate_CursorTraversal(t *testing.T) {
	// 25 rows a minute apart, limit 10: pages of 10, 10, 5.
	s := newMemStore(25, time.Minute)

	req := Request{Mode: ModeCursor, Limit: 10}
	seen := map[string]bool{}
	var pageSizes []int

	for i := 0; i < 10; i++ {
		res, err := Paginate(context.Background(), req, s.fetcher())
		require.NoError(t, err)
		require.Equal(t, 25, res.Cursor.Total)

		pageSizes = append(pageSizes, len(res.Data))
		for _, r := range res.Data {
			require.False(t, seen[r.id], "row %s appeared twice", r.id)
			seen[r.id] = true
		}

		if !res.Cursor.HasMore {
			require.Nil(t, res.Cursor.NextCursor)
			break
		}
		require.NotNil(t, res.Cursor.NextCursor)
		cur, err := Decode(*res.Cursor.NextCursor)
		require.NoError(t, err)
		req.Cursor = &cur
	}

	require.Equal(t, []int{10, 10, 5}, pageSizes)
	require.Len(t, seen, 25)
}

func TestPaginate_CursorTieBreakOnCollidingTimestamps(t *testing.T) {
	// every row shares one timestamp; the id tie-break must still
	// produce a strict total order with no gaps or duplicates
	s := newMemStore(12, 0)

	req := Request{Mode: ModeCursor, Limit: 5}
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		res, err := Paginate(context.Background(), req, s.fetcher())
		require.NoError(t, err)
		for _, r := range res.Data {
			require.False(t, seen[r.id])
			seen[r.id] = true
		}
		if !res.Cursor.HasMore {
			break
		}
		cur, err := Decode(*res.Cursor.NextCursor)
		require.NoError(t, err)
		req.Cursor = &cur
	}
	require.Len(t, seen, 12)
}

func TestPaginate_CursorExactMultipleOfLimit(t *testing.T) {
	s := newMemStore(20, time.Second)

	res, err := Paginate(context.Background(), Request{Mode: ModeCursor, Limit: 10}, s.fetcher())
	require.NoError(t, err)
	require.True(t, res.Cursor.HasMore)

	cur, err := Decode(*res.Cursor.NextCursor)
	require.NoError(t, err)
	res, err = Paginate(context.Background(), Request{Mode: ModeCursor, Limit: 10, Cursor: &cur}, s.fetcher())
	require.NoError(t, err)
	require.Len(t, res.Data, 10)
	require.False(t, res.Cursor.HasMore)
	require.Nil(t, res.Cursor.NextCursor)
}

func TestPaginate_CursorTotalTracksMutation(t *testing.T) {
	// total is recomputed each page; a delete mid-traversal shows up in
	// the next page's total. Documented keyset trade-off, not a bug.
	s := newMemStore(15, time.Minute)

	res, err := Paginate(context.Background(), Request{Mode: ModeCursor, Limit: 10}, s.fetcher())
	require.NoError(t, err)
	require.Equal(t, 15, res.Cursor.Total)

	// delete a row that was already served
	s.rows = s.rows[1:]

	cur, err := Decode(*res.Cursor.NextCursor)
	require.NoError(t, err)
	res, err = Paginate(context.Background(), Request{Mode: ModeCursor, Limit: 10, Cursor: &cur}, s.fetcher())
	require.NoError(t, err)
	require.Equal(t, 14, res.Cursor.Total)
	require.Len(t, res.Data, 5)
}

func TestPaginate_EmptySet(t *testing.T) {
	s := &memStore{}
	for _, req := range []Request{
		{Mode: ModeRaw},
		{Mode: ModeOffset, Page: 1, Limit: 10},
		{Mode: ModeCursor, Limit: 10},
	} {
		res, err := Paginate(context.Background(), req, s.fetcher())
		require.NoError(t, err, fmt.Sprintf("mode=%d", req.Mode))
		require.Empty(t, res.Data)
	}
}
