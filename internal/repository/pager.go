package repository

import (
	"context"
	"iter"
)

// KeysetFunc fetches up to limit items ordered strictly after last.
// last is nil for the first page.
type KeysetFunc[T any] func(ctx context.Context, last *T, limit int) ([]T, error)

// All returns a lazy sequence over every item of a keyset-paged listing.
// Pages are fetched on demand; ranging again re-queries from the first page.
// Rows inserted ahead of the cursor mid-iteration are not yielded and do not
// cause repeats. A fetch error is yielded once and ends the sequence.
func All[T any](ctx context.Context, fetch KeysetFunc[T], pageSize int) iter.Seq2[T, error] {
	if pageSize <= 0 {
		pageSize = 100
	}
	return func(yield func(T, error) bool) {
		var last *T
		for {
			page, err := fetch(ctx, last, pageSize)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page {
				if !yield(item, nil) {
					return
				}
			}
			if len(page) < pageSize {
				return
			}
			tail := page[len(page)-1]
			last = &tail
		}
	}
}
