package automation

import (
	"context"
	"errors"
	"fmt"
)

// Static errors for err113 compliance.
var (
	ErrNoMoreItems = errors.New("no more items")
	ErrNilPage     = errors.New("page fetch returned no page")
)

// Page is one batch of a list operation plus the cursor of the next batch.
// An empty NextLink means the listing is exhausted.
type Page[T any] struct {
	Items    []T    `json:"items"               yaml:"items"`
	NextLink string `json:"next_link,omitempty" yaml:"next_link,omitempty"`
}

// HasMore reports whether another batch can be requested.
func (p *Page[T]) HasMore() bool {
	return p != nil && p.NextLink != ""
}

// PageFunc fetches the batch addressed by cursor. An empty cursor requests
// the first batch.
type PageFunc[T any] func(ctx context.Context, cursor string) (*Page[T], error)

// PaginationOptions controls FetchAll.
type PaginationOptions struct {
	// MaxPages caps the number of batches fetched. 0 means unlimited.
	MaxPages int
}

// DefaultPaginationOptions returns options that fetch every batch.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{}
}

// Pager walks a listing item by item. It is restartable per call: a new
// Pager starts from the first batch again.
type Pager[T any] struct {
	ctx     context.Context //nolint:containedctx // iterator carries the caller's context between Next calls
	fetch   PageFunc[T]
	items   []T
	index   int
	cursor  string
	started bool
	done    bool
	err     error
}

// NewPager creates a Pager over fetch.
func NewPager[T any](ctx context.Context, fetch PageFunc[T]) *Pager[T] {
	return &Pager[T]{
		ctx:   ctx,
		fetch: fetch,
	}
}

// HasNext reports whether Next can return another item. It fetches the
// following batch when the current one is consumed. A false result after a
// failed fetch is not the end of the listing; check Err.
func (p *Pager[T]) HasNext() bool {
	for p.index >= len(p.items) {
		if p.done {
			return false
		}

		err := p.fetchNext()
		if err != nil {
			return false
		}
	}

	return true
}

// Err returns the error that stopped the walk, or nil when the listing was
// exhausted normally.
func (p *Pager[T]) Err() error {
	return p.err
}

// Next returns the next item. Once a fetch has failed every call returns
// that error.
func (p *Pager[T]) Next() (T, error) {
	var zero T

	for p.index >= len(p.items) {
		if p.err != nil {
			return zero, p.err
		}

		if p.done {
			return zero, ErrNoMoreItems
		}

		err := p.fetchNext()
		if err != nil {
			return zero, err
		}
	}

	item := p.items[p.index]
	p.index++

	return item, nil
}

// All drains the pager.
func (p *Pager[T]) All() ([]T, error) {
	var all []T

	for {
		item, err := p.Next()
		if errors.Is(err, ErrNoMoreItems) {
			return all, nil
		}

		if err != nil {
			return nil, err
		}

		all = append(all, item)
	}
}

// ForEach calls fn for every item until fn returns an error.
func (p *Pager[T]) ForEach(fn func(T) error) error {
	for {
		item, err := p.Next()
		if errors.Is(err, ErrNoMoreItems) {
			return nil
		}

		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}
}

func (p *Pager[T]) fetchNext() error {
	if p.err != nil {
		return p.err
	}

	if p.started && p.cursor == "" {
		p.done = true

		return ErrNoMoreItems
	}

	page, err := p.fetch(p.ctx, p.cursor)
	if err == nil && page == nil {
		err = ErrNilPage
	}

	if err != nil {
		p.done = true
		p.err = fmt.Errorf("fetching page: %w", err)

		return p.err
	}

	p.started = true
	p.items = page.Items
	p.index = 0
	p.cursor = page.NextLink

	if p.cursor == "" {
		p.done = len(p.items) == 0
	}

	return nil
}

// FetchAll concatenates every batch of a listing.
func FetchAll[T any](ctx context.Context, fetch PageFunc[T], opts *PaginationOptions) ([]T, error) {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	var (
		all    []T
		cursor string
		pages  int
	)

	for {
		page, err := fetch(ctx, cursor)
		if err == nil && page == nil {
			err = ErrNilPage
		}

		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pages+1, err)
		}

		all = append(all, page.Items...)
		pages++

		if page.NextLink == "" {
			return all, nil
		}

		if opts.MaxPages > 0 && pages >= opts.MaxPages {
			return all, nil
		}

		cursor = page.NextLink
	}
}

// FindFirst scans a listing and returns the first item match accepts. When
// nothing matches every batch has been consumed and found is false.
func FindFirst[T any](ctx context.Context, fetch PageFunc[T], match func(T) bool) (T, bool, error) {
	var (
		zero   T
		cursor string
	)

	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return zero, false, err
		}

		if page == nil {
			return zero, false, ErrNilPage
		}

		for _, item := range page.Items {
			if match(item) {
				return item, true, nil
			}
		}

		if page.NextLink == "" {
			return zero, false, nil
		}

		cursor = page.NextLink
	}
}

// Filter scans a full listing and keeps the items keep accepts.
func Filter[T any](ctx context.Context, fetch PageFunc[T], keep func(T) bool) ([]T, error) {
	all, err := FetchAll(ctx, fetch, nil)
	if err != nil {
		return nil, err
	}

	kept := make([]T, 0, len(all))

	for _, item := range all {
		if keep(item) {
			kept = append(kept, item)
		}
	}

	return kept, nil
}
