package pagination

import (
	"context"
	"slices"
)

// Params are the per-call list parameters.
type Params struct {
	// Cursor continues a previous listing. Empty starts from the newest record.
	Cursor string

	// FilterTypes restricts the listing to these transaction type tags.
	FilterTypes []string
}

// Source re-issues a list call for a scope. The transactions lister
// implements it.
type Source[T, S any] interface {
	List(ctx context.Context, scope S, params Params) (*Paginator[T, S], error)
}

// Continuation is everything needed to fetch the page after the current one.
type Continuation[S any] struct {
	Scope       S
	FilterTypes []string
	Cursor      string
}

// Paginator is one fetched page of T listed under scope S.
type Paginator[T, S any] struct {
	items  []T
	next   Continuation[S]
	source Source[T, S]
}

// New builds a paginator over one fetched page. An empty cursor makes it
// terminal.
func New[T, S any](source Source[T, S], items []T, next Continuation[S]) *Paginator[T, S] {
	return &Paginator[T, S]{
		items:  items,
		next:   next,
		source: source,
	}
}

// Items returns a copy of the current page in server order.
func (p *Paginator[T, S]) Items() []T {
	return slices.Clone(p.items)
}

// HasMore reports whether a continuation cursor is present.
func (p *Paginator[T, S]) HasMore() bool {
	return p.next.Cursor != ""
}

// Cursor returns the opaque continuation cursor, or "" on the last page.
func (p *Paginator[T, S]) Cursor() string {
	return p.next.Cursor
}

// Continuation returns the plain-data continuation of this page.
func (p *Paginator[T, S]) Continuation() Continuation[S] {
	return p.next
}

// Next fetches the following page. On the last page it returns an empty
// terminal paginator without calling the source, so it is safe to call
// repeatedly.
func (p *Paginator[T, S]) Next(ctx context.Context) (*Paginator[T, S], error) {
	if !p.HasMore() {
		return &Paginator[T, S]{
			next:   Continuation[S]{Scope: p.next.Scope, FilterTypes: p.next.FilterTypes},
			source: p.source,
		}, nil
	}

	return p.source.List(ctx, p.next.Scope, Params{
		Cursor:      p.next.Cursor,
		FilterTypes: p.next.FilterTypes,
	})
}

// Take collects up to n items starting with the current page, fetching
// following pages in order as needed. It returns fewer than n items when the
// listing ends first. A failed page fetch discards the items collected so
// far.
func (p *Paginator[T, S]) Take(ctx context.Context, n int) ([]T, error) {
	if n <= 0 {
		return []T{}, nil
	}

	out := make([]T, 0, min(n, len(p.items)))
	page := p
	for {
		remaining := n - len(out)
		if len(page.items) >= remaining {
			return append(out, page.items[:remaining]...), nil
		}
		out = append(out, page.items...)

		if !page.HasMore() {
			return out, nil
		}

		next, err := page.Next(ctx)
		if err != nil {
			return nil, err
		}
		page = next
	}
}
