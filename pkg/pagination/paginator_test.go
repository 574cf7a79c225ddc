package pagination

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	items  []int
	cursor string
}

// fakeSource serves pages keyed by the cursor that requests them.
type fakeSource struct {
	pages  map[string]page
	fail   map[string]error
	calls  []Params
	scopes []string
}

func (f *fakeSource) List(_ context.Context, scope string, params Params) (*Paginator[int, string], error) {
	f.calls = append(f.calls, params)
	f.scopes = append(f.scopes, scope)
	if err := f.fail[params.Cursor]; err != nil {
		return nil, err
	}
	pg := f.pages[params.Cursor]
	return New[int, string](f, pg.items, Continuation[string]{
		Scope:       scope,
		FilterTypes: params.FilterTypes,
		Cursor:      pg.cursor,
	}), nil
}

func TestPaginator_Accessors(t *testing.T) {
	src := &fakeSource{pages: map[string]page{"": {items: []int{1, 2}, cursor: "c1"}}}
	p, err := src.List(context.Background(), "scope", Params{})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, p.Items())
	assert.True(t, p.HasMore())
	assert.Equal(t, "c1", p.Cursor())
	assert.Equal(t, "scope", p.Continuation().Scope)
}

func TestPaginator_NextCarriesFilterAndScope(t *testing.T) {
	src := &fakeSource{pages: map[string]page{
		"":   {items: []int{1}, cursor: "c1"},
		"c1": {items: []int{2}},
	}}
	p, err := src.List(context.Background(), "acct", Params{FilterTypes: []string{"payment_v1", "payment_v2"}})
	require.NoError(t, err)

	next, err := p.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, next.Items())
	assert.False(t, next.HasMore())

	require.Len(t, src.calls, 2)
	assert.Equal(t, Params{Cursor: "c1", FilterTypes: []string{"payment_v1", "payment_v2"}}, src.calls[1])
	assert.Equal(t, []string{"acct", "acct"}, src.scopes)
}

func TestPaginator_TerminalNextIsIdempotent(t *testing.T) {
	src := &fakeSource{pages: map[string]page{"": {items: []int{1, 2}}}}
	p, err := src.List(context.Background(), "s", Params{})
	require.NoError(t, err)
	require.False(t, p.HasMore())

	for i := 0; i < 3; i++ {
		p, err = p.Next(context.Background())
		require.NoError(t, err)
		assert.Empty(t, p.Items())
		assert.False(t, p.HasMore())
	}
	assert.Len(t, src.calls, 1, "terminal Next must not call the source")
}

func TestPaginator_TakeAcrossPages(t *testing.T) {
	src := &fakeSource{pages: map[string]page{
		"":   {items: []int{10, 20}, cursor: "c1"},
		"c1": {items: []int{30}},
	}}
	p, err := src.List(context.Background(), "s", Params{})
	require.NoError(t, err)

	items, err := p.Take(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, items)
	assert.Len(t, src.calls, 2, "stops after the page without a cursor")
}

func TestPaginator_TakeDrainsWithHugeN(t *testing.T) {
	src := &fakeSource{pages: map[string]page{
		"":   {items: []int{10, 20}, cursor: "c1"},
		"c1": {items: []int{30}},
	}}
	p, err := src.List(context.Background(), "s", Params{})
	require.NoError(t, err)

	var items []int
	require.NotPanics(t, func() {
		items, err = p.Take(context.Background(), math.MaxInt)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, items)
	assert.Len(t, src.calls, 2)
}

func TestPaginator_ItemsIsACopy(t *testing.T) {
	src := &fakeSource{pages: map[string]page{"": {items: []int{1, 2}}}}
	p, err := src.List(context.Background(), "s", Params{})
	require.NoError(t, err)

	items := p.Items()
	items[0] = 99
	assert.Equal(t, []int{1, 2}, p.Items())

	taken, err := p.Take(context.Background(), 2)
	require.NoError(t, err)
	taken[1] = 99
	assert.Equal(t, []int{1, 2}, p.Items())
}

func TestPaginator_TakeStopsAtN(t *testing.T) {
	src := &fakeSource{pages: map[string]page{
		"":   {items: []int{1, 2}, cursor: "c1"},
		"c1": {items: []int{3, 4}, cursor: "c2"},
		"c2": {items: []int{5}},
	}}
	p, err := src.List(context.Background(), "s", Params{})
	require.NoError(t, err)

	tests := []struct {
		n     int
		want  []int
		calls int
	}{
		{n: 0, want: []int{}, calls: 1},
		{n: 1, want: []int{1}, calls: 1},
		{n: 2, want: []int{1, 2}, calls: 1},
		{n: 3, want: []int{1, 2, 3}, calls: 2},
		{n: 5, want: []int{1, 2, 3, 4, 5}, calls: 3},
	}
	for _, tt := range tests {
		src.calls = src.calls[:1]
		items, err := p.Take(context.Background(), tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, items, "n=%d", tt.n)
		assert.Len(t, src.calls, tt.calls, "n=%d", tt.n)
	}
}

func TestPaginator_TakeDiscardsPartialOnError(t *testing.T) {
	boom := errors.New("transport down")
	src := &fakeSource{
		pages: map[string]page{"": {items: []int{1, 2}, cursor: "c1"}},
		fail:  map[string]error{"c1": boom},
	}
	p, err := src.List(context.Background(), "s", Params{})
	require.NoError(t, err)

	items, err := p.Take(context.Background(), 5)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, items)
}
