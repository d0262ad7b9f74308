package automation_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

var errPageFailed = errors.New("page failed")

type TestResource struct {
	ID   string
	Name string
}

// pagedSource serves fixed batches; the cursor of batch i+1 is its index.
type pagedSource struct {
	batches [][]TestResource
	calls   []string
	failAt  int
}

func (s *pagedSource) fetch(_ context.Context, cursor string) (*automation.Page[TestResource], error) {
	s.calls = append(s.calls, cursor)

	index := 0
	if cursor != "" {
		index, _ = strconv.Atoi(cursor)
	}

	if s.failAt > 0 && index == s.failAt {
		return nil, errPageFailed
	}

	page := &automation.Page[TestResource]{Items: s.batches[index]}
	if index+1 < len(s.batches) {
		page.NextLink = strconv.Itoa(index + 1)
	}

	return page, nil
}

func newPagedSource() *pagedSource {
	return &pagedSource{
		batches: [][]TestResource{
			{{ID: "1", Name: "Resource 1"}, {ID: "2", Name: "Resource 2"}},
			{},
			{{ID: "3", Name: "Resource 3"}},
		},
	}
}

func TestPager_All(t *testing.T) {
	t.Parallel()

	source := newPagedSource()
	pager := automation.NewPager(context.Background(), source.fetch)

	items, err := pager.All()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "3", items[2].ID)
	assert.Equal(t, []string{"", "1", "2"}, source.calls)

	_, err = pager.Next()
	assert.ErrorIs(t, err, automation.ErrNoMoreItems)
	assert.False(t, pager.HasNext())
}

func TestPager_HasNextSkipsEmptyBatches(t *testing.T) {
	t.Parallel()

	source := newPagedSource()
	pager := automation.NewPager(context.Background(), source.fetch)

	var ids []string

	for pager.HasNext() {
		item, err := pager.Next()
		require.NoError(t, err)

		ids = append(ids, item.ID)
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestPager_ForEachStopsOnError(t *testing.T) {
	t.Parallel()

	source := newPagedSource()
	pager := automation.NewPager(context.Background(), source.fetch)

	seen := 0
	err := pager.ForEach(func(TestResource) error {
		seen++
		if seen == 2 {
			return errPageFailed
		}

		return nil
	})
	require.ErrorIs(t, err, errPageFailed)
	assert.Equal(t, 2, seen)
	assert.Len(t, source.calls, 1)
}

func TestPager_FetchError(t *testing.T) {
	t.Parallel()

	source := newPagedSource()
	source.failAt = 1

	_, err := automation.NewPager(context.Background(), source.fetch).All()
	require.ErrorIs(t, err, errPageFailed)
}

func TestPager_HasNextLoopSurfacesFetchError(t *testing.T) {
	t.Parallel()

	source := newPagedSource()
	source.failAt = 2
	pager := automation.NewPager(context.Background(), source.fetch)

	var ids []string

	for pager.HasNext() {
		item, err := pager.Next()
		require.NoError(t, err)

		ids = append(ids, item.ID)
	}

	assert.Equal(t, []string{"1", "2"}, ids)
	require.ErrorIs(t, pager.Err(), errPageFailed)

	_, err := pager.Next()
	require.ErrorIs(t, err, errPageFailed)
	assert.False(t, pager.HasNext())
	assert.Equal(t, []string{"", "1", "2"}, source.calls)
}

func TestPager_ErrIsNilWhenExhausted(t *testing.T) {
	t.Parallel()

	pager := automation.NewPager(context.Background(), newPagedSource().fetch)
	for pager.HasNext() {
		_, err := pager.Next()
		require.NoError(t, err)
	}

	require.NoError(t, pager.Err())
}

func TestPager_NilPage(t *testing.T) {
	t.Parallel()

	fetch := func(context.Context, string) (*automation.Page[TestResource], error) {
		return nil, nil //nolint:nilnil // exercises a misbehaving fetcher
	}

	pager := automation.NewPager(context.Background(), fetch)
	assert.False(t, pager.HasNext())
	require.ErrorIs(t, pager.Err(), automation.ErrNilPage)

	_, err := automation.FetchAll(context.Background(), fetch, nil)
	require.ErrorIs(t, err, automation.ErrNilPage)

	_, _, err = automation.FindFirst(context.Background(), fetch, func(TestResource) bool { return true })
	require.ErrorIs(t, err, automation.ErrNilPage)
}

func TestFetchAll(t *testing.T) {
	t.Parallel()

	items, err := automation.FetchAll(context.Background(), newPagedSource().fetch, nil)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	source := newPagedSource()
	items, err = automation.FetchAll(context.Background(), source.fetch, &automation.PaginationOptions{MaxPages: 1})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Len(t, source.calls, 1)

	failing := newPagedSource()
	failing.failAt = 2

	_, err = automation.FetchAll(context.Background(), failing.fetch, nil)
	require.ErrorIs(t, err, errPageFailed)
	assert.Contains(t, err.Error(), "fetching page 3")
}

func TestFindFirst(t *testing.T) {
	t.Parallel()

	source := newPagedSource()

	item, found, err := automation.FindFirst(context.Background(), source.fetch, func(r TestResource) bool { return r.ID == "2" })
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Resource 2", item.Name)
	assert.Len(t, source.calls, 1)

	source = newPagedSource()

	_, found, err = automation.FindFirst(context.Background(), source.fetch, func(r TestResource) bool { return r.ID == "9" })
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, source.calls, 3)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	kept, err := automation.Filter(context.Background(), newPagedSource().fetch, func(r TestResource) bool { return r.ID != "2" })
	require.NoError(t, err)
	assert.Equal(t, []TestResource{{ID: "1", Name: "Resource 1"}, {ID: "3", Name: "Resource 3"}}, kept)
}
