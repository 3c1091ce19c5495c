package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"catalog-cli/internal/api"
	"catalog-cli/internal/catalog"
	"catalog-cli/internal/catalog/mocks"
)

const baseLocator = "https://rickandmortyapi.com/api/character"

func firstPage(query string) string {
	return api.ListingLocator(baseLocator, api.Filter{Name: query})
}

func page(next string, ids ...int) *api.Page {
	p := &api.Page{Results: make([]api.Character, 0, len(ids))}
	if next != "" {
		p.Info.Next = &next
	}
	for _, id := range ids {
		p.Results = append(p.Results, api.Character{ID: id, Name: fmt.Sprintf("character-%d", id)})
	}
	return p
}

func ids(records []api.Character) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func newCoordinator(t *testing.T) (*catalog.Coordinator, *mocks.MockFetcher) {
	t.Helper()
	fetcher := mocks.NewMockFetcher(gomock.NewController(t))
	ctrl := catalog.NewController(fetcher, nil)
	return catalog.NewCoordinator(ctrl, firstPage), fetcher
}

func TestCoordinator_MountLoadsBaseListing(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	fetcher.EXPECT().Page(gomock.Any(), baseLocator).Return(page("", 1, 2), nil).Times(1)

	assert.Equal(t, catalog.StatusLoadingInitial, coord.Snapshot().Status)
	require.NoError(t, coord.MountAndWait(context.Background()))

	snap := coord.Snapshot()
	assert.Equal(t, []int{1, 2}, ids(snap.Records))
	assert.False(t, snap.HasMore)
	assert.Equal(t, catalog.StatusIdle, snap.Status)
	assert.Empty(t, snap.Committed)

	// Mount fires exactly once.
	assert.Nil(t, coord.Mount())
}

func TestCoordinator_MountSkippedWhenQueryCommitted(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	fetcher.EXPECT().Page(gomock.Any(), firstPage("rick")).Return(page("", 1), nil)

	require.NoError(t, coord.SubmitAndWait(context.Background(), "rick"))
	assert.Nil(t, coord.Mount())
	assert.Equal(t, "rick", coord.Committed())
}

func TestCoordinator_SubmitSearch(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	fetcher.EXPECT().Page(gomock.Any(), baseLocator+"?name=rick").Return(page("", 1), nil)

	require.NoError(t, coord.SubmitAndWait(context.Background(), "  rick \t"))

	snap := coord.Snapshot()
	assert.Equal(t, "rick", snap.Committed)
	assert.Len(t, snap.Records, 1)
	assert.Equal(t, catalog.StatusIdle, snap.Status)
}

func TestCoordinator_SubmitWithoutMatches(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	fetcher.EXPECT().Page(gomock.Any(), firstPage("zzz-no-match")).Return(page(""), nil)

	require.NoError(t, coord.SubmitAndWait(context.Background(), "zzz-no-match"))

	snap := coord.Snapshot()
	assert.Empty(t, snap.Records)
	assert.False(t, snap.HasMore)
	assert.Equal(t, catalog.StatusIdle, snap.Status)
	assert.NoError(t, snap.Err)
}

func TestCoordinator_SameQueryIsDeduplicated(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	fetcher.EXPECT().Page(gomock.Any(), firstPage("rick")).Return(page("", 1, 2), nil).Times(1)

	require.NoError(t, coord.SubmitAndWait(context.Background(), "rick"))
	assert.Nil(t, coord.Submit("rick"))
	assert.Nil(t, coord.Submit(" rick "))
	assert.Equal(t, []int{1, 2}, ids(coord.Snapshot().Records))
}

func TestCoordinator_SameQueryAfterEmptyResultRefetches(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	fetcher.EXPECT().Page(gomock.Any(), firstPage("nobody")).Return(page(""), nil).Times(2)

	require.NoError(t, coord.SubmitAndWait(context.Background(), "nobody"))
	require.NoError(t, coord.SubmitAndWait(context.Background(), "nobody"))
}

func TestCoordinator_SameQueryAfterErrorRefetches(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	gomock.InOrder(
		fetcher.EXPECT().Page(gomock.Any(), firstPage("rick")).Return(page("", 1), nil),
		fetcher.EXPECT().Page(gomock.Any(), firstPage("morty")).Return(nil, errors.New("boom")),
		fetcher.EXPECT().Page(gomock.Any(), firstPage("morty")).Return(page("", 2), nil),
	)

	ctx := context.Background()
	require.NoError(t, coord.SubmitAndWait(ctx, "rick"))
	require.Error(t, coord.SubmitAndWait(ctx, "morty"))
	assert.Equal(t, catalog.StatusError, coord.Snapshot().Status)

	require.NoError(t, coord.SubmitAndWait(ctx, "morty"))
	assert.Equal(t, []int{2}, ids(coord.Snapshot().Records))
}

func TestCoordinator_LoadMore(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	gomock.InOrder(
		fetcher.EXPECT().Page(gomock.Any(), baseLocator).Return(page("page2", 1, 2), nil),
		fetcher.EXPECT().Page(gomock.Any(), "page2").Return(page("", 3), nil),
	)

	ctx := context.Background()
	require.NoError(t, coord.MountAndWait(ctx))
	assert.True(t, coord.Snapshot().HasMore)
	assert.Equal(t, "page2", coord.Snapshot().Cursor)

	require.NoError(t, coord.LoadMoreAndWait(ctx))

	snap := coord.Snapshot()
	assert.Equal(t, []int{1, 2, 3}, ids(snap.Records))
	assert.False(t, snap.HasMore)
	assert.Equal(t, catalog.StatusIdle, snap.Status)
}

func TestCoordinator_AppendsPreserveFetchOrder(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	pages := []*api.Page{
		page("p2", 1, 2, 3),
		page("p3", 4, 5),
		page("p4", 6),
		page("", 7, 8),
	}
	gomock.InOrder(
		fetcher.EXPECT().Page(gomock.Any(), firstPage("smith")).Return(pages[0], nil),
		fetcher.EXPECT().Page(gomock.Any(), "p2").Return(pages[1], nil),
		fetcher.EXPECT().Page(gomock.Any(), "p3").Return(pages[2], nil),
		fetcher.EXPECT().Page(gomock.Any(), "p4").Return(pages[3], nil),
	)

	ctx := context.Background()
	require.NoError(t, coord.SubmitAndWait(ctx, "smith"))
	for range 3 {
		require.NoError(t, coord.LoadMoreAndWait(ctx))
	}

	var want []api.Character
	for _, p := range pages {
		want = append(want, p.Results...)
	}
	assert.Equal(t, want, coord.Snapshot().Records)
	assert.False(t, coord.Snapshot().HasMore)
}

func TestCoordinator_LoadMoreIsNoopUnlessIdleWithMore(t *testing.T) {
	t.Parallel()

	// The mock has no expectations: any fetch fails the test.
	coord, _ := newCoordinator(t)

	// Before mount the list is loading its first page.
	for range 5 {
		assert.Nil(t, coord.LoadMore())
	}

	req := coord.Mount()
	require.NotNil(t, req)
	for range 5 {
		assert.Nil(t, coord.LoadMore(), "no append while the first page is loading")
	}

	require.NoError(t, coord.Controller().Complete(req, page("", 1, 2), nil))
	before := coord.Snapshot().Records
	for range 5 {
		assert.Nil(t, coord.LoadMore(), "no append once pages are exhausted")
		require.NoError(t, coord.LoadMoreAndWait(context.Background()))
	}
	assert.Equal(t, before, coord.Snapshot().Records)
}

func TestCoordinator_ScrollStormIssuesOneAppend(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	fetcher.EXPECT().Page(gomock.Any(), baseLocator).Return(page("page2", 1), nil)
	require.NoError(t, coord.MountAndWait(context.Background()))

	first := coord.LoadMore()
	require.NotNil(t, first)
	assert.Equal(t, catalog.StatusLoadingMore, coord.Snapshot().Status)
	for range 10 {
		assert.Nil(t, coord.LoadMore())
	}
}

func TestCoordinator_ResetFailureThenRecover(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	netErr := &api.NetworkError{URL: baseLocator, Err: errors.New("connection refused")}
	gomock.InOrder(
		fetcher.EXPECT().Page(gomock.Any(), baseLocator).Return(nil, netErr),
		fetcher.EXPECT().Page(gomock.Any(), baseLocator).Return(page("", 1, 2), nil),
	)

	ctx := context.Background()
	err := coord.MountAndWait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrFetchFailed)
	var gotNetErr *api.NetworkError
	assert.ErrorAs(t, err, &gotNetErr)

	snap := coord.Snapshot()
	assert.Empty(t, snap.Records)
	assert.False(t, snap.HasMore)
	assert.Equal(t, catalog.StatusError, snap.Status)
	assert.Nil(t, coord.LoadMore())

	require.NoError(t, coord.ResetAndWait(ctx))
	snap = coord.Snapshot()
	assert.Len(t, snap.Records, 2)
	assert.False(t, snap.HasMore)
	assert.Equal(t, catalog.StatusIdle, snap.Status)
	assert.NoError(t, snap.Err)
}

func TestCoordinator_ResetFromSearchReturnsToListing(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	gomock.InOrder(
		fetcher.EXPECT().Page(gomock.Any(), firstPage("rick")).Return(page("", 1), nil),
		fetcher.EXPECT().Page(gomock.Any(), baseLocator).Return(page("next", 1, 2, 3), nil),
	)

	ctx := context.Background()
	coord.SetDraft("rick")
	require.NoError(t, coord.SubmitAndWait(ctx, coord.Draft()))

	require.NoError(t, coord.ResetAndWait(ctx))

	snap := coord.Snapshot()
	assert.Empty(t, snap.Draft)
	assert.Empty(t, snap.Committed)
	assert.Equal(t, []int{1, 2, 3}, ids(snap.Records))
	assert.True(t, snap.HasMore)
}

func TestCoordinator_ResetOnHealthyListingIsNoop(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	fetcher.EXPECT().Page(gomock.Any(), baseLocator).Return(page("", 1), nil).Times(1)

	require.NoError(t, coord.MountAndWait(context.Background()))
	coord.SetDraft("half typed")

	assert.Nil(t, coord.Reset())
	assert.Empty(t, coord.Draft())
}

func TestCoordinator_SubmitClearsBeforeFetching(t *testing.T) {
	t.Parallel()

	coord, fetcher := newCoordinator(t)
	fetcher.EXPECT().Page(gomock.Any(), baseLocator).Return(page("p2", 1, 2), nil)
	require.NoError(t, coord.MountAndWait(context.Background()))

	req := coord.Submit("summer")
	require.NotNil(t, req)
	assert.Equal(t, firstPage("summer"), req.Locator)
	assert.Equal(t, catalog.ModeReset, req.Mode)

	snap := coord.Snapshot()
	assert.Empty(t, snap.Records)
	assert.Empty(t, snap.Cursor)
	assert.True(t, snap.HasMore)
	assert.Equal(t, "summer", snap.Committed)
	assert.Equal(t, catalog.StatusLoadingInitial, snap.Status)
}
