// Package catalog holds the incremental fetch state behind the character
// list: the paging cursor, the visible result set, the fetch status and the
// committed search query.
package catalog

import (
	"context"

	"catalog-cli/internal/api"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks -source=fetcher.go Fetcher

// Fetcher reads one page of a listing. *api.Client implements it.
type Fetcher interface {
	Page(ctx context.Context, locator string) (*api.Page, error)
}
