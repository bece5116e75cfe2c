// Package fetch pages through the product catalog and writes it to a JSON file.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vvka-141/datahub/internal/graphql"
	"github.com/vvka-141/datahub/internal/product"
	"github.com/vvka-141/datahub/pkg/datahub"
)

// Pager returns one page of raw product objects.
type Pager interface {
	Page(ctx context.Context, limit, offset int) ([]json.RawMessage, error)
}

// GraphQLPager runs a paged query document declaring $limit and $offset and
// reads the product list from the "product" member of the data object. A data
// object without a "product" array is an error, never an empty page.
type GraphQLPager struct {
	client *graphql.Client
	query  string
}

func NewGraphQLPager(client *graphql.Client, query string) *GraphQLPager {
	return &GraphQLPager{client: client, query: query}
}

type productPage struct {
	Product product.Optional[[]json.RawMessage] `json:"product"`
}

var errNoProductList = errors.New("response has no product list")

func (p *GraphQLPager) Page(ctx context.Context, limit, offset int) ([]json.RawMessage, error) {
	var page productPage
	vars := map[string]any{"limit": limit, "offset": offset}
	if err := p.client.Execute(ctx, p.query, vars, &page); err != nil {
		return nil, err
	}
	products, ok := page.Product.Get()
	if !ok {
		return nil, &graphql.TransportError{Err: errNoProductList}
	}
	return products, nil
}

// Fetcher accumulates every page of a Pager in request order.
type Fetcher struct {
	pager     Pager
	pacer     Pacer
	logger    datahub.Logger
	pageSize  int
	maxOffset int
}

func NewFetcher(pager Pager, pacer Pacer, logger datahub.Logger, pageSize, maxOffset int) *Fetcher {
	if pager == nil {
		panic("pager cannot be nil")
	}
	if pacer == nil {
		panic("pacer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Fetcher{
		pager:     pager,
		pacer:     pacer,
		logger:    logger,
		pageSize:  pageSize,
		maxOffset: maxOffset,
	}
}

// FetchAll requests offsets 0, pageSize, 2*pageSize, ... below maxOffset and
// stops at the first empty page. The first failed request aborts the run and
// nothing fetched so far is returned.
func (f *Fetcher) FetchAll(ctx context.Context) ([]json.RawMessage, error) {
	if f.pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive: %w", datahub.ErrInvalidConfig)
	}

	var products []json.RawMessage
	for offset := 0; offset < f.maxOffset; offset += f.pageSize {
		if err := f.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetch aborted at offset %d: %w", offset, err)
		}

		f.logger.Verbose("requesting limit=%d offset=%d", f.pageSize, offset)
		page, err := f.pager.Page(ctx, f.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch aborted at offset %d (%s): %w: %w", offset, graphql.Describe(err), datahub.ErrTransportFailed, err)
		}
		if len(page) == 0 {
			f.logger.Verbose("empty page at offset %d, done", offset)
			return products, nil
		}

		products = append(products, page...)
		f.logger.Info("Fetched %d products so far...", len(products))
	}

	f.logger.Verbose("reached max offset %d", f.maxOffset)
	return products, nil
}
