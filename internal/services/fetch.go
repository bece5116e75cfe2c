package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vvka-141/datahub/internal/fetch"
	"github.com/vvka-141/datahub/internal/graphql"
	"github.com/vvka-141/datahub/pkg/datahub"
)

// FetchService runs a full paged fetch and writes the result file.
// Thread-Safety: safe for concurrent Fetch calls with distinct output paths.
type FetchService struct {
	logger     datahub.Logger
	httpClient *http.Client
}

// NewFetchService creates a FetchService. It panics on a nil logger.
func NewFetchService(logger datahub.Logger) *FetchService {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &FetchService{logger: logger}
}

// Fetch pages through the catalog and writes every product to cfg.OutputPath.
// It returns the number of products written. On error no file is written.
func (s *FetchService) Fetch(ctx context.Context, cfg datahub.FetchConfig) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	query, err := graphql.LoadQuery(cfg.QueryFile)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", datahub.ErrInvalidConfig, err)
	}

	opts := []graphql.Option{graphql.WithHeader(datahub.APIKeyHeader, cfg.APIKey)}
	if s.httpClient != nil {
		opts = append(opts, graphql.WithHTTPClient(s.httpClient))
	} else {
		opts = append(opts, graphql.WithTimeout(cfg.Timeout))
	}
	client := graphql.NewClient(cfg.Endpoint, opts...)

	s.logger.Verbose("fetching from %s (page size %d, max offset %d, delay %s)",
		cfg.Endpoint, cfg.PageSize, cfg.MaxOffset, cfg.Delay)

	fetcher := fetch.NewFetcher(
		fetch.NewGraphQLPager(client, query),
		fetch.NewFixedDelayPacer(cfg.Delay),
		s.logger,
		cfg.PageSize,
		cfg.MaxOffset,
	)

	products, err := fetcher.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	if err := fetch.WriteJSON(cfg.OutputPath, products); err != nil {
		return 0, fmt.Errorf("write %s: %w: %w", cfg.OutputPath, datahub.ErrExecutionFailed, err)
	}
	s.logger.Verbose("wrote %d products to %s", len(products), cfg.OutputPath)

	return len(products), nil
}
