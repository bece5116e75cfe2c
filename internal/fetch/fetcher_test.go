package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/datahub/internal/graphql"
	"github.com/vvka-141/datahub/internal/logging"
	"github.com/vvka-141/datahub/pkg/datahub"
)

// fakePager serves pages from a fixed catalog and records requested offsets.
type fakePager struct {
	catalog []json.RawMessage
	offsets []int
	failAt  int
	failErr error
}

func newFakePager(n int) *fakePager {
	p := &fakePager{failAt: -1}
	for i := 0; i < n; i++ {
		p.catalog = append(p.catalog, json.RawMessage(fmt.Sprintf(`{"id":"p%d"}`, i)))
	}
	return p
}

func (p *fakePager) Page(_ context.Context, limit, offset int) ([]json.RawMessage, error) {
	p.offsets = append(p.offsets, offset)
	if offset == p.failAt {
		return nil, p.failErr
	}
	if offset >= len(p.catalog) {
		return nil, nil
	}
	end := offset + limit
	if end > len(p.catalog) {
		end = len(p.catalog)
	}
	return p.catalog[offset:end], nil
}

type countingPacer struct{ waits int }

func (c *countingPacer) Wait(ctx context.Context) error {
	c.waits++
	return ctx.Err()
}

func TestFetchAll_StopsAtEmptyPage(t *testing.T) {
	pager := newFakePager(5)
	pacer := &countingPacer{}

	got, err := NewFetcher(pager, pacer, logging.NewNullLogger(), 2, 20000).FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 4, 6}, pager.offsets)
	assert.Equal(t, 4, pacer.waits, "every request is paced")
	require.Len(t, got, 5)
	for i, rec := range got {
		assert.JSONEq(t, fmt.Sprintf(`{"id":"p%d"}`, i), string(rec), "request order preserved")
	}
}

func TestFetchAll_StopsAtMaxOffset(t *testing.T) {
	pager := newFakePager(100)

	got, err := NewFetcher(pager, &countingPacer{}, logging.NewNullLogger(), 10, 30).FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 10, 20}, pager.offsets)
	assert.Len(t, got, 30)
}

func TestFetchAll_EmptyCatalog(t *testing.T) {
	pager := newFakePager(0)

	got, err := NewFetcher(pager, &countingPacer{}, logging.NewNullLogger(), 200, 20000).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, []int{0}, pager.offsets)
}

func TestFetchAll_AbortsOnFirstError(t *testing.T) {
	pager := newFakePager(10)
	pager.failAt = 4
	pager.failErr = &graphql.TransportError{StatusCode: http.StatusTooManyRequests, Err: errors.New("Too Many Requests")}

	got, err := NewFetcher(pager, &countingPacer{}, logging.NewNullLogger(), 2, 20000).FetchAll(context.Background())
	require.Error(t, err)

	assert.Nil(t, got, "no partial result")
	assert.Equal(t, []int{0, 2, 4}, pager.offsets, "no retry, no further pages")
	assert.True(t, errors.Is(err, datahub.ErrTransportFailed))
	assert.Contains(t, err.Error(), "offset 4")
	assert.Contains(t, err.Error(), "rate limited, HTTP 429")
}

func TestFetchAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pager := newFakePager(10)
	_, err := NewFetcher(pager, &countingPacer{}, logging.NewNullLogger(), 2, 20000).FetchAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, pager.offsets)
}

func TestFetchAll_InvalidPageSize(t *testing.T) {
	_, err := NewFetcher(newFakePager(1), &countingPacer{}, logging.NewNullLogger(), 0, 100).FetchAll(context.Background())
	assert.True(t, errors.Is(err, datahub.ErrInvalidConfig))
}

func TestGraphQLPager_AgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables struct {
				Limit  int `json:"limit"`
				Offset int `json:"offset"`
			} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Variables.Offset >= 3 {
			_, _ = w.Write([]byte(`{"data":{"product":[]}}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"data":{"product":[{"id":"o%d-a"},{"id":"o%d-b"},{"id":"o%d-c"}]}}`,
			req.Variables.Offset, req.Variables.Offset, req.Variables.Offset)
	}))
	defer srv.Close()

	pager := NewGraphQLPager(graphql.NewClient(srv.URL), graphql.DefaultProductQuery())
	got, err := NewFetcher(pager, NewFixedDelayPacer(0), logging.NewNullLogger(), 3, 20000).FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.JSONEq(t, `{"id":"o0-a"}`, string(got[0]))
	assert.JSONEq(t, `{"id":"o0-c"}`, string(got[2]))
}

func TestGraphQLPager_MissingProductListAborts(t *testing.T) {
	tests := []struct {
		name  string
		page2 string
	}{
		{"null list", `{"data":{"product":null}}`},
		{"no list", `{"data":{}}`},
		{"other alias", `{"data":{"products":[{"id":"b"}]}}`},
		{"not a list", `{"data":{"product":{"id":"b"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req struct {
					Variables struct {
						Offset int `json:"offset"`
					} `json:"variables"`
				}
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				if req.Variables.Offset == 0 {
					_, _ = w.Write([]byte(`{"data":{"product":[{"id":"a"}]}}`))
					return
				}
				_, _ = w.Write([]byte(tt.page2))
			}))
			defer srv.Close()

			pager := NewGraphQLPager(graphql.NewClient(srv.URL), graphql.DefaultProductQuery())
			got, err := NewFetcher(pager, NewFixedDelayPacer(0), logging.NewNullLogger(), 1, 20000).FetchAll(context.Background())
			require.Error(t, err)

			assert.Nil(t, got, "no partial result")
			assert.True(t, errors.Is(err, datahub.ErrTransportFailed))
			assert.True(t, errors.Is(err, errNoProductList))
			assert.Contains(t, err.Error(), "offset 1")
		})
	}
}

// recordingLogger keeps every line by level.
type recordingLogger struct {
	verbose, info, errorLines []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {
	l.verbose = append(l.verbose, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.info = append(l.info, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.errorLines = append(l.errorLines, fmt.Sprintf(format, args...))
}

func TestFetchAll_FailureReportedOnlyThroughError(t *testing.T) {
	pager := newFakePager(10)
	pager.failAt = 2
	pager.failErr = &graphql.TransportError{StatusCode: http.StatusBadGateway, Err: errors.New("Bad Gateway")}
	logger := &recordingLogger{}

	_, err := NewFetcher(pager, &countingPacer{}, logger, 2, 20000).FetchAll(context.Background())
	require.Error(t, err)

	assert.Empty(t, logger.errorLines, "the caller prints the returned error once")
	assert.NotContains(t, err.Error(), "\n")
	assert.Contains(t, err.Error(), "server error, HTTP 502")
}
