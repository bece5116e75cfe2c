package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/datahub/internal/logging"
	"github.com/vvka-141/datahub/pkg/datahub"
)

// catalogServer serves a paged product catalog of n items.
type catalogServer struct {
	mu      sync.Mutex
	n       int
	offsets []int
	keys    []string
	queries []string
	status  map[int]int
	bodies  map[int]string
}

func (c *catalogServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string `json:"query"`
		Variables struct {
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
		} `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	c.offsets = append(c.offsets, req.Variables.Offset)
	c.keys = append(c.keys, r.Header.Get(datahub.APIKeyHeader))
	c.queries = append(c.queries, req.Query)
	status := c.status[req.Variables.Offset]
	body, override := c.bodies[req.Variables.Offset]
	c.mu.Unlock()

	if status != 0 {
		http.Error(w, "slow down", status)
		return
	}
	if override {
		_, _ = w.Write([]byte(body))
		return
	}

	products := []map[string]any{}
	for i := req.Variables.Offset; i < c.n && i < req.Variables.Offset+req.Variables.Limit; i++ {
		products = append(products, map[string]any{
			"id":                  fmt.Sprintf("p%d", i),
			"productInformations": []map[string]string{{"language": "fi", "name": "Kohde <" + fmt.Sprint(i) + ">"}},
		})
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]any{"data": map[string]any{"product": products}})
}

func fetchConfig(endpoint, output string) datahub.FetchConfig {
	return datahub.FetchConfig{
		Endpoint:   endpoint,
		APIKey:     "k3y",
		OutputPath: output,
		PageSize:   2,
		MaxOffset:  20000,
	}
}

func TestFetchService_WritesAllPages(t *testing.T) {
	catalog := &catalogServer{n: 5}
	srv := httptest.NewServer(catalog)
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "products.json")
	n, err := NewFetchService(logging.NewNullLogger()).Fetch(context.Background(), fetchConfig(srv.URL, out))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, []int{0, 2, 4, 6}, catalog.offsets)
	for _, key := range catalog.keys {
		assert.Equal(t, "k3y", key)
	}
	assert.Contains(t, catalog.queries[0], "$limit")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(data, &products))
	require.Len(t, products, 5)
	assert.Equal(t, "p0", products[0]["id"])
	assert.Equal(t, "p4", products[4]["id"])
	assert.Contains(t, string(data), "Kohde <0>", "HTML characters are not escaped")
	assert.Contains(t, string(data), "\n\t{", "tab indented")
}

func TestFetchService_StopsAtMaxOffset(t *testing.T) {
	catalog := &catalogServer{n: 100}
	srv := httptest.NewServer(catalog)
	defer srv.Close()

	cfg := fetchConfig(srv.URL, filepath.Join(t.TempDir(), "products.json"))
	cfg.PageSize = 10
	cfg.MaxOffset = 30

	n, err := NewFetchService(logging.NewNullLogger()).Fetch(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	assert.Equal(t, []int{0, 10, 20}, catalog.offsets)
}

func TestFetchService_AbortLeavesNoFile(t *testing.T) {
	catalog := &catalogServer{n: 10, status: map[int]int{4: http.StatusTooManyRequests}}
	srv := httptest.NewServer(catalog)
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "products.json")
	_, err := NewFetchService(logging.NewNullLogger()).Fetch(context.Background(), fetchConfig(srv.URL, out))
	require.Error(t, err)
	assert.ErrorIs(t, err, datahub.ErrTransportFailed)
	assert.Contains(t, err.Error(), "fetch aborted at offset 4 (rate limited, HTTP 429)")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestFetchService_AliasedProductListLeavesNoFile(t *testing.T) {
	catalog := &catalogServer{n: 10, bodies: map[int]string{2: `{"data":{"products":[{"id":"p2"}]}}`}}
	srv := httptest.NewServer(catalog)
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "products.json")
	_, err := NewFetchService(logging.NewNullLogger()).Fetch(context.Background(), fetchConfig(srv.URL, out))
	require.Error(t, err)
	assert.ErrorIs(t, err, datahub.ErrTransportFailed)
	assert.Contains(t, err.Error(), "response has no product list")
	assert.Equal(t, []int{0, 2}, catalog.offsets)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no partial output")
}

func TestFetchService_CustomQueryFile(t *testing.T) {
	catalog := &catalogServer{n: 1}
	srv := httptest.NewServer(catalog)
	defer srv.Close()

	dir := t.TempDir()
	queryFile := filepath.Join(dir, "query.graphql")
	require.NoError(t, os.WriteFile(queryFile, []byte(`query Q($limit: Int, $offset: Int) { product(limit: $limit, offset: $offset) { id } }`), 0644))

	cfg := fetchConfig(srv.URL, filepath.Join(dir, "products.json"))
	cfg.QueryFile = queryFile

	_, err := NewFetchService(logging.NewNullLogger()).Fetch(context.Background(), cfg)
	require.NoError(t, err)
	assert.Contains(t, catalog.queries[0], "query Q(")
}

func TestFetchService_ConfigErrors(t *testing.T) {
	svc := NewFetchService(logging.NewNullLogger())

	cfg := fetchConfig("http://127.0.0.1:1", filepath.Join(t.TempDir(), "out.json"))
	cfg.APIKey = ""
	_, err := svc.Fetch(context.Background(), cfg)
	assert.ErrorIs(t, err, datahub.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "DATAHUB_API_KEY is not set")

	cfg = fetchConfig("http://127.0.0.1:1", filepath.Join(t.TempDir(), "out.json"))
	cfg.QueryFile = filepath.Join(t.TempDir(), "missing.graphql")
	_, err = svc.Fetch(context.Background(), cfg)
	assert.ErrorIs(t, err, datahub.ErrInvalidConfig)
}

func TestNewFetchService_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() { NewFetchService(nil) })
}
