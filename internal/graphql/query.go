package graphql

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed products.graphql
var defaultProductQuery string

// DefaultProductQuery returns the built-in paged product query. It declares
// the $limit and $offset variables and selects the product list as "product".
func DefaultProductQuery() string {
	return defaultProductQuery
}

// LoadQuery returns the query document at path, or the built-in query when
// path is empty.
func LoadQuery(path string) (string, error) {
	if path == "" {
		return defaultProductQuery, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read query file: %w", err)
	}
	query := string(data)
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query file %s is empty", path)
	}
	return query, nil
}
