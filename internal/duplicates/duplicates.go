// Package duplicates reports product ids that occur more than once in a
// fetched catalog file, with a structural diff of each repeat against the
// first occurrence.
package duplicates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/vvka-141/datahub/internal/product"
)

// missingID labels products whose id is absent or not a string.
const missingID = "<none>"

// Collision is a later occurrence of an id already seen.
type Collision struct {
	ID         string
	FirstIndex int
	Index      int
	// Diff is empty when both records are structurally equal.
	Diff string
}

// Report summarizes one catalog.
type Report struct {
	Total      int
	Collisions []Collision
}

// Find compares every product with the first product carrying the same id.
// Elements that are not JSON objects are counted but never collide.
func Find(products []json.RawMessage) (*Report, error) {
	report := &Report{Total: len(products)}

	type seen struct {
		index int
		value map[string]any
	}
	first := make(map[string]seen)

	for i, raw := range products {
		if !product.IsObject(raw) {
			continue
		}
		p, err := product.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("product at index %d: %w", i, err)
		}
		id := missingID
		if p.ID.Valid {
			id = p.ID.Value
		}

		value, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("product at index %d: %w", i, err)
		}

		prev, ok := first[id]
		if !ok {
			first[id] = seen{index: i, value: value}
			continue
		}
		report.Collisions = append(report.Collisions, Collision{
			ID:         id,
			FirstIndex: prev.index,
			Index:      i,
			Diff:       cmp.Diff(prev.value, value),
		})
	}

	return report, nil
}

// decodeObject keeps numbers as json.Number so large ids and prices compare
// exactly.
func decodeObject(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v map[string]any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Write prints the report in the diagnostic text format.
func (r *Report) Write(w io.Writer) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Total products loaded: %d\n", r.Total)
	for _, c := range r.Collisions {
		fmt.Fprintf(&buf, "Colliding ID found: %s\n", c.ID)
		if c.Diff != "" {
			buf.WriteString(c.Diff)
			if c.Diff[len(c.Diff)-1] != '\n' {
				buf.WriteByte('\n')
			}
			buf.WriteString("-----\n")
		}
	}
	fmt.Fprintf(&buf, "Total colliding IDs: %d\n", len(r.Collisions))

	_, err := w.Write(buf.Bytes())
	return err
}
