package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vvka-141/datahub/pkg/datahub"
)

// ReadArray reads a JSON array of products from r. source names the input in
// error messages ("STDIN", a file path). Empty input, malformed JSON, a value
// that is not an array and an empty array all wrap datahub.ErrInvalidInput.
func ReadArray(r io.Reader, source string) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", source, datahub.ErrInvalidInput)
	}

	var value json.RawMessage
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %s: %w", source, describeSyntaxError(data, err), datahub.ErrInvalidInput)
	}

	trimmed := bytes.TrimSpace(value)
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("JSON in %s must be an array of products: %w", source, datahub.ErrInvalidInput)
	}

	var products []json.RawMessage
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %v: %w", source, err, datahub.ErrInvalidInput)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products found in %s: %w", source, datahub.ErrInvalidInput)
	}

	return products, nil
}

// describeSyntaxError adds a line and column to JSON syntax errors.
func describeSyntaxError(data []byte, err error) string {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err.Error()
	}
	offset := int(syntaxErr.Offset)
	if offset > len(data) {
		offset = len(data)
	}
	line := 1 + bytes.Count(data[:offset], []byte("\n"))
	col := offset - bytes.LastIndexByte(data[:offset], '\n')
	return fmt.Sprintf("line %d column %d: %v", line, col, err)
}
