package repositories

import (
	"encoding/json"
	"fmt"
)

// marshalColumn encodes v for a JSON column
func marshalColumn(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalColumn decodes a JSON column into dst; NULL and empty values leave dst untouched
func unmarshalColumn(raw []byte, dst any, column string) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", column, err)
	}
	return nil
}

// nonNil returns an empty slice for nil so JSON columns hold [] instead of null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
