package repository

import (
	"encoding/base64"
	"encoding/json"

	"github.com/snapnutrient/snapnutrient/domain"
)

const (
	DefaultPageSize int64 = 10
	MinPageSize     int64 = 1
	MaxPageSize     int64 = 50
)

// EncodeCursor serializes a store resume key into the opaque token handed
// to clients. The key is a flat string map (the feed index key attributes),
// JSON-encoded then base64-encoded; clients must never construct one.
func EncodeCursor(lastKey map[string]string) string {
	if len(lastKey) == 0 {
		return ""
	}
	data, err := json.Marshal(lastKey)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeCursor parses an opaque cursor back into the store resume key.
// An empty cursor means "first page". A cursor that does not decode is
// ErrBadParamInput: cursors are forward-only and server-issued.
func DecodeCursor(cursor string) (map[string]string, error) {
	if cursor == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, domain.ErrBadParamInput
	}
	var lastKey map[string]string
	if err := json.Unmarshal(data, &lastKey); err != nil {
		return nil, domain.ErrBadParamInput
	}
	if len(lastKey) == 0 {
		return nil, domain.ErrBadParamInput
	}
	return lastKey, nil
}

// PageVerify clamps a requested page size into the allowed window.
func PageVerify(num *int64) {
	if *num <= 0 {
		*num = DefaultPageSize
	}
	if *num < MinPageSize {
		*num = MinPageSize
	}
	if *num > MaxPageSize {
		*num = MaxPageSize
	}
}
