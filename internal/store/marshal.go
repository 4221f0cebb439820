package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/emshower/internal/canon"
	"github.com/roach88/emshower/internal/shower"
)

// marshalParams converts run parameters to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON for deterministic serialization.
func marshalParams(p shower.Params) (string, error) {
	data, err := canon.Marshal(canon.ParamsObject(p))
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

// unmarshalParams parses stored parameter JSON. Canonical numbers use
// shortest round-trip digits, so the decoded floats are bit-identical to
// the ones stored.
func unmarshalParams(data string) (shower.Params, error) {
	var p shower.Params
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return shower.Params{}, fmt.Errorf("unmarshal params: %w", err)
	}
	return p, nil
}
