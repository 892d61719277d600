package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Decode helpers for the jsonb columns. All reads of serialized columns go
// through these so a malformed blob fails loudly at the storage edge
// instead of leaking into handlers.

func decodeStringSlice(col datatypes.JSON) ([]string, error) {
	if len(col) == 0 {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(col, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func decodeConfigMap(col datatypes.JSON) (map[string]map[string]interface{}, error) {
	if len(col) == 0 {
		return map[string]map[string]interface{}{}, nil
	}
	var out map[string]map[string]interface{}
	if err := json.Unmarshal(col, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]map[string]interface{}{}
	}
	return out, nil
}

// EncodeJSON marshals v into a jsonb column value
func EncodeJSON(v interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
