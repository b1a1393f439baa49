package models

import (
	"encoding/json"
	"fmt"
)

// JSONB is a free-form JSON object stored in a jsonb column.
type JSONB map[string]interface{}

// Scan implements sql.Scanner so pgx can decode jsonb/json columns.
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case map[string]interface{}:
		*j = v
		return nil
	default:
		return fmt.Errorf("unsupported JSONB source %T", src)
	}
	if len(data) == 0 {
		*j = nil
		return nil
	}
	return json.Unmarshal(data, j)
}
