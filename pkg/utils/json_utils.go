package utils

import (
	"encoding/json"
	"fmt"
)

// ToRawMessage encodes a payload once so publishers can hand the exchange
// pre-marshaled bytes, typically an AnomalyAlert bound for the alert topic.
func ToRawMessage(v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal publish payload: %w", err)
	}
	return json.RawMessage(data), nil
}
