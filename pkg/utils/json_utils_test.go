package utils

import (
	"encoding/json"
	"testing"
	"time"

	"monitor/internal/domain/entity"
)

func TestToRawMessageRoundTripsAlert(t *testing.T) {
	alert := entity.AnomalyAlert{
		AlertID:            "a1",
		Timestamp:          time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		MachineID:          "M002",
		MachineType:        entity.MachineCompressor,
		AnomalyProbability: 0.93,
		RecommendedAction:  "Inspect immediately",
	}

	raw, err := ToRawMessage(alert)
	if err != nil {
		t.Fatalf("to raw message: %v", err)
	}

	var back entity.AnomalyAlert
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if back.MachineID != "M002" || back.AnomalyProbability != 0.93 {
		t.Fatalf("unexpected payload: %+v", back)
	}
}

func TestToRawMessageRejectsUnmarshalableValue(t *testing.T) {
	if _, err := ToRawMessage(func() {}); err == nil {
		t.Fatal("expected error for unmarshalable value")
	}
}
