package utils

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"monitor/internal/domain/entity"
)

func TestReadingsToCSV(t *testing.T) {
	readings := []entity.SensorReading{
		{
			Timestamp:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			MachineID:       "M001",
			MachineType:     entity.MachinePump,
			Vibration:       5.23,
			Temperature:     75.42,
			Pressure:        3.14,
			FlowRate:        25.67,
			RotationalSpeed: 3500,
			Role:            "System",
		},
	}

	payload, err := ReadingsToCSV(readings)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	if err != nil {
		t.Fatalf("parse back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	if records[0][0] != "timestamp" || records[0][1] != "machine_id" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	row := records[1]
	if row[1] != "M001" || row[2] != "Pump" || row[3] != "5.23" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestReadingsToCSVEmpty(t *testing.T) {
	payload, err := ReadingsToCSV(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	if err != nil || len(records) != 1 {
		t.Fatalf("expected header only, got %v (%v)", records, err)
	}
}
