package utils

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"monitor/internal/domain/entity"
)

var exportHeader = []string{
	"timestamp", "machine_id", "machine_type",
	"vibration", "temperature", "pressure", "flow_rate", "rotational_speed", "role",
}

// ReadingsToCSV encodes readings in the column layout the model-training
// pipeline expects.
func ReadingsToCSV(readings []entity.SensorReading) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}

	for _, r := range readings {
		record := []string{
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			r.MachineID,
			string(r.MachineType),
			formatFloat(r.Vibration),
			formatFloat(r.Temperature),
			formatFloat(r.Pressure),
			formatFloat(r.FlowRate),
			formatFloat(r.RotationalSpeed),
			r.Role,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
