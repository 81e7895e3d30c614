package entity

import "time"

// AnomalyAlert is published to the alert exchange when a persisted
// prediction is flagged anomalous.
type AnomalyAlert struct {
	AlertID            string      `json:"alert_id"`
	Timestamp          time.Time   `json:"timestamp"`
	MachineID          string      `json:"machine_id"`
	MachineType        MachineType `json:"machine_type"`
	AnomalyProbability float64     `json:"anomaly_probability"`
	RecommendedAction  string      `json:"recommended_action"`
}
