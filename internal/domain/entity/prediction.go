package entity

import "time"

type PredictionDetails struct {
	Confidence        float64 `json:"confidence"`
	RecommendedAction string  `json:"recommendedAction"`
}

// PredictionResult is the anomaly score derived from one SensorReading.
// Never mutated after creation.
type PredictionResult struct {
	ID                 uint              `gorm:"primaryKey" json:"-"`
	Timestamp          time.Time         `gorm:"column:timestamp;index" json:"timestamp"`
	MachineID          string            `gorm:"column:machine_id;index" json:"machineId"`
	MachineType        MachineType       `gorm:"column:machine_type;type:text" json:"machineType"`
	AnomalyProbability float64           `gorm:"column:anomaly_probability" json:"anomalyProbability"`
	IsAnomaly          bool              `gorm:"column:is_anomaly" json:"isAnomaly"`
	Details            PredictionDetails `gorm:"column:prediction_details;serializer:json" json:"predictionDetails"`
}

func (PredictionResult) TableName() string { return "prediction_results" }
