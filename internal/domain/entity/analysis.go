package entity

import "time"

// ContextSnapshot is the recent data handed to the language model for one
// analysis request. It is persisted with the record and returned to the
// caller unmodified.
type ContextSnapshot struct {
	SensorData  []SensorReading    `json:"sensorData"`
	Predictions []PredictionResult `json:"predictions"`
}

type AnalysisRecord struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	Query       string          `gorm:"column:query;type:text" json:"query"`
	Result      string          `gorm:"column:result;type:text" json:"result"`
	ContextData ContextSnapshot `gorm:"column:context_data;serializer:json" json:"contextData"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (AnalysisRecord) TableName() string { return "analysis_results" }
