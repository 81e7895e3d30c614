package entity

// WorkerRequest is the single JSON document written to the inference
// worker's stdin. Field names match the worker's expected input.
type WorkerRequest struct {
	Timestamp       string  `json:"timestamp"`
	Vibration       float64 `json:"vibration"`
	Temperature     float64 `json:"temperature"`
	Pressure        float64 `json:"pressure"`
	FlowRate        float64 `json:"flowRate"`
	RotationalSpeed float64 `json:"rotationalSpeed"`
	MachineType     string  `json:"machineType"`
	MachineID       string  `json:"machineId"`
	Role            string  `json:"role,omitempty"`
}

// WorkerResponse is the single JSON document the worker prints to stdout
// on success.
type WorkerResponse struct {
	Timestamp          string            `json:"timestamp"`
	MachineID          string            `json:"machineId"`
	MachineType        string            `json:"machineType"`
	AnomalyProbability float64           `json:"anomalyProbability"`
	IsAnomaly          bool              `json:"isAnomaly"`
	PredictionDetails  PredictionDetails `json:"predictionDetails"`
}
