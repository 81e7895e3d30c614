package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"monitor/internal/domain/entity"
	"monitor/internal/domain/usecase"
)

type Collector interface {
	MachineStatus(ctx context.Context, machineID string) (*entity.PredictionResult, error)
	RecentReadings(ctx context.Context, limit int) ([]entity.SensorReading, error)
	RecentPredictions(ctx context.Context, limit int) ([]entity.PredictionResult, error)
}

type Predictor interface {
	Predict(ctx context.Context, reading *entity.SensorReading) *entity.PredictionResult
}

type Analyzer interface {
	Analyze(ctx context.Context, query string) (*entity.AnalysisRecord, error)
	RecentAnalyses(ctx context.Context, limit int) ([]entity.AnalysisRecord, error)
}

type Exporter interface {
	Export(ctx context.Context, limit int) (string, error)
}

type Schedule interface {
	Reschedule(intervalSeconds int) error
	GetInterval() int
	TriggerNow()
}

type MonitorHandler struct {
	Collector Collector
	Predictor Predictor
	Analyzer  Analyzer
	Exporter  Exporter
	Schedule  Schedule
}

func NewMonitorHandler(c Collector, p Predictor, a Analyzer, e Exporter, s Schedule) *MonitorHandler {
	return &MonitorHandler{
		Collector: c,
		Predictor: p,
		Analyzer:  a,
		Exporter:  e,
		Schedule:  s,
	}
}

// Collect fires the scheduled collection cycle on demand. TriggerNow
// runs the cycle synchronously, so the row is persisted before the
// response goes out.
func (h *MonitorHandler) Collect(c *gin.Context) {
	h.Schedule.TriggerNow()
	c.JSON(http.StatusOK, gin.H{"status": "collection cycle completed"})
}

// number tolerates both JSON numbers and numeric strings in reading
// payloads, matching what field devices actually send.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = number(f)
	return nil
}

type predictRequest struct {
	Timestamp       string `json:"timestamp"`
	MachineID       string `json:"machineId"`
	MachineType     string `json:"machineType"`
	Vibration       number `json:"vibration"`
	Temperature     number `json:"temperature"`
	Pressure        number `json:"pressure"`
	FlowRate        number `json:"flowRate"`
	RotationalSpeed number `json:"rotationalSpeed"`
	Role            string `json:"role"`
}

func (h *MonitorHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sensor reading: " + err.Error()})
		return
	}

	if req.MachineID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "machineId required"})
		return
	}
	machineType := entity.MachineType(req.MachineType)
	if !machineType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown machineType: " + req.MachineType})
		return
	}

	reading := req.toReading(machineType)
	result := h.Predictor.Predict(c.Request.Context(), reading)
	c.JSON(http.StatusOK, result)
}

type analyzeRequest struct {
	Query string `json:"query"`
}

func (h *MonitorHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis request"})
		return
	}

	record, err := h.Analyzer.Analyze(c.Request.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingQuery):
			c.JSON(http.StatusBadRequest, gin.H{"error": "query required"})
		case errors.Is(err, usecase.ErrAnalysisFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       record.Query,
		"result":      record.Result,
		"contextData": record.ContextData,
	})
}

func (h *MonitorHandler) GetInterval(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"seconds": h.Schedule.GetInterval()})
}

type intervalRequest struct {
	Seconds int `json:"seconds"`
}

func (h *MonitorHandler) SetInterval(c *gin.Context) {
	var req intervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seconds must be a whole number"})
		return
	}

	if err := h.Schedule.Reschedule(req.Seconds); err != nil {
		if errors.Is(err, usecase.ErrInvalidInterval) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"seconds": req.Seconds})
}

func (h *MonitorHandler) RecentSensorData(c *gin.Context) {
	readings, err := h.Collector.RecentReadings(c.Request.Context(), limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, readings)
}

func (h *MonitorHandler) RecentPredictions(c *gin.Context) {
	results, err := h.Collector.RecentPredictions(c.Request.Context(), limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *MonitorHandler) RecentAnalyses(c *gin.Context) {
	records, err := h.Analyzer.RecentAnalyses(c.Request.Context(), limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *MonitorHandler) MachineStatus(c *gin.Context) {
	machineID := c.Param("machine_id")
	result, err := h.Collector.MachineStatus(c.Request.Context(), machineID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no prediction for machine " + machineID})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MonitorHandler) CreateExport(c *gin.Context) {
	url, err := h.Exporter.Export(c.Request.Context(), limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (r predictRequest) toReading(machineType entity.MachineType) *entity.SensorReading {
	reading := &entity.SensorReading{
		MachineID:       r.MachineID,
		MachineType:     machineType,
		Vibration:       float64(r.Vibration),
		Temperature:     float64(r.Temperature),
		Pressure:        float64(r.Pressure),
		FlowRate:        float64(r.FlowRate),
		RotationalSpeed: float64(r.RotationalSpeed),
		Role:            r.Role,
	}
	if reading.Role == "" {
		reading.Role = "User"
	}
	reading.Timestamp = time.Now().UTC()
	if ts, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
		reading.Timestamp = ts
	}
	return reading
}

func limitParam(c *gin.Context) int {
	const (
		defaultLimit = 100
		maxLimit     = 1000
	)
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
