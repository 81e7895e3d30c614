package simulator

import (
	"math/rand"
	"time"

	"monitor/internal/domain/entity"
)

var machines = []struct {
	ID   string
	Type entity.MachineType
}{
	{"M001", entity.MachinePump},
	{"M002", entity.MachineCompressor},
	{"M003", entity.MachineMotor},
	{"M004", entity.MachineValve},
}

// Source fabricates plausible sensor readings for the monitored fleet.
// Ranges follow the training-data generator on the ML side.
type Source struct {
	role string
}

func NewSource(role string) *Source {
	if role == "" {
		role = "System"
	}
	return &Source{role: role}
}

func (s *Source) Next() *entity.SensorReading {
	m := machines[rand.Intn(len(machines))]
	return &entity.SensorReading{
		Timestamp:       time.Now().UTC(),
		Vibration:       randRange(0, 10),
		Temperature:     randRange(20, 120),
		Pressure:        randRange(1, 11),
		FlowRate:        randRange(0, 50),
		RotationalSpeed: randRange(1000, 6000),
		MachineType:     m.Type,
		MachineID:       m.ID,
		Role:            s.role,
	}
}

func randRange(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}
