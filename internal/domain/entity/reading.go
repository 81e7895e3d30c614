package entity

import "time"

type MachineType string

const (
	MachinePump       MachineType = "Pump"
	MachineCompressor MachineType = "Compressor"
	MachineMotor      MachineType = "Motor"
	MachineValve      MachineType = "Valve"
)

func (m MachineType) Valid() bool {
	switch m {
	case MachinePump, MachineCompressor, MachineMotor, MachineValve:
		return true
	}
	return false
}

// SensorReading is one periodic measurement set from a machine.
type SensorReading struct {
	ID              uint        `gorm:"primaryKey" json:"-"`
	Timestamp       time.Time   `gorm:"column:timestamp;index" json:"timestamp"`
	Vibration       float64     `gorm:"column:vibration" json:"vibration"`
	Temperature     float64     `gorm:"column:temperature" json:"temperature"`
	Pressure        float64     `gorm:"column:pressure" json:"pressure"`
	FlowRate        float64     `gorm:"column:flow_rate" json:"flowRate"`
	RotationalSpeed float64     `gorm:"column:rotational_speed" json:"rotationalSpeed"`
	MachineType     MachineType `gorm:"column:machine_type;type:text" json:"machineType"`
	MachineID       string      `gorm:"column:machine_id;index" json:"machineId"`
	Role            string      `gorm:"column:role" json:"role"`
}

func (SensorReading) TableName() string { return "sensor_data" }
