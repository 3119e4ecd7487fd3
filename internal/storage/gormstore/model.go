package gormstore

import (
	"time"

	"gorm.io/datatypes"
)

// BestTime is the persisted row for one (vehicle, track) record. The
// ghost trace positions are WKB (XYZM linestring, M = elapsed
// seconds); headings and the archetype snapshot are JSON columns.
type BestTime struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	VehicleID string `json:"vehicleId" gorm:"size:127;uniqueIndex:idx_besttime_vehicle_track"`
	TrackID   string `json:"trackId" gorm:"size:127;uniqueIndex:idx_besttime_vehicle_track"`

	TimeSeconds float64        `json:"timeSeconds"`
	TraceWKB    []byte         `json:"traceWkb"`
	Headings    datatypes.JSON `json:"headings"`
	VehicleSpec datatypes.JSON `json:"vehicleSpec"`
}
