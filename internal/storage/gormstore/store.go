package gormstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openkart/kartcore/internal/ghost"
	"github.com/openkart/kartcore/pkg/core"
)

// Store persists best-time records through gorm. The dialect (SQLite
// or Postgres) is the connection's concern, not this package's.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New wraps an open gorm connection.
func New(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// Init migrates the schema.
func (s *Store) Init() error {
	if err := s.db.AutoMigrate(&BestTime{}); err != nil {
		return fmt.Errorf("failed to migrate best-time schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// Load returns the record for the key. A missing row is
// core.ErrNoRecord; a garbled row loads as unset with an empty trace.
func (s *Store) Load(vehicleID, trackID string) (core.BestTimeRecord, error) {
	var row BestTime
	err := s.db.Where("vehicle_id = ? AND track_id = ?", vehicleID, trackID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.BestTimeRecord{}, core.ErrNoRecord
	}
	if err != nil {
		return core.BestTimeRecord{}, fmt.Errorf("error loading best-time record: %w", err)
	}

	rec := core.BestTimeRecord{
		VehicleID: vehicleID,
		TrackID:   trackID,
		BestTime:  row.TimeSeconds,
	}

	var headings []float64
	if len(row.Headings) > 0 {
		if err := json.Unmarshal(row.Headings, &headings); err != nil {
			s.log.Warn().Err(err).Str("vehicle", vehicleID).Str("track", trackID).
				Msg("Garbled headings on best-time record, treating as no record")
			return core.NewUnsetRecord(vehicleID, trackID), nil
		}
	}
	trace, err := ghost.Decode(row.TraceWKB, headings)
	if err != nil {
		s.log.Warn().Err(err).Str("vehicle", vehicleID).Str("track", trackID).
			Msg("Garbled ghost trace on best-time record, treating as no record")
		return core.NewUnsetRecord(vehicleID, trackID), nil
	}
	rec.Trace = trace

	if len(row.VehicleSpec) > 0 {
		// the snapshot is informational; a bad one doesn't void the record
		_ = json.Unmarshal(row.VehicleSpec, &rec.Spec)
	}

	return rec, nil
}

// Save upserts the record under its (vehicle, track) key.
func (s *Store) Save(rec core.BestTimeRecord) error {
	wkb, headings, err := ghost.Encode(rec.Trace)
	if err != nil {
		return fmt.Errorf("error encoding ghost trace: %w", err)
	}

	headingsJSON, err := json.Marshal(headings)
	if err != nil {
		return fmt.Errorf("error encoding headings: %w", err)
	}
	specJSON, err := json.Marshal(rec.Spec)
	if err != nil {
		return fmt.Errorf("error encoding vehicle spec: %w", err)
	}

	row := BestTime{
		VehicleID:   rec.VehicleID,
		TrackID:     rec.TrackID,
		TimeSeconds: rec.BestTime,
		TraceWKB:    wkb,
		Headings:    datatypes.JSON(headingsJSON),
		VehicleSpec: datatypes.JSON(specJSON),
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vehicle_id"}, {Name: "track_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"time_seconds", "trace_wkb", "headings", "vehicle_spec", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("error saving best-time record: %w", err)
	}

	s.log.Debug().Str("vehicle", rec.VehicleID).Str("track", rec.TrackID).
		Float64("time", rec.BestTime).Msg("Best-time record saved")
	return nil
}
