package telemetry

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// BucketName is the InfluxDB bucket lap telemetry is written to.
const BucketName = "kart_telemetry"

// Manager handles InfluxDB connections and lap telemetry writes.
// When Influx is unreachable, points fall back to a gzip
// line-protocol file so sessions are never lost.
type Manager struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Logger       zerolog.Logger
	BackupPath   string
}

// NewManager creates a new telemetry manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		IsValid:    false,
		Logger:     log,
		BackupPath: backupPath,
	}
}

// Connect establishes a connection to InfluxDB.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(context.Background())

	if err != nil || !running {
		m.IsValid = false
		// create backup writer
		if m.BackupWriter == nil {
			m.Logger.Info().Str("backupPath", m.BackupPath).
				Msg("Failed to initialize InfluxDB client, writing to backup file")

			file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %v", err)
			}
			m.BackupWriter = gzip.NewWriter(file)
		}
	} else {
		m.IsValid = true
	}

	if m.IsValid {
		if err := m.setupOrganizationAndBucket(); err != nil {
			return err
		}
		m.Writer = m.Client.WriteAPI(viper.GetString("influx.org"), BucketName)

		errorsCh := m.Writer.Errors()
		go func() {
			for writeErr := range errorsCh {
				m.Logger.Error().Err(writeErr).Str("bucket", BucketName).
					Msg("Error sending telemetry to InfluxDB")
			}
		}()

		m.Logger.Info().Msg("InfluxDB client initialized")
	} else {
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, using backup writer")
	}

	return nil
}

func (m *Manager) setupOrganizationAndBucket() error {
	ctx := context.Background()
	orgName := viper.GetString("influx.org")

	// ensure org exists
	_, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		_, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	influxOrg, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Error().Err(err).Str("org", orgName).Msg("Error getting organization")
		return err
	}

	// ensure the bucket exists with 90 day retention
	_, err = m.Client.BucketsAPI().FindBucketByName(ctx, BucketName)
	if err != nil {
		m.Logger.Info().Str("bucket", BucketName).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, BucketName, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 90, // 90 days
		})
		if err != nil {
			m.Logger.Error().Err(err).Str("bucket", BucketName).Msg("Error creating bucket")
			return err
		}
	}

	return nil
}

// LapPoint builds the telemetry point for one completed lap.
func LapPoint(vehicleID, trackID string, lap int, lapTime, bestTime, topSpeed float64, collisions int) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement("lap").
		AddTag("vehicle", vehicleID).
		AddTag("track", trackID).
		AddField("lap", lap).
		AddField("lapTime", lapTime).
		AddField("bestTime", bestTime).
		AddField("topSpeed", topSpeed).
		AddField("collisions", collisions).
		SetTime(time.Now())
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}

	if m.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}

	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Duration(1*time.Nanosecond))
	if _, err := m.BackupWriter.Write([]byte(lineProtocol)); err != nil {
		return fmt.Errorf("error writing to telemetry backup file: %s", err)
	}

	return nil
}

// Close flushes pending writes and shuts the client down.
func (m *Manager) Close() {
	if m.BackupWriter != nil {
		_ = m.BackupWriter.Close()
	}
	if m.Client != nil {
		if m.Writer != nil {
			m.Writer.Flush()
		}
		m.Client.Close()
	}
}
