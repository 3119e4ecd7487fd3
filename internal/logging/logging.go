package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ParseLevel maps a config logLevel string to a zerolog level,
// defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(s) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup builds the session logger: colored console output on stdout,
// console format without colors into a session log file under logsDir,
// and a GELF writer when graylog.enabled. Returns the logger and a
// close func for the log file.
func Setup() (zerolog.Logger, func() error, error) {
	zerolog.SetGlobalLevel(ParseLevel(viper.GetString("logLevel")))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("error creating logs dir: %w", err)
	}

	logPath := filepath.Join(logsDir,
		fmt.Sprintf("kartcore_%s.log", time.Now().UTC().Format("2006-01-02_150405")))
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("error opening log file: %w", err)
	}

	writers := []io.Writer{
		// console format with colors to console
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
		// console format without colors to file
		zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		},
	}

	if viper.GetBool("graylog.enabled") {
		gw, err := gelf.NewWriter(viper.GetString("graylog.address"))
		if err == nil {
			writers = append(writers, gw)
		}
		// a dead graylog endpoint must not kill the session
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger()

	log.Info().Str("loglevel", log.GetLevel().String()).
		Str("logFile", logPath).Msg("Logging set up")

	return log, file.Close, nil
}
