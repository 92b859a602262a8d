package core

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

func getLogger() *logger {
	once.Do(func() {
		l := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			CallerOffset:    1,
			Prefix:          DefaultLogPrefix,
		})
		l.SetLevel(log.InfoLevel)
		singleton = &logger{l}
	})
	return singleton
}

// LogConfigure applies the [log] section of the configuration to the
// process-wide logger. An unknown level leaves the current one in place.
func LogConfigure(cfg LogConfig) error {
	l := getLogger()
	if cfg.Prefix != "" {
		l.SetPrefix(cfg.Prefix)
	}
	if cfg.Level == "" {
		return nil
	}
	lvl, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	l.SetLevel(lvl)
	return nil
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
