package service

import (
	"io"
	"os"

	"github.com/autodeviq/iqcore/internal/ui"
	log "github.com/sirupsen/logrus"
)

var (
	logger          *log.Logger
	indicatorActive bool // Tracks if indicator was active before logging
)

func NewLogger() *log.Logger {
	logger = log.New()
	return logger
}

func GetLogger() *log.Logger {
	if logger == nil {
		logger = NewLogger()
	}
	return logger
}

func InitLogger() {
	GetLogger()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(log.InfoLevel) // Default to Info level initially
	logger.SetFormatter(&log.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: true,
	})
}

// SetLogOutput redirects log output, mostly for tests.
func SetLogOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

func BeforeLog() {
	if logger != nil {
		// Stop indicator to avoid overlap
		indicatorActive = ui.GetIndicator().IsActive()
		ui.GetIndicator().Stop()
	}
}

func AfterLog() {
	if logger != nil {
		if indicatorActive {
			ui.GetIndicator().Start("")
		}
	}
}

func Infof(format string, args ...interface{}) {
	if logger != nil {
		BeforeLog()
		logger.Infof(format, args...)
		AfterLog()
	}
}

func Debugf(format string, args ...interface{}) {
	if logger != nil {
		if logger.Level == log.DebugLevel {
			BeforeLog()
		}
		logger.Debugf(format, args...)
		if logger.Level == log.DebugLevel {
			AfterLog()
		}
	}
}

func Warnf(format string, args ...interface{}) {
	if logger != nil {
		BeforeLog()
		logger.Warnf(format, args...)
		AfterLog()
	}
}

func Errorf(format string, args ...interface{}) {
	if logger != nil {
		BeforeLog()
		logger.Errorf(format, args...)
		AfterLog()
	}
}
