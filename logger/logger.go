package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	projectLogger *logrus.Logger
	once          sync.Once
)

// GetProjectLogger returns the logger shared by every riffduel package.
func GetProjectLogger() *logrus.Logger {
	once.Do(func() {
		projectLogger = logrus.New()
		projectLogger.SetLevel(logrus.InfoLevel)
		projectLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	})
	return projectLogger
}

// Configure sets the level of the project logger. When file is not empty the output is
// redirected to a rotating log file, which keeps the terminal free for the TUI.
func Configure(level string, file string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	logger := GetProjectLogger()
	logger.SetLevel(lvl)
	if file != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	return nil
}

// Discard silences the project logger. Used by tests.
func Discard() {
	GetProjectLogger().SetOutput(io.Discard)
}
