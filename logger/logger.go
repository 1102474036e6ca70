// Package logger writes console logs through go-logging to syslog (stderr when
// syslog is unavailable) and to a log file under the configured log folder.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/op/go-logging"
	"github.com/solo-blog/console/config"
)

const (
	moduleName  = "solo"
	logFileName = "solo-console.log"
	lineFormat  = `%{level:.4s} - %{message}`
	timeFormat  = `%{time:2006/01/02 15:04:05} `
)

var (
	logger = logging.MustGetLogger(moduleName)

	mu      sync.Mutex
	logFile *os.File
)

// InitLogger sends records at level and above to syslog or stderr. The log
// file, when it can be opened, receives everything from DEBUG up.
func InitLogger(level logging.Level) {
	backends := []logging.Backend{withLevel(systemBackend(), level)}
	if file := openLogFile(); file != nil {
		backends = append(backends, withLevel(writerBackend(file, true), logging.DEBUG))
	}
	setBackends(backends...)
}

// setBackends replaces the backends of the module logger.
func setBackends(backends ...logging.Backend) {
	logger.SetBackend(logging.MultiLogger(backends...))
}

func withLevel(backend logging.Backend, level logging.Level) logging.Backend {
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(level, moduleName)
	return leveled
}

// ParseLevel maps a configured level to a go-logging level.
func ParseLevel(level config.LogLevel) (logging.Level, error) {
	switch level {
	case config.Debug:
		return logging.DEBUG, nil
	case config.Info:
		return logging.INFO, nil
	case config.Notice:
		return logging.NOTICE, nil
	case config.Warn:
		return logging.WARNING, nil
	case config.Error:
		return logging.ERROR, nil
	}
	return logging.INFO, fmt.Errorf("unknown log level: %s", level)
}

// systemBackend prefers syslog, which stamps its own time.
func systemBackend() logging.Backend {
	if runtime.GOOS != "windows" {
		syslogBackend, err := logging.NewSyslogBackend("")
		if err == nil {
			return logging.NewBackendFormatter(syslogBackend, logging.MustStringFormatter(lineFormat))
		}
		fmt.Fprintf(os.Stderr, "syslog backend disabled: %v\n", err)
	}
	return writerBackend(os.Stderr, true)
}

func writerBackend(w io.Writer, withTime bool) logging.Backend {
	format := lineFormat
	if withTime {
		format = timeFormat + lineFormat
	}
	return logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), logging.MustStringFormatter(format))
}

// openLogFile truncates the log file left by the previous run.
func openLogFile() *os.File {
	logDir := config.GetLogFolder()
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", logDir, err)
		return nil
	}
	logPath := filepath.Join(logDir, logFileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	return file
}

// CloseLogger closes the log file. Call it during shutdown.
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func Debugf(format string, args ...any) { logger.Debugf(format, args...) }

func Info(args ...any) { logger.Info(args...) }

func Infof(format string, args ...any) { logger.Infof(format, args...) }

func Warning(args ...any) { logger.Warning(args...) }

func Warningf(format string, args ...any) { logger.Warningf(format, args...) }

func Error(args ...any) { logger.Error(args...) }

func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
