// Package config reads the console's runtime configuration from the environment
// and from the embedded name/version files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// LoadEnv loads a .env file from the working directory when one exists.
// Variables already present in the environment win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("SOLO_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("SOLO_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("SOLO_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/solo-console"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("SOLO_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetListen returns the IP the web server binds to. Empty means all interfaces.
func GetListen() string {
	return os.Getenv("SOLO_LISTEN")
}

// GetPort returns the web server port, 8080 when unset or invalid.
func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("SOLO_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 8080
	}
	return port
}

// GetCertFile returns the TLS certificate path. TLS is off when it or the key
// file is empty.
func GetCertFile() string {
	return os.Getenv("SOLO_CERT_FILE")
}

// GetKeyFile returns the TLS private key path.
func GetKeyFile() string {
	return os.Getenv("SOLO_KEY_FILE")
}
