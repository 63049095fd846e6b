package config

import (
	"os"

	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/validation"
)

// Environment variables read by the binaries.
const (
	EnvConfigPath = "HABITAT_CONFIG"
	EnvAddr       = "HABITAT_ADDR"
	EnvLogLevel   = "LOG_LEVEL"
)

// DefaultAddr is the HTTP listen address when HABITAT_ADDR is unset.
const DefaultAddr = ":8080"

// Env holds process-level settings. An empty ConfigPath means the
// embedded demo building.
type Env struct {
	ConfigPath string
	Addr       string
	LogLevel   logging.Level
}

// LoadEnv reads the environment.
func LoadEnv() Env {
	return Env{
		ConfigPath: os.Getenv(EnvConfigPath),
		Addr:       validation.DefaultOr(os.Getenv(EnvAddr), DefaultAddr),
		LogLevel:   logging.ParseLevel(validation.DefaultOr(os.Getenv(EnvLogLevel), "info")),
	}
}
