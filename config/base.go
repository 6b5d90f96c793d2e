package config

import (
	"time"
)

type Config struct {
	Workdir                string        `yaml:"workdir"`
	Listen                 string        `yaml:"listen"`
	MaxWorkers             int           `yaml:"maxWorkers"`
	RetryBackOff           time.Duration `yaml:"retryBackOff"`
	RetentionSweepSchedule string        `yaml:"retentionSweepSchedule"`
	Destinations           Destinations  `yaml:"destinations"`
}

// Destinations lists the configured destination endpoints the adapter layer
// may execute against. Destination CRUD is not part of this core; the set is
// provisioned through this file.
type Destinations struct {
	Databases []SQLDestinationConfig  `yaml:"databases"`
	REST      []RESTDestinationConfig `yaml:"rest"`
	SAP       []SAPDestinationConfig  `yaml:"sap"`
}

type SQLDestinationConfig struct {
	ID  string `yaml:"id"`
	DSN string `yaml:"dsn"`
}

type RESTDestinationConfig struct {
	ID             string            `yaml:"id"`
	BaseURL        string            `yaml:"baseUrl"`
	Headers        map[string]string `yaml:"headers,omitempty"`
	TimeoutSeconds int               `yaml:"timeoutSeconds,omitempty"`
}

// SAPDestinationConfig points at an SAP HANA system reachable through a
// database/sql driver (typically an ODBC bridge).
type SAPDestinationConfig struct {
	ID     string `yaml:"id"`
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

func (c *Config) ApplyDefaults() {
	if c.Workdir == "" {
		c.Workdir = "./data"
	}
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 8
	}
	if c.RetryBackOff <= 0 {
		c.RetryBackOff = time.Second
	}
	if c.RetentionSweepSchedule == "" {
		c.RetentionSweepSchedule = "@every 15m"
	}
}
