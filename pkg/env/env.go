package env

import (
	"time"

	"github.com/caesium-cloud/dolphin/pkg/log"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

var variables = new(Environment)

// Process the environment variables set for dolphin.
func Process() error {
	if err := envconfig.Process("dolphin", variables); err != nil {
		return errors.Wrap(err, "failed to process environment variables")
	}

	// set the log level
	if err := log.SetLevel(variables.LogLevel); err != nil {
		return errors.Wrap(err, "failed to set log level")
	}

	return nil
}

// Variables returns the processed environment variables.
func Variables() Environment {
	return *variables
}

// Environment defines the environment variables used
// by dolphin.
type Environment struct {
	LogLevel     string        `default:"info"`
	BaseURL      string        `default:"http://127.0.0.1:12345"`
	Token        string        `default:""`
	HTTPTimeout  time.Duration `default:"10s"`
	DatabaseType string        `default:"mysql"`
	DatabaseDSN  string        `default:"root:root@tcp(127.0.0.1:3306)/dolphinscheduler?parseTime=true&loc=Local"`
	BatchSize    int           `default:"100"`
	Concurrency  int           `default:"1"`
	TimezoneID   string        `default:"Asia/Shanghai"`
	WorkerGroup  string        `default:"default"`
	TenantCode   string        `default:"default"`
	StartParams  StartParams
}
