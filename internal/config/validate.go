package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateEncoder() error {
	if c.Encoder.Quality < 0 || c.Encoder.Quality > 100 {
		return errors.New("encoder.quality must be between 0 and 100")
	}
	if c.Encoder.Effort < 0 || c.Encoder.Effort > 6 {
		return errors.New("encoder.effort must be between 0 and 6")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Jobs < 1 {
		return errors.New("pipeline.jobs must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
