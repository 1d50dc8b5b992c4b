package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "DEALS_"

// EnvString returns the trimmed value of name when it is set and non-empty.
func EnvString(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt parses name as an integer.
func EnvInt(name string) (int, bool, error) {
	value, ok := EnvString(name)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", name, err)
	}
	return n, true, nil
}

// EnvDuration parses name as a Go duration such as "1500ms".
func EnvDuration(name string) (time.Duration, bool, error) {
	value, ok := EnvString(name)
	if !ok {
		return 0, false, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", name, err)
	}
	return d, true, nil
}

// ApplyEnv overlays DEALS_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	if value, ok, err := EnvInt(EnvPrefix + "PAGES"); err != nil {
		return err
	} else if ok {
		c.MaxPages = value
	}
	if value, ok, err := EnvDuration(EnvPrefix + "SETTLE"); err != nil {
		return err
	} else if ok {
		c.SettleDelay = value
	}
	if value, ok, err := EnvDuration(EnvPrefix + "TIMEOUT"); err != nil {
		return err
	} else if ok {
		c.Timeout = value
	}
	if value, ok := EnvString(EnvPrefix + "DRIVER"); ok {
		c.Driver = strings.ToLower(value)
	}
	if value, ok := EnvString(EnvPrefix + "CONTROL_URL"); ok {
		c.ControlURL = value
	}
	if value, ok := EnvString(EnvPrefix + "BROWSER_BIN"); ok {
		c.BrowserBin = value
	}
	if value, ok := EnvString(EnvPrefix + "STORES"); ok {
		c.Stores = splitList(value)
	}
	if value, ok := EnvString(EnvPrefix + "OUTPUT_DIR"); ok {
		c.OutputDir = value
	}
	if value, ok := EnvString(EnvPrefix + "FORMAT"); ok {
		c.OutputFormat = strings.ToLower(value)
	}
	if value, ok := EnvString(EnvPrefix + "METRICS_ADDR"); ok {
		c.MetricsAddr = value
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
