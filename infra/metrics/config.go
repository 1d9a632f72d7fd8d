package metrics

import "fmt"

// Config defines settings for the metrics sinks.
type Config struct {
	PrometheusEnabled bool `json:"prometheus_enabled"`
	// PrometheusAddr is the listen address of the /metrics endpoint.
	PrometheusAddr string `json:"prometheus_addr"`
	InfluxEnabled  bool   `json:"influx_enabled"`
	InfluxURL      string `json:"influx_url"`
	InfluxToken    string `json:"influx_token"`
	InfluxOrg      string `json:"influx_org"`
	InfluxBucket   string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.InfluxEnabled && c.InfluxURL == "" {
		return fmt.Errorf("influx_url is required when influx is enabled")
	}
	return nil
}
