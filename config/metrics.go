package config

import "strings"

// MetricsConfig controls StatsD metric emission.
type MetricsConfig struct {
	Enabled bool   `env:"STATSD_ENABLED" envDefault:"false"`
	Address string `env:"STATSD_ADDR"    envDefault:"127.0.0.1:8125"`
	Prefix  string `env:"STATSD_PREFIX"  envDefault:"annotator_store"`
	// Env is attached to every metric as the "env" tag when set.
	Env string `env:"STATSD_ENV"`
}

// Sanitize trims values and disables metrics without an address.
func (m *MetricsConfig) Sanitize() {
	m.Address = strings.TrimSpace(m.Address)
	m.Prefix = strings.Trim(strings.TrimSpace(m.Prefix), ".")
	m.Env = strings.TrimSpace(m.Env)
	if m.Address == "" {
		m.Enabled = false
	}
}
