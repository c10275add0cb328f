package config

import "time"

// StorefrontPlaneConfig configures the storefront price API server. This
// is the read-heavy plane: it serves one price lookup per product query.
type StorefrontPlaneConfig struct {
	Port              string        `envconfig:"PORT" default:"8081"`
	Host              string        `envconfig:"HOST" default:"0.0.0.0"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT" default:"5s"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"2s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
}

// Validate performs validation on the StorefrontPlaneConfig.
func (c *StorefrontPlaneConfig) Validate() error {
	if err := validatePort(c.Port, "storefront plane"); err != nil {
		return err
	}

	if err := validateHost(c.Host, "storefront plane"); err != nil {
		return err
	}

	return nil
}
