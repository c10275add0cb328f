package config

// PricingConfig holds the pricing-domain settings shared by both planes.
type PricingConfig struct {
	// Decimals is the configured price precision: normalized and forced
	// prices are rounded to this many decimal places.
	Decimals int32 `envconfig:"DECIMALS" default:"2" validate:"min=0,max=4"`

	// RulesKey is the Redis key holding the persisted rule set.
	RulesKey string `envconfig:"RULES_KEY" default:"offerlock:rules"`
}
