package config

import "time"

type Limits struct {
	MaxConcurrentEngines int             `yaml:"max_concurrent_engines" validate:"required,min=1,max=64"`
	EngineTimeoutSeconds int             `yaml:"engine_timeout_seconds" validate:"required,min=5,max=3600"`
	MaxRetries           int             `yaml:"max_retries" validate:"min=0,max=10"`
	MaxPromptSize        int             `yaml:"max_prompt_size" validate:"required,min=1000,max=1000000"`
	CostAlertUSD         float64         `yaml:"cost_alert_usd" validate:"min=0"`
	RateLimit            RateLimitConfig `yaml:"rate_limit" validate:"required"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"required,min=1,max=1000"`
	BurstSize         int `yaml:"burst_size" validate:"required,min=1,max=100"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxConcurrentEngines: 19, // full catalog in flight at once
		EngineTimeoutSeconds: 60,
		MaxRetries:           2,
		MaxPromptSize:        200000,
		CostAlertUSD:         25,
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         20,
		},
	}
}

// EngineTimeout returns the per-attempt deadline as a duration.
func (l Limits) EngineTimeout() time.Duration {
	return time.Duration(l.EngineTimeoutSeconds) * time.Second
}
