package qverify

import "time"

type Config struct {
	Workers           int
	SchedulingTimeout time.Duration
	DefaultShots      int
	Strategy          Strategy
}

func NewConfig() *Config {
	return &Config{
		Workers:           4,
		SchedulingTimeout: 5 * time.Second,
		DefaultShots:      1024,
		Strategy:          StrategyExact,
	}
}

// orDefault fills zero fields of c from NewConfig.
func (c *Config) orDefault() *Config {
	def := NewConfig()
	if c == nil {
		return def
	}

	out := *c
	if out.Workers <= 0 {
		out.Workers = def.Workers
	}
	if out.SchedulingTimeout <= 0 {
		out.SchedulingTimeout = def.SchedulingTimeout
	}
	if out.DefaultShots <= 0 {
		out.DefaultShots = def.DefaultShots
	}
	return &out
}
