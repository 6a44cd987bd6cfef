package config

import (
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad backend", func(c *Config) { c.Store.Backend = "redis" }, "store backend"},
		{"zero history cap", func(c *Config) { c.Game.HistoryCap = 0 }, "history_cap"},
		{"zero ttl", func(c *Config) { c.Game.ChallengeTTL = 0 }, "challenge_ttl"},
		{"zero base price", func(c *Config) { c.Generator.BasePrice = 0 }, "base_price"},
		{"short formation", func(c *Config) { c.Generator.DoubleTop.Days = 5 }, "double_top"},
		{"excessive noise", func(c *Config) { c.Generator.Triangle.Noise = 0.9 }, "ascending_triangle"},
		{"flat head", func(c *Config) { c.Generator.HeadShoulders.Head = 1.0 }, "head ratio"},
		{"too few oscillations", func(c *Config) { c.Generator.Triangle.Oscillation = 1 }, "oscillation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestPresetsMapping(t *testing.T) {
	g := Default().Generator
	p := g.Presets()

	if p.BasePrice != g.BasePrice {
		t.Errorf("base price = %f, want %f", p.BasePrice, g.BasePrice)
	}
	if p.HeadShoulders.Head != g.HeadShoulders.Head || p.HeadShoulders.Days != g.HeadShoulders.Days {
		t.Error("head and shoulders preset not carried over")
	}
	if p.DoubleTop.SecondPeak != g.DoubleTop.SecondPeak {
		t.Error("double top preset not carried over")
	}
	if p.Triangle.Oscillation != g.Triangle.Oscillation || p.Triangle.Breakout != g.Triangle.Breakout {
		t.Error("triangle preset not carried over")
	}
}
