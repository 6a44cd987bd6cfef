package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Walk Risk Pattern Engine Configuration

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
max_size = 100
max_backups = 7
max_age = 30

[game]
# Number of scores kept per player for adaptive difficulty
history_cap = 20
# How long an unanswered challenge stays available
challenge_ttl = "1h"
# How often expired challenges are evicted
sweep_interval = "5m"
default_mode = "pattern_recognition"

[store]
# Persistence backend: "memory" or "sqlite"
backend = "memory"
path = ""

[web]
listen = ":8080"
read_timeout = "10s"
write_timeout = "30s"

[generator]
base_price = 100.0

# Shape ratios for synthetic formations, relative to base_price.
[generator.head_shoulders]
days = 60
left_shoulder = 1.10
head = 1.20
right_shoulder = 1.08
valley = 0.95
noise = 0.02

[generator.double_top]
days = 40
first_peak = 1.15
second_peak = 1.14
valley = 0.92
noise = 0.02

[generator.ascending_triangle]
days = 30
resistance = 1.10
support = 0.95
oscillation = 6
breakout = 1.10
noise = 0.015
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}
