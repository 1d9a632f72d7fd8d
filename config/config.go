package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	infraevents "github.com/kilianp07/vesting/infra/events"
	"github.com/kilianp07/vesting/infra/history"
	"github.com/kilianp07/vesting/infra/metrics"
)

type Config struct {
	Vesting VestingConfig          `json:"vesting"`
	Metrics metrics.Config         `json:"metrics"`
	MQTT    infraevents.MQTTConfig `json:"mqtt"`
	History history.Config         `json:"history"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("VESTING_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "vesting_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Vesting.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.History.SetDefaults()
	if err := cfg.Vesting.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.History.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
