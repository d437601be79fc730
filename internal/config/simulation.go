package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"aegissim/internal/model"
)

// LoadSimulation 加载模拟配置。path 为空时返回内置 AegisCare 配置。
// 按扩展名解析：.toml / .yaml / .yml / .json，解析后执行校验。
func LoadSimulation(path string) (*model.SimulationConfig, error) {
	if path == "" {
		return model.DefaultSimulationConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read simulation config: %w", err)
	}

	cfg, err := ParseSimulation(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse simulation config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSimulation 按格式解析模拟配置并校验
func ParseSimulation(data []byte, ext string) (*model.SimulationConfig, error) {
	cfg := &model.SimulationConfig{}

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported simulation config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteSimulation 将模拟配置写出为 TOML（用于生成配置模板）
func WriteSimulation(cfg *model.SimulationConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
