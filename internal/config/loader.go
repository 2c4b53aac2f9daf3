package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the feedback engine.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr        string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir   string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	PackagedDir string `json:"packaged_dir" yaml:"packaged_dir" toml:"packaged_dir"`
	Packaged    bool   `json:"packaged" yaml:"packaged" toml:"packaged"`

	// Provider selects the primary backend: on-device, local-http, cloud-api.
	Provider string `json:"provider" yaml:"provider" toml:"provider"`

	ContextSize int     `json:"context_size" yaml:"context_size" toml:"context_size"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	BatchSize   int     `json:"batch_size" yaml:"batch_size" toml:"batch_size"`
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	Threads     int     `json:"threads" yaml:"threads" toml:"threads"`

	// GPULayers overrides acceleration detection when >= 0. -1 means auto.
	GPULayers int `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers"`

	ChunkingThresholdMs int `json:"chunking_threshold_ms" yaml:"chunking_threshold_ms" toml:"chunking_threshold_ms"`
	ChunkBudget         int `json:"chunk_budget" yaml:"chunk_budget" toml:"chunk_budget"`
	RetryDelayMs        int `json:"retry_delay_ms" yaml:"retry_delay_ms" toml:"retry_delay_ms"`

	LocalHTTPBaseURL string `json:"local_http_base_url" yaml:"local_http_base_url" toml:"local_http_base_url"`
	LocalHTTPModel   string `json:"local_http_model" yaml:"local_http_model" toml:"local_http_model"`

	CloudAPIKey string `json:"cloud_api_key" yaml:"cloud_api_key" toml:"cloud_api_key"`
	CloudModel  string `json:"cloud_model" yaml:"cloud_model" toml:"cloud_model"`
}

// Defaults applied by ApplyDefaults for unset fields.
const (
	DefaultAddr                = "127.0.0.1:8741"
	DefaultProvider            = "on-device"
	DefaultContextSize         = 4096
	DefaultMaxTokens           = 1024
	DefaultBatchSize           = 512
	DefaultTemperature         = 0.2
	DefaultChunkingThresholdMs = 2000
	DefaultChunkBudget         = 6000
	DefaultRetryDelayMs        = 5000
	DefaultLocalHTTPBaseURL    = "http://localhost:11434"
)

// ApplyDefaults fills unset fields in place. Centralizing defaults here keeps
// file loading, flag overrides, and tests consistent.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.ContextSize <= 0 {
		c.ContextSize = DefaultContextSize
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.GPULayers == 0 {
		c.GPULayers = -1
	}
	if c.ChunkingThresholdMs <= 0 {
		c.ChunkingThresholdMs = DefaultChunkingThresholdMs
	}
	if c.ChunkBudget <= 0 {
		c.ChunkBudget = DefaultChunkBudget
	}
	if c.RetryDelayMs <= 0 {
		c.RetryDelayMs = DefaultRetryDelayMs
	}
	if c.LocalHTTPBaseURL == "" {
		c.LocalHTTPBaseURL = DefaultLocalHTTPBaseURL
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
