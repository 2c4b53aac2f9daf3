package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: 127.0.0.1:9999\nmodels_dir: /tmp\nprovider: local-http\nmax_tokens: 256\nchunking_threshold_ms: 1500\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != "127.0.0.1:9999" || cfg.ModelsDir != "/tmp" || cfg.Provider != "local-http" || cfg.MaxTokens != 256 || cfg.ChunkingThresholdMs != 1500 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":"127.0.0.1:7070","models_dir":"/m","provider":"cloud-api","cloud_api_key":"sk-x","temperature":0.7}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != "127.0.0.1:7070" || cfg.ModelsDir != "/m" || cfg.Provider != "cloud-api" || cfg.CloudAPIKey != "sk-x" || cfg.Temperature != 0.7 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\"127.0.0.1:8081\"\nmodels_dir=\"/x\"\ncontext_size=2048\nthreads=4\npackaged=true\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != "127.0.0.1:8081" || cfg.ModelsDir != "/x" || cfg.ContextSize != 2048 || cfg.Threads != 4 || !cfg.Packaged {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil { t.Fatalf("expected unsupported extension error") }
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Addr != DefaultAddr { t.Fatalf("addr=%q", cfg.Addr) }
	if cfg.Provider != DefaultProvider { t.Fatalf("provider=%q", cfg.Provider) }
	if cfg.ContextSize != DefaultContextSize || cfg.MaxTokens != DefaultMaxTokens || cfg.BatchSize != DefaultBatchSize {
		t.Fatalf("generation defaults: %+v", cfg)
	}
	if cfg.Temperature != DefaultTemperature { t.Fatalf("temperature=%v", cfg.Temperature) }
	if cfg.GPULayers != -1 { t.Fatalf("gpu_layers=%d", cfg.GPULayers) }
	if cfg.ChunkingThresholdMs != DefaultChunkingThresholdMs || cfg.ChunkBudget != DefaultChunkBudget {
		t.Fatalf("chunking defaults: %+v", cfg)
	}
	if cfg.RetryDelayMs != DefaultRetryDelayMs { t.Fatalf("retry_delay_ms=%d", cfg.RetryDelayMs) }
	if cfg.LocalHTTPBaseURL != DefaultLocalHTTPBaseURL { t.Fatalf("local_http_base_url=%q", cfg.LocalHTTPBaseURL) }
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{Addr: "127.0.0.1:1234", Provider: "local-http", MaxTokens: 64, GPULayers: 12}
	cfg.ApplyDefaults()
	if cfg.Addr != "127.0.0.1:1234" || cfg.Provider != "local-http" || cfg.MaxTokens != 64 || cfg.GPULayers != 12 {
		t.Fatalf("explicit values clobbered: %+v", cfg)
	}
}
