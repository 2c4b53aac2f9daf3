package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"marginalia/internal/config"
	"marginalia/internal/engine"
	"marginalia/internal/httpapi"
	"marginalia/internal/lifecycle"
	"marginalia/internal/provider"
	"marginalia/internal/runtime"
	"marginalia/pkg/types"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		modelsDir  string
		providerID string
		logLevel   string
		packaged   bool
	)

	root := &cobra.Command{
		Use:           "marginalia",
		Short:         "Local feedback engine for research notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{}
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			// Flags override file values when set.
			if addr != "" {
				cfg.Addr = addr
			}
			if modelsDir != "" {
				cfg.ModelsDir = modelsDir
			}
			if providerID != "" {
				cfg.Provider = providerID
			}
			if packaged {
				cfg.Packaged = true
			}
			cfg.ApplyDefaults()
			return run(cfg, logLevel)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "Path to config file (.yaml, .json or .toml)")
	root.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default "+config.DefaultAddr+")")
	root.Flags().StringVar(&modelsDir, "models-dir", "", "Directory holding the model file in development mode")
	root.Flags().StringVar(&providerID, "provider", "", "Primary provider: on-device, local-http or cloud-api")
	root.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	root.Flags().BoolVar(&packaged, "packaged", false, "Resolve the model from the packaged resources directory")

	return root
}

func run(cfg config.Config, logLevel string) error {
	log := newLogger(logLevel)

	paths := runtime.Paths{
		Dir:         cfg.ModelsDir,
		PackagedDir: cfg.PackagedDir,
		Packaged:    cfg.Packaged,
	}
	accel := runtime.DetectAcceleration(cfg.GPULayers)
	log.Info().
		Bool("accel", accel.Enabled).
		Str("type", accel.Type).
		Int("layers", accel.Layers).
		Msg("acceleration detected")

	rt := runtime.NewRuntime(cfg.ContextSize, cfg.BatchSize, cfg.Threads, log)
	lm := lifecycle.NewManager(lifecycle.ManagerConfig{
		Runtime:      rt,
		Paths:        paths,
		Acceleration: accel,
		RetryDelay:   time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		Logger:       log,
	})
	defer lm.Dispose()

	chunker := engine.NewChunker(time.Duration(cfg.ChunkingThresholdMs) * time.Millisecond)
	orch := engine.NewOrchestrator(lm, chunker, log)

	router := provider.NewRouter(provider.RouterConfig{
		Primary:   cfg.Provider,
		OnDevice:  provider.NewLocalProvider(orch, lm),
		LocalHTTP: provider.NewHTTPProvider(cfg.LocalHTTPBaseURL, cfg.LocalHTTPModel),
		Cloud:     cloudProvider(cfg),
		Chunker:   chunker,
		Lifecycle: lm,
		Defaults: types.LLMConfig{
			ContextSize: cfg.ContextSize,
			MaxTokens:   cfg.MaxTokens,
			BatchSize:   cfg.BatchSize,
			Temperature: cfg.Temperature,
		},
		ChunkBudget: cfg.ChunkBudget,
		Logger:      log,
	})

	httpapi.SetLogger(log)
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(router)}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("provider", cfg.Provider).Msg("marginalia listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	// Cancel in-flight generations before shutting down the listener.
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

// cloudProvider returns nil when no API key is configured; a nil cloud
// provider disables the fallback hop entirely.
func cloudProvider(cfg config.Config) provider.Provider {
	if cfg.CloudAPIKey == "" {
		return nil
	}
	return provider.NewCloudProvider(cfg.CloudAPIKey, cfg.CloudModel)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
