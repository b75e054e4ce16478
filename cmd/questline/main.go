package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"questline/internal/config"
	"questline/internal/llm"
	"questline/internal/logging"
	"questline/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	root := &cobra.Command{
		Use:   "questline",
		Short: "Turn a long-term goal into validated daily quests",
		Long: `questline runs a three-stage generation pipeline (skill map, daily
quest draft, policy check) against a text-generation backend and enforces
hard planning constraints on the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.questline.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newGenerateCmd(&configPath, &verbose))
	root.AddCommand(newServeCmd(&configPath, &verbose))
	return root
}

// runtime bundles everything a subcommand needs after config load.
type runtime struct {
	cfg    *config.Config
	logger logging.Logger
	client llm.Client
}

func buildRuntime(configPath string, verbose bool) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}
	logging.SetLevel(level)
	logger := logging.NewComponentLogger("cli")

	client, err := buildBackend(cfg)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger, client: client}, nil
}

func buildBackend(cfg *config.Config) (llm.Client, error) {
	switch cfg.Backend {
	case "canned":
		return llm.NewCannedClient(), nil
	default:
		return llm.NewOpenAIClient(llm.Config{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			Timeout:   cfg.Timeout(),
			MaxTokens: cfg.MaxTokens,
		}, logging.NewComponentLogger("llm"))
	}
}

func (r *runtime) pipelineOptions() []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithLogger(logging.NewComponentLogger("pipeline")),
		pipeline.WithTemperature(r.cfg.Temperature),
		pipeline.WithSkillMapCache(r.cfg.CacheSize, r.cfg.CacheTTL()),
	}
}
