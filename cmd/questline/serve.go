package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"questline/internal/observability"
	"questline/internal/pipeline"
	"questline/internal/server"
)

func newServeCmd(configPath *string, verbose *bool) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(*configPath, *verbose)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = rt.cfg.ListenAddr
			}

			registry := prometheus.NewRegistry()
			metrics := observability.New(registry)

			opts := append(rt.pipelineOptions(), pipeline.WithMetrics(metrics))
			pipe := pipeline.New(rt.client, opts...)

			srv := server.New(pipe, rt.cfg.Model, registry, rt.logger)
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
