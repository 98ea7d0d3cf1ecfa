package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/viant/mint"
	"github.com/viant/mint/service/prompt"
)

func loadConfig(ctx context.Context) (*mint.Config, error) {
	if configURL == "" {
		return mint.DefaultConfig(), nil
	}
	return mint.LoadConfig(ctx, nil, configURL)
}

func newService(ctx context.Context, cmd *cobra.Command) (*mint.Service, error) {
	config, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	options := []mint.Option{
		mint.WithConfig(config),
		mint.WithLogger(logger),
		mint.WithPrompt(prompt.NewWithIO(cmd.InOrStdin(), cmd.OutOrStdout())),
	}
	if traceFile == "" && config.Tracing.Enabled {
		traceFile = config.Tracing.File
	}
	if traceFile != "" || config.Tracing.Enabled {
		options = append(options, mint.WithTracing("mint", version, traceFile))
	}
	return mint.New(options...)
}

func commandContext() (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
