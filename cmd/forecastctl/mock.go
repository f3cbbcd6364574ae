package main

import (
	"github.com/spf13/cobra"

	"github.com/yanqian/surf-forecast/internal/domain/forecast"
)

func newMockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mock",
		Short: "Print the fixed mock forecast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), forecast.MockResponse(forecast.DefaultEnergyModel()))
		},
	}
}
