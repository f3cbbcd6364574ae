package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yanqian/surf-forecast/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "forecastctl",
		Short: "Compose surf forecasts and inspect locations without the HTTP service",
		Long: `forecastctl runs the forecast pipeline against raw model files on disk,
queries location seed files and pushes raw files to object storage.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newComposeCmd(),
		newLocationsCmd(),
		newBlobsCmd(),
		newMockCmd(),
	)
	return root
}

// cmdLogger keeps stdout free for command output.
func cmdLogger(cmd *cobra.Command) *slog.Logger {
	return logger.NewWithWriter(cmd.ErrOrStderr())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
