package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/upiqr/core/logger"
)

// globals are shared by every command.
type globals struct {
	verbose bool
	json    bool
}

// NewRootCommand builds the command tree. Each call returns a fresh tree so
// flag state is not shared between runs.
func NewRootCommand(version string) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "upiqr",
		Short: "Read, generate and modify UPI payment QR codes",
		Long: `upiqr decodes UPI payment QR codes, generates new ones from payment
fields, and rewrites existing codes with changed fields.

Run "upiqr serve" for the HTTP API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log pipeline steps to stderr")
	root.PersistentFlags().BoolVar(&g.json, "json", false, "print results as JSON")

	root.AddCommand(
		newDecodeCmd(g),
		newGenerateCmd(g),
		newModifyCmd(g),
		newServeCmd(),
	)
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (g *globals) logger() *slog.Logger {
	if !g.verbose {
		return logger.Discard()
	}
	return logger.New(logger.WithOutput(os.Stderr), logger.WithLevel(slog.LevelDebug))
}
