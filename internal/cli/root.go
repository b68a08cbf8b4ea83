// Package cli implements diocesectl, the administrative command line for the
// directory engine.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"diocese/internal/core"
	"diocese/internal/platform/logger"
)

// Opener builds the service a command runs against. Commands close it when
// they finish.
type Opener func(ctx context.Context) (*core.Service, error)

// RootOptions holds global flags and shared dependencies.
type RootOptions struct {
	Format string // "text" | "json" | "yaml"
	Open   Opener
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the diocesectl root command.
func NewRootCommand(open Opener, log *slog.Logger) *cobra.Command {
	if log == nil {
		log = logger.Discard()
	}
	opts := &RootOptions{Open: open, Logger: log}

	cmd := &cobra.Command{
		Use:   "diocesectl",
		Short: "Inspect and maintain the diocese directory",
		Long: `diocesectl checks, repairs and imports the clergy, parish and deanery
collections. The storage backend is chosen from DIOCESE_* environment
variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewRepairCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewUpcomingCommand(opts))

	return cmd
}

// withService opens the directory, runs fn and closes it.
func (o *RootOptions) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *core.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Open == nil {
		return NewExitError(ExitCommandError, "no directory configured")
	}
	svc, err := o.Open(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "open directory", err)
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			o.Logger.Warn("close directory", "error", cerr)
		}
	}()
	return fn(ctx, svc)
}

func (o *RootOptions) output(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
