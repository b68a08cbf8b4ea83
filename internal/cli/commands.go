package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"diocese/internal/calendar"
	"diocese/internal/core"
	"diocese/internal/importer"
	"diocese/pkg/domain"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate the integrity rules without writing",
		Long: `Evaluate every integrity rule against the stored collections.

Exits 1 when blocking violations are found, or any violation with --strict.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withService(cmd, func(ctx context.Context, svc *core.Service) error {
				res, err := svc.Check(ctx)
				if err != nil {
					return WrapExitError(ExitCommandError, "check", err)
				}
				if res.Violations == nil {
					res.Violations = []domain.Violation{}
				}
				if err := rootOpts.output(cmd).Emit(res, func(w io.Writer) error {
					return writeViolations(w, res)
				}); err != nil {
					return err
				}
				if res.HasBlocking() || (strict && len(res.Violations) > 0) {
					return NewExitError(ExitFailure, fmt.Sprintf("%d violation(s)", len(res.Violations)))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on warnings too")
	return cmd
}

// NewRepairCommand creates the repair command.
func NewRepairCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Reconcile every collection and prune dangling references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withService(cmd, func(ctx context.Context, svc *core.Service) error {
				report, err := svc.RepairAll(ctx)
				if err != nil {
					return WrapExitError(ExitCommandError, "repair", err)
				}
				if report.Written == nil {
					report.Written = []string{}
				}
				return rootOpts.output(cmd).Emit(report, func(w io.Writer) error {
					written := "nothing"
					if len(report.Written) > 0 {
						written = strings.Join(report.Written, ", ")
					}
					fmt.Fprintf(w, "written: %s\n", written)
					fmt.Fprintf(w, "pruned clergy summaries: %d\n", report.PrunedClergySummaries)
					fmt.Fprintf(w, "cleared deans: %d\n", report.ClearedDeans)
					fmt.Fprintf(w, "reassigned clergy: %d\n", report.ReassignedClergy)
					fmt.Fprintf(w, "pruned profile images: %d\n", report.PrunedProfileImages)
					return writeViolations(w, report.RemainingViolations)
				})
			})
		},
	}
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <clergy|parishes|deaneries> <file>",
		Short: "Import records from a CSV file",
		Long: `Import records from a CSV file. Use - to read standard input.

Schemas (header names are case-insensitive):
  clergy     Title, First Name, Last Name, Email, Phone, Type, Current Assignment, Status
  parishes   Name, Address, City, State, Zip, Phone, Email, Website, Deanery
  deaneries  Name, Dean, Region

Invalid rows are skipped and reported; the command exits 1 when any row failed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := importer.ParseKind(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "import", err)
			}
			src := cmd.InOrStdin()
			if args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return WrapExitError(ExitCommandError, "open import file", err)
				}
				defer f.Close()
				src = f
			}
			return rootOpts.withService(cmd, func(ctx context.Context, svc *core.Service) error {
				report, err := importer.New(svc, rootOpts.Logger).Import(ctx, kind, src)
				if err != nil {
					return WrapExitError(ExitCommandError, "import", err)
				}
				if err := rootOpts.output(cmd).Emit(report, func(w io.Writer) error {
					fmt.Fprintf(w, "imported %d of %d %s rows\n", len(report.Imported), report.Rows, report.Kind)
					for _, issue := range report.Errors {
						fmt.Fprintf(w, "error   row %d: %s\n", issue.Row, issue.Message)
					}
					for _, issue := range report.Warnings {
						fmt.Fprintf(w, "warning row %d: %s\n", issue.Row, issue.Message)
					}
					return nil
				}); err != nil {
					return err
				}
				if len(report.Errors) > 0 {
					return NewExitError(ExitFailure, fmt.Sprintf("%d row(s) failed", len(report.Errors)))
				}
				return nil
			})
		},
	}
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Print every directory collection",
		Long:  "Print every directory collection. Login credentials are never included.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withService(cmd, func(ctx context.Context, svc *core.Service) error {
				snap, err := svc.Snapshot(ctx)
				if err != nil {
					return WrapExitError(ExitCommandError, "snapshot", err)
				}
				return rootOpts.output(cmd).Emit(snap, func(w io.Writer) error {
					fmt.Fprintf(w, "clergy: %d\n", len(snap.Clergy))
					for _, c := range snap.Clergy {
						fmt.Fprintf(w, "  %s  %s (%s)\n", c.ID, c.DisplayName(), c.Role)
					}
					fmt.Fprintf(w, "parishes: %d\n", len(snap.Parishes))
					for _, p := range snap.Parishes {
						fmt.Fprintf(w, "  %s  %s [%s]\n", p.ID, p.Name, p.DeaneryName)
					}
					fmt.Fprintf(w, "deaneries: %d\n", len(snap.Deaneries))
					for _, d := range snap.Deaneries {
						fmt.Fprintf(w, "  %s  %s dean=%s parishes=%d\n", d.ID, d.Name, d.DeanName, len(d.Parishes))
					}
					fmt.Fprintf(w, "accounts: %d\n", len(snap.Users))
					fmt.Fprintf(w, "calendar events: %d\n", len(snap.CalendarEvents))
					return nil
				})
			})
		},
	}
}

// NewUpcomingCommand creates the upcoming command.
func NewUpcomingCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		days int
		from string
	)
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List birthdays, feasts, anniversaries and events in the next days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now().UTC()
			if from != "" {
				parsed, err := calendar.ParseDate(from)
				if err != nil {
					return WrapExitError(ExitCommandError, "--from", err)
				}
				start = parsed
			}
			if days < 0 {
				return NewExitError(ExitCommandError, "--days must not be negative")
			}
			return rootOpts.withService(cmd, func(ctx context.Context, svc *core.Service) error {
				occurrences, err := svc.UpcomingEvents(ctx, start, days)
				if err != nil {
					return WrapExitError(ExitCommandError, "upcoming", err)
				}
				if occurrences == nil {
					occurrences = []calendar.Occurrence{}
				}
				return rootOpts.output(cmd).Emit(occurrences, func(w io.Writer) error {
					if len(occurrences) == 0 {
						fmt.Fprintf(w, "nothing in the next %d days\n", days)
						return nil
					}
					for _, o := range occurrences {
						fmt.Fprintf(w, "%s  %-22s  %s\n", o.Date.Format(calendar.DateLayout), o.Kind, o.Title)
					}
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "number of days to look ahead")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD, default today)")
	return cmd
}

func writeViolations(w io.Writer, res domain.Result) error {
	if len(res.Violations) == 0 {
		_, err := fmt.Fprintln(w, "ok: no violations")
		return err
	}
	for _, v := range res.Violations {
		if _, err := fmt.Fprintf(w, "%-5s %s: %s\n", v.Severity, v.Rule, v.Message); err != nil {
			return err
		}
	}
	return nil
}
