package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cutroom/internal/batch"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage the export queue",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsStatusCommand(ctx))
	jobsCmd.AddCommand(newJobsRunCommand(ctx))
	jobsCmd.AddCommand(newJobsCancelCommand(ctx))
	jobsCmd.AddCommand(newJobsRetryCommand(ctx))
	jobsCmd.AddCommand(newJobsRemoveCommand(ctx))
	jobsCmd.AddCommand(newJobsClearCommand(ctx))

	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List export jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(listStatuses)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *batch.Store) error {
				jobs, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No export jobs")
					return nil
				}
				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					rows = append(rows, []string{
						strconv.FormatInt(job.ID, 10),
						truncate(job.TimelineName, 28),
						job.PresetName,
						string(job.Status),
						fmt.Sprintf("%.0f%%", job.ProgressPercent),
						formatTimestamp(job.CreatedAt),
					})
				}
				table := renderTable(
					[]string{"ID", "Timeline", "Preset", "Status", "Progress", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Filter by status (pending, processing, completed, failed, cancelled)")

	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one export job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *batch.Store) error {
				job, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if job == nil {
					return fmt.Errorf("job %d not found", id)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job:       %d\n", job.ID)
				fmt.Fprintf(out, "Timeline:  %s\n", job.TimelineName)
				fmt.Fprintf(out, "Preset:    %s\n", job.PresetName)
				fmt.Fprintf(out, "Status:    %s\n", job.Status)
				fmt.Fprintf(out, "Input:     %s\n", job.InputPath)
				fmt.Fprintf(out, "Output:    %s\n", job.OutputPath)
				fmt.Fprintf(out, "Progress:  %.1f%% %s\n", job.ProgressPercent, job.ProgressMessage)
				fmt.Fprintf(out, "Created:   %s\n", formatTimestamp(job.CreatedAt))
				if job.StartedAt != nil {
					fmt.Fprintf(out, "Started:   %s\n", formatTimestamp(*job.StartedAt))
				}
				if job.CompletedAt != nil {
					fmt.Fprintf(out, "Finished:  %s\n", formatTimestamp(*job.CompletedAt))
				}
				if job.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:     %s\n", job.ErrorMessage)
				}
				return nil
			})
		},
	}
}

func newJobsStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show export queue summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *batch.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No export jobs")
					return nil
				}
				rows := make([][]string, 0, len(stats))
				for _, status := range batch.AllStatuses() {
					if count, ok := stats[status]; ok {
						rows = append(rows, []string{string(status), strconv.Itoa(count)})
					}
				}
				table := renderTable(
					[]string{"Status", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newJobsRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process pending export jobs until the queue drains",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(engine *batch.Engine, store *batch.Store) error {
				reset, err := store.ResetStuckProcessing(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if reset > 0 {
					fmt.Fprintf(out, "Reset %d stuck job(s) to pending\n", reset)
				}

				summary, err := engine.Process(cmd.Context())
				if err != nil {
					return err
				}
				if summary.Total() == 0 {
					fmt.Fprintln(out, "No pending jobs")
					return nil
				}
				fmt.Fprintf(out, "Processed %d job(s): %d completed, %d failed, %d cancelled\n",
					summary.Total(), summary.Completed, summary.Failed, summary.Cancelled)
				if summary.Failed > 0 {
					return fmt.Errorf("%d job(s) failed", summary.Failed)
				}
				return nil
			})
		},
	}
}

func newJobsCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a pending export job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return ctx.withEngine(func(engine *batch.Engine, store *batch.Store) error {
				if err := engine.Cancel(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cancelled job %d\n", id)
				return nil
			})
		},
	}
}

func newJobsRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [ID...]",
		Short: "Move failed jobs back to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseJobID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return ctx.withStore(func(store *batch.Store) error {
				affected, err := store.RetryFailed(cmd.Context(), ids...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d job(s)\n", affected)
				return nil
			})
		},
	}
}

func newJobsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete an export job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *batch.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("job %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed job %d\n", id)
				return nil
			})
		},
	}
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	var (
		clearFailed bool
		clearAll    bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove completed jobs (or failed/all with flags)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *batch.Store) error {
				var (
					removed int64
					err     error
					what    string
				)
				switch {
				case clearAll:
					removed, err = store.Clear(cmd.Context())
					what = "job(s)"
				case clearFailed:
					removed, err = store.ClearFailed(cmd.Context())
					what = "failed job(s)"
				default:
					removed, err = store.ClearCompleted(cmd.Context())
					what = "completed job(s)"
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s\n", removed, what)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearFailed, "failed", false, "Remove failed jobs instead of completed")
	cmd.Flags().BoolVar(&clearAll, "all", false, "Remove every job regardless of status")

	return cmd
}

func parseJobID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", value)
	}
	return id, nil
}

func parseStatuses(values []string) ([]batch.Status, error) {
	statuses := make([]batch.Status, 0, len(values))
	for _, value := range values {
		status, ok := batch.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
