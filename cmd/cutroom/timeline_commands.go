package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cutroom/internal/editor"
	"cutroom/internal/timeline"
)

func newTimelineCommand(ctx *commandContext) *cobra.Command {
	timelineCmd := &cobra.Command{
		Use:         "timeline",
		Short:       "Inspect timeline project files",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	timelineCmd.AddCommand(newTimelineShowCommand())
	timelineCmd.AddCommand(newTimelineCheckCommand())

	return timelineCmd
}

func newTimelineShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Show tracks and clips of a timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := timeline.LoadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Timeline: %s (%s @ %s fps, %ss)\n",
				tl.Name,
				fmt.Sprintf("%dx%d", tl.Settings.Width, tl.Settings.Height),
				formatFrameRate(tl.Settings.FrameRate),
				formatSeconds(tl.Duration))

			rows := make([][]string, 0)
			for _, track := range tl.Tracks {
				for _, clip := range track.Clips {
					rows = append(rows, []string{
						track.Name,
						string(track.Kind),
						clip.Name,
						formatSeconds(clip.TimelineStart),
						formatSeconds(clip.End()),
						formatSeconds(clip.Duration),
						strconv.Itoa(len(clip.Effects)),
						yesNo(clip.Enabled && track.Enabled),
					})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "Timeline has no clips")
				return nil
			}
			table := renderTable(
				[]string{"Track", "Kind", "Clip", "Start", "End", "Duration", "Effects", "Active"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			)
			fmt.Fprintln(out, table)
			return nil
		},
	}
}

func newTimelineCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Report overlapping clips on a timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := timeline.LoadFile(args[0])
			if err != nil {
				return err
			}

			ed := editor.New(tl, editor.Options{})
			issues := ed.ValidateClipOverlap()

			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintln(out, "No overlapping clips")
				return nil
			}
			rows := make([][]string, 0, len(issues))
			for _, issue := range issues {
				rows = append(rows, []string{
					string(issue.Kind),
					issue.Overlap.TrackID,
					issue.Overlap.FirstID,
					issue.Overlap.OtherID,
					yesNo(issue.Allowed),
				})
			}
			table := renderTable(
				[]string{"Kind", "Track", "Clip A", "Clip B", "Allowed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(out, table)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
