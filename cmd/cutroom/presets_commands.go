package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cutroom/internal/preset"
)

func newPresetsCommand() *cobra.Command {
	presetsCmd := &cobra.Command{
		Use:         "presets",
		Short:       "Inspect the built-in delivery presets",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	presetsCmd.AddCommand(newPresetsListCommand())
	presetsCmd.AddCommand(newPresetsShowCommand())

	return presetsCmd
}

func newPresetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := preset.NewCatalog()
			rows := make([][]string, 0)
			for _, p := range catalog.All() {
				rows = append(rows, []string{
					p.Name,
					p.Platform,
					fmt.Sprintf("%dx%d", p.Options.Width, p.Options.Height),
					formatFrameRate(p.Options.FrameRate),
					string(p.Options.Quality),
					formatMaxDuration(p.MaxDuration),
				})
			}
			table := renderTable(
				[]string{"Name", "Platform", "Resolution", "FPS", "Quality", "Max Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newPresetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show one preset in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := preset.NewCatalog()
			p, ok := catalog.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown preset %q (run 'cutroom presets list')", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:         %s\n", p.Name)
			fmt.Fprintf(out, "Platform:     %s\n", p.Platform)
			fmt.Fprintf(out, "Description:  %s\n", p.Description)
			fmt.Fprintf(out, "Container:    %s\n", p.Options.Container)
			fmt.Fprintf(out, "Video:        %s %dx%d @ %s fps\n",
				p.Options.VideoCodec, p.Options.Width, p.Options.Height, formatFrameRate(p.Options.FrameRate))
			fmt.Fprintf(out, "Audio:        %s\n", p.Options.AudioCodec)
			fmt.Fprintf(out, "Quality:      %s (crf %d)\n", p.Options.Quality, p.Options.Quality.CRF())
			if p.Options.VideoBitrateKbps > 0 {
				fmt.Fprintf(out, "Video rate:   %d kbps\n", p.Options.VideoBitrateKbps)
			}
			if p.Options.AudioBitrateKbps > 0 {
				fmt.Fprintf(out, "Audio rate:   %d kbps\n", p.Options.AudioBitrateKbps)
			}
			if p.MaxDuration > 0 {
				fmt.Fprintf(out, "Max duration: %s\n", formatMaxDuration(p.MaxDuration))
			}
			if p.MaxFileSize > 0 {
				fmt.Fprintf(out, "Max size:     %s\n", formatBytes(p.MaxFileSize))
			}
			return nil
		},
	}
}

func formatFrameRate(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

func formatMaxDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return strconv.FormatFloat(seconds, 'f', -1, 64) + "s"
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
