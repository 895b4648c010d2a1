package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutroom/internal/render"
	"cutroom/internal/timeline"
)

func newCompileCommand(ctx *commandContext) *cobra.Command {
	var (
		presetName string
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "compile FILE",
		Short: "Compile a timeline into an ffmpeg command without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tl, err := timeline.LoadFile(args[0])
			if err != nil {
				return err
			}
			p, err := ctx.lookupPreset(presetName)
			if err != nil {
				return err
			}

			plan, err := render.Compile(tl, p, inputPath, outputPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), plan.Command(cfg.FFmpeg.Binary))
			return nil
		},
	}

	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "Preset name (see 'cutroom presets list')")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Source media path")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Export destination path")
	_ = cmd.MarkFlagRequired("preset")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
