package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutroom/internal/preset"
	"cutroom/internal/timeline"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var presetName string

	cmd := &cobra.Command{
		Use:         "validate FILE",
		Short:       "Validate a timeline against a delivery preset",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := timeline.LoadFile(args[0])
			if err != nil {
				return err
			}
			p, err := ctx.lookupPreset(presetName)
			if err != nil {
				return err
			}

			result := preset.Validate(tl, p)
			out := cmd.OutOrStdout()
			for _, msg := range result.Errors {
				fmt.Fprintf(out, "error: %s\n", msg)
			}
			for _, msg := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", msg)
			}

			estimate := preset.EstimateFileSize(tl, p)
			fmt.Fprintf(out, "Estimated output size: %s\n", formatBytes(estimate))

			if !result.Valid {
				return fmt.Errorf("timeline is not exportable with preset %q", p.Name)
			}
			fmt.Fprintf(out, "Timeline is valid for preset %q\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "Preset name (see 'cutroom presets list')")
	_ = cmd.MarkFlagRequired("preset")

	return cmd
}
