package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cutroom/internal/batch"
	"cutroom/internal/timeline"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		presetName string
		inputPath  string
		outputPath string
		enqueue    bool
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a timeline through a delivery preset",
		Long: "Export validates the timeline, compiles its ffmpeg plan, and runs the " +
			"export immediately. With --enqueue the job is stored for a later " +
			"'cutroom jobs run' instead.",
		Args: cobra.ExactArgs(1),
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

			output := strings.TrimSpace(outputPath)
			if output == "" {
				name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				output = filepath.Join(cfg.Paths.OutputDir, name+"-"+p.Name+"."+p.Options.Container)
			}

			return ctx.withEngine(func(engine *batch.Engine, store *batch.Store) error {
				job, err := engine.Enqueue(cmd.Context(), batch.EnqueueRequest{
					Timeline:   tl,
					Preset:     p,
					InputPath:  inputPath,
					OutputPath: output,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if enqueue {
					fmt.Fprintf(out, "Enqueued job %d -> %s\n", job.ID, job.OutputPath)
					return nil
				}

				summary, err := engine.Process(cmd.Context())
				if err != nil {
					return err
				}
				if summary.Failed > 0 {
					final, getErr := store.GetByID(cmd.Context(), job.ID)
					if getErr == nil && final != nil && final.ErrorMessage != "" {
						return fmt.Errorf("export failed: %s", final.ErrorMessage)
					}
					return fmt.Errorf("export failed")
				}
				fmt.Fprintf(out, "Exported %s\n", job.OutputPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "Preset name (see 'cutroom presets list')")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Source media path")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Export destination (defaults into output_dir)")
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "Queue the job instead of exporting now")
	_ = cmd.MarkFlagRequired("preset")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
