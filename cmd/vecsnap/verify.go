package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vecsnap/vecsnap"
	"github.com/vecsnap/vecsnap/training"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Save, reload, and confirm the wrapper reproduces its output",
	Long: `Drives a zero-step run through the configured wrapper, saves a
checkpoint, restores it into a second wrapper instance, and confirms the
reloaded wrapper produces the same embedding for the configured input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := globalConfig

		wrapper, err := buildWrapper(ctx, cfg)
		if err != nil {
			return err
		}
		defer wrapper.Close()

		store, err := buildStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := training.VerifyRoundTrip(ctx, wrapper, training.RoundTripConfig{
			Store:          store,
			Fresh:          func() (*vecsnap.Wrapper, error) { return buildWrapper(ctx, cfg) },
			Input:          vecsnap.Text(cfg.Verify.Text),
			Tolerance:      cfg.Verify.Tolerance,
			CheckpointName: cfg.Verify.Checkpoint,
			Logger:         logger,
		})
		if err != nil {
			fmt.Println(failStyle.Render("FAIL"), err)
			return errors.New("round trip failed")
		}

		fmt.Println(passStyle.Render("PASS"),
			labelStyle.Render("checkpoint"), report.CheckpointName,
			labelStyle.Render("run"), report.RunID.String())
		fmt.Printf("%s %d  %s %.3g  %s %.6f\n",
			labelStyle.Render("rows"), report.Rows,
			labelStyle.Render("max_diff"), report.MaxDiff,
			labelStyle.Render("min_cosine"), report.MinCosine)
		return nil
	},
}
