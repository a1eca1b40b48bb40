package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/vecsnap/vecsnap"
)

var embedCmd = &cobra.Command{
	Use:   "embed [text...]",
	Short: "Embed text and print vector statistics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		wrapper, err := buildWrapper(ctx, globalConfig)
		if err != nil {
			return err
		}
		defer wrapper.Close()

		rows, err := wrapper.Embed(ctx, vecsnap.Text(args...))
		if err != nil {
			return err
		}

		for i, row := range rows {
			var sum float64
			for _, v := range row {
				sum += float64(v) * float64(v)
			}
			preview := row
			if len(preview) > 8 {
				preview = preview[:8]
			}
			fmt.Printf("%s %q\n", labelStyle.Render("input"), args[i])
			fmt.Printf("%s %d  %s %.6f  %s %v\n",
				labelStyle.Render("dim"), len(row),
				labelStyle.Render("norm"), math.Sqrt(sum),
				labelStyle.Render("head"), preview)
		}
		return nil
	},
}
