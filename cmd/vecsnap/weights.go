package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vecsnap/vecsnap/checkpoint"
	"github.com/vecsnap/vecsnap/encoders/linear"
)

var (
	weightsOut   string
	weightsSeed  int64
	weightsVocab int
	weightsHid   int
	weightsDim   int
	weightsPix   int
)

var initWeightsCmd = &cobra.Command{
	Use:   "init-weights",
	Short: "Generate a pseudo-random pretrained weight file for the linear encoder",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc, err := linear.Random(linear.RandomConfig{
			Vocab:    weightsVocab,
			Hidden:   weightsHid,
			EmbedDim: weightsDim,
			PixelDim: weightsPix,
		}, weightsSeed)
		if err != nil {
			return err
		}
		defer enc.Close()

		if err := checkpoint.WriteFile(weightsOut, checkpoint.New(enc.StateDict(), 0)); err != nil {
			return fmt.Errorf("writing weight file: %w", err)
		}
		fmt.Println(passStyle.Render("wrote"), weightsOut,
			labelStyle.Render("vocab"), weightsVocab,
			labelStyle.Render("hidden"), weightsHid,
			labelStyle.Render("dim"), weightsDim,
			labelStyle.Render("pixels"), weightsPix)
		return nil
	},
}

func init() {
	initWeightsCmd.Flags().StringVarP(&weightsOut, "out", "o", "weights.ckpt", "output weight file path")
	initWeightsCmd.Flags().Int64Var(&weightsSeed, "seed", 42, "random seed")
	initWeightsCmd.Flags().IntVar(&weightsVocab, "vocab", 2048, "token embedding rows")
	initWeightsCmd.Flags().IntVar(&weightsHid, "hidden", 64, "token embedding width")
	initWeightsCmd.Flags().IntVar(&weightsDim, "dim", 128, "output embedding dimension")
	initWeightsCmd.Flags().IntVar(&weightsPix, "pixels", 768, "flattened pixel length for the image branch")
}
