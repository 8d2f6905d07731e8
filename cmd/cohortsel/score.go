package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cohorttools/cohortsel/internal/corpus"
	"github.com/cohorttools/cohortsel/internal/score"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a predicted corpus against gold labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		goldDir, _ := cmd.Flags().GetString("gold")
		predDir, _ := cmd.Flags().GetString("pred")
		if goldDir == "" || predDir == "" {
			return fmt.Errorf("both --gold and --pred are required")
		}

		gold, err := corpus.LoadAll(goldDir)
		if err != nil {
			return err
		}
		pred, err := corpus.LoadAll(predDir)
		if err != nil {
			return err
		}

		report, err := score.Evaluate(gold, pred)
		if err != nil {
			return err
		}
		fmt.Print(report.Render())
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("gold", "", "directory of gold-labelled documents")
	scoreCmd.Flags().String("pred", "", "directory of predicted documents")
}
