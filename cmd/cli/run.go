package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chaptermark/config"
	"chaptermark/internal/pipeline"
	"chaptermark/internal/proposer"
	"chaptermark/internal/service"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run <file.srt>",
	Short: "Run the chapter pipeline on a local subtitle file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadOrCreateConfig(); err != nil {
			return err
		}

		var prop proposer.Proposer
		if dryRun {
			prop = proposer.HeuristicProposer{}
		} else {
			if err := config.CheckConfig(); err != nil {
				return err
			}
			prop = service.NewProposerFromConfig()
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		p := pipeline.New(prop, pipeline.OptionsFromConfig())
		res, err := p.Run(cmd.Context(), string(raw))
		if err != nil {
			return err
		}

		for _, ch := range res.Chapters {
			fmt.Printf("%s %s\n", ch.Time, ch.Description)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		for _, f := range res.FailedChunks {
			fmt.Fprintf(os.Stderr, "chunk %d failed: %s\n", f.ChunkId, f.Error)
		}
		if !res.TargetMet {
			fmt.Fprintf(os.Stderr, "note: produced %d of %d planned chapters\n",
				len(res.Chapters), res.Plan.TargetMomentCount)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"use the deterministic heuristic proposer instead of the configured model")
}
