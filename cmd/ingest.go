package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ingestLeagueID int64
	ingestNoLLM    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a schedule document from disk for a league",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("ingest"); err != nil {
			return err
		}

		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read schedule file")
		}

		result, err := e.Ingest.Ingest(cmd.Context(), ingestLeagueID, filepath.Base(args[0]), data, !ingestNoLLM)
		if err != nil {
			return err
		}

		zap.L().Info("ingestion finished",
			zap.Int("created_games", result.CreatedGames),
			zap.Int("created_locations", result.CreatedLocations),
			zap.Int("skipped_rows", result.SkippedRows),
		)
		for _, w := range result.Warnings {
			if w.RowIndex != nil {
				zap.L().Warn(w.Message, zap.Int("row", *w.RowIndex))
			} else {
				zap.L().Warn(w.Message)
			}
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().Int64Var(&ingestLeagueID, "league", 0, "league id to ingest into (required)")
	ingestCmd.Flags().BoolVar(&ingestNoLLM, "no-llm", false, "disable the LLM extraction fallback")
	ingestCmd.MarkFlagRequired("league")
	rootCmd.AddCommand(ingestCmd)
}
