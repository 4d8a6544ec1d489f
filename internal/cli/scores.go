package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trivia-quiz/internal/domain"
)

// NewScoresCmd inspects and clears the leaderboard of the configured score store.
func NewScoresCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Inspect the leaderboard",
	}

	var top int
	list := &cobra.Command{
		Use:   "list",
		Short: "Print saved scores, best first",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := withScoreStore(cmd.Context(), *configPath, func(ctx context.Context, store scoreReader) ([]domain.ScoreEntry, error) {
				return store.TopN(ctx, top)
			})
			if err != nil {
				return err
			}
			return printScores(cmd.OutOrStdout(), entries)
		},
	}
	list.Flags().IntVar(&top, "top", 0, "only print the best N entries (0 prints all)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved score",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := withScoreStore(cmd.Context(), *configPath, func(ctx context.Context, store scoreReader) ([]domain.ScoreEntry, error) {
				return nil, store.Clear(ctx)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "scoreboard cleared")
			return nil
		},
	}

	cmd.AddCommand(list, clearCmd)
	return cmd
}

type scoreReader interface {
	TopN(ctx context.Context, n int) ([]domain.ScoreEntry, error)
	Clear(ctx context.Context) error
}

func withScoreStore(ctx context.Context, configPath string, fn func(context.Context, scoreReader) ([]domain.ScoreEntry, error)) ([]domain.ScoreEntry, error) {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	res := &resources{}
	defer res.Close()

	store, err := openScoreStore(ctx, cfg, res, log)
	if err != nil {
		return nil, err
	}
	return fn(ctx, store)
}

func printScores(w io.Writer, entries []domain.ScoreEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no scores yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tSCORE\tCATEGORY\tDIFFICULTY\tDATE")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n", i+1, e.Username, e.Score, e.Category, e.Difficulty, e.Timestamp.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
