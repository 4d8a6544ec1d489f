package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trivia-quiz/internal/domain"
)

// NewCategoriesCmd prints the category and difficulty catalog.
func NewCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List quiz categories and difficulties",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(cmd.OutOrStdout())
		},
	}
}

func printCatalog(w io.Writer) error {
	for _, c := range domain.Categories() {
		if _, err := fmt.Fprintf(w, "%3d  %s\n", c.ID, c.Name); err != nil {
			return err
		}
	}
	for _, d := range domain.Difficulties() {
		if _, err := fmt.Fprintf(w, "     %s (%s)\n", d.Name(), d); err != nil {
			return err
		}
	}
	return nil
}
