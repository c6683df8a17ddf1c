package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "games",
		Short: "List running games",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if countOnly {
				var result struct {
					Count int `json:"count"`
				}
				if err := client.Get("/api/v1/games/count", &result); err != nil {
					return err
				}
				out.PrintMessage(fmt.Sprintf("%d games running", result.Count))
				return nil
			}

			var result []Game
			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&countOnly, "count", false, "Only print the number of running games")

	return cmd
}
