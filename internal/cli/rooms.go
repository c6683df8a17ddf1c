package cli

import (
	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rooms [id]",
		Short: "List chat rooms or show one room",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if len(args) == 1 {
				var result Room
				if err := client.Get("/api/v1/rooms/"+args[0], &result); err != nil {
					return err
				}
				out.Print(result)
				return nil
			}

			path := "/api/v1/rooms"
			if all {
				// Administrative rooms require the admin token
				path = "/api/v1/admin/rooms"
			}

			var result []Room
			if err := client.Get(path, &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include administrative rooms (requires admin token)")

	return cmd
}
