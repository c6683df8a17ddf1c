package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newBroadcastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast <message>",
		Short: "Queue a critical message in every running game",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"message": strings.Join(args, " ")}

			var result struct {
				Status string `json:"status"`
			}
			if err := client.Post("/api/v1/admin/broadcast", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Broadcast " + result.Status)
			return nil
		},
	}
}

func newForceEndCmd() *cobra.Command {
	var rebooting bool

	cmd := &cobra.Command{
		Use:   "force-end",
		Short: "Force-end every running game",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]bool{"rebooting": rebooting}

			var result struct {
				Status string `json:"status"`
			}
			if err := client.Post("/api/v1/admin/games/force-end", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Games " + result.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&rebooting, "rebooting", false, "End games for a server reboot rather than a fault")

	return cmd
}

func newTranscriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcript",
		Short: "Show the most recent chat transcript entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []TranscriptEntry
			if err := client.Get("/api/v1/admin/transcript", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
