package cli

import (
	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List all rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Room

			if err := client.Get("/api/v1/rooms", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
