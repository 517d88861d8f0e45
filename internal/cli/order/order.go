package order

import (
	"github.com/spf13/cobra"
)

// OrderCmd returns the order parent command
func OrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Maintain the course chain",
	}

	cmd.AddCommand(RebuildCmd())
	cmd.AddCommand(RepairCmd())
	cmd.AddCommand(ReindexCmd())
	cmd.AddCommand(CheckCmd())

	return cmd
}
