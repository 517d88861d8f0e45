package order

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/cli"
)

// ReindexCmd returns the order reindex subcommand
func ReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Write chain positions into the legacy order index",
		Long: `Set every course's legacy order index to its current position in
the chain, so tools that still read the index see the same order.
Fails when some courses are unreachable; run repair first.

Examples:
  syllabus order reindex
`,
		RunE: runReindex,
	}

	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	if err := cliInstance.App.CourseService.SyncLegacyIndex(ctx); err != nil {
		return cli.Fail(formatter, err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.WriteJSON(map[string]interface{}{
			"success": true,
		})
	}

	fmt.Println("✓ Legacy order index synced with the course chain")
	return nil
}
