package order

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/cli"
)

// RebuildCmd returns the order rebuild subcommand
func RebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Build the chain from the legacy order index",
		Long: `Link every course in ascending legacy order index and make the
first one the head. Courses without an index go last, ordered by creation
time. Running rebuild twice yields the same chain.

Examples:
  syllabus order rebuild
  syllabus order rebuild --json
`,
		RunE: runRebuild,
	}

	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runRebuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	if err := cliInstance.App.CourseService.RebuildFromLegacyIndex(ctx); err != nil {
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

	fmt.Println("✓ Course chain rebuilt from legacy order index")
	return nil
}
