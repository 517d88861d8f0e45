package order

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/cli"
)

// RepairCmd returns the order repair subcommand
func RepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Relink a broken chain",
		Long: `Relink every course after a cycle, a dangling pointer or an
interrupted write. Courses reachable from the head keep their order;
unreachable courses are appended by legacy order index.

Examples:
  syllabus order repair
  syllabus order repair --json
`,
		RunE: runRepair,
	}

	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runRepair(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	report, err := cliInstance.App.CourseService.Repair(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.WriteJSON(map[string]interface{}{
			"success": true,
			"repair":  report,
		})
	}

	fmt.Println("✓ Course chain repaired")
	fmt.Printf("  Kept in place: %d\n", report.Reached)
	fmt.Printf("  Appended: %d\n", report.Appended)
	fmt.Printf("  Index writes: %d\n", report.IndexWrites)
	return nil
}
