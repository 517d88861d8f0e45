package order

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/cli"
	"github.com/thenoetrevino/syllabus/internal/cli/styles"
)

var errUnhealthy = errors.New("course chain is not healthy")

// CheckCmd returns the order check subcommand
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Inspect the chain without changing it",
		Long: `Report cycles, dangling pointers, unreachable courses and courses
that share a successor. Exits with status 4 when the chain is unhealthy.

Examples:
  syllabus order check
  syllabus order check --json
`,
		RunE: runCheck,
	}

	cli.AddOutputFlags(cmd, "No output, exit status only")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	service := cliInstance.App.CourseService
	report, err := service.CheckIntegrity(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	healthy := report.Healthy()
	var result error
	if !healthy {
		result = &cli.CommandError{Code: cli.ExitDataErr, Err: errUnhealthy}
	}

	if formatter.Quiet {
		return result
	}

	if formatter.JSON {
		if err := formatter.WriteJSON(map[string]interface{}{
			"success": true,
			"healthy": healthy,
			"report":  report,
			"metrics": service.Metrics(),
		}); err != nil {
			return err
		}
		return result
	}

	printReport(report)
	return result
}

func printReport(report *chain.IntegrityReport) {
	head := "(none)"
	if report.Head != nil {
		head = *report.Head
	}

	fmt.Println(styles.RenderField("Head", head))
	fmt.Println(styles.RenderField("Mode", string(report.Mode)))
	fmt.Println(styles.RenderField("Reachable", fmt.Sprintf("%d of %d", report.Reached, report.Total)))

	if report.Healthy() {
		fmt.Println(styles.SuccessStyle.Render("healthy"))
		return
	}

	fmt.Println(styles.ErrorStyle.Render("unhealthy"))
	if !report.Initialized && report.Total > 0 {
		fmt.Println("  no chain head recorded, run: syllabus order rebuild")
	}
	if report.CycleAt != "" {
		fmt.Printf("  cycle at %s\n", report.CycleAt)
	}
	if report.Dangling != "" {
		fmt.Printf("  dangling pointer to %s\n", report.Dangling)
	}
	if len(report.Unreachable) > 0 {
		fmt.Println(styles.SectionStyle.Render("Unreachable"))
		for _, id := range report.Unreachable {
			fmt.Printf("  %s\n", id)
		}
	}
	if len(report.SharedNext) > 0 {
		fmt.Println(styles.SectionStyle.Render("Shared successors"))
		targets := make([]string, 0, len(report.SharedNext))
		for target := range report.SharedNext {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		for _, target := range targets {
			fmt.Printf("  %s <- %s\n", target, strings.Join(report.SharedNext[target], ", "))
		}
	}
	fmt.Println("  run: syllabus order repair")
}
