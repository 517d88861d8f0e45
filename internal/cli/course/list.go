package course

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/app"
	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/cli"
	"github.com/thenoetrevino/syllabus/internal/cli/styles"
	"github.com/thenoetrevino/syllabus/internal/events"
)

// ListCmd returns the course list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses in display order",
		Long: `List all courses in the order of the course chain.

When no chain has been built yet, courses are listed by their legacy
order index instead.

Examples:
  # Human-readable list
  syllabus course list

  # JSON output for agents
  syllabus course list --json

  # Quiet mode (one ID per line)
  syllabus course list --quiet

  # Print the list again whenever it changes, until interrupted
  syllabus course list --watch
`,
		RunE: runList,
	}

	cli.AddOutputFlags(cmd, "Minimal output (IDs only)")
	cmd.Flags().Bool("watch", false, "Print the list again after every change, including changes by other processes")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchList(ctx, cliInstance.App, formatter)
	}
	return renderList(ctx, cliInstance.App, formatter)
}

// watchList renders the list, then renders it again for every batch of change
// events until ctx is done or the process is interrupted
func watchList(ctx context.Context, a *app.App, formatter *cli.OutputFormatter) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Subscribe before the first render so no change is missed
	updates, err := a.Watch(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	if err := renderList(ctx, a, formatter); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case _, ok := <-updates:
			if !ok || !drain(updates) {
				return nil
			}
			if !formatter.JSON && !formatter.Quiet {
				fmt.Println()
				fmt.Println(styles.SubtitleStyle.Render("updated " + time.Now().Format(time.TimeOnly)))
			}
			if err := renderList(ctx, a, formatter); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// drain discards queued events so a burst of changes renders once.
// It reports false when the channel is closed.
func drain(updates <-chan events.Event) bool {
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}

func renderList(ctx context.Context, a *app.App, formatter *cli.OutputFormatter) error {
	result, err := a.CourseService.GetOrderedCourses(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	// Output based on mode
	if formatter.Quiet {
		for _, c := range result.Courses {
			fmt.Println(c.ID)
		}
		return nil
	}

	if formatter.JSON {
		courseList := make([]map[string]interface{}, len(result.Courses))
		for i, c := range result.Courses {
			courseList[i] = courseToMap(c)
		}
		return formatter.WriteJSON(map[string]interface{}{
			"success":     true,
			"mode":        result.Mode,
			"total":       result.Total,
			"complete":    result.Complete(),
			"unreachable": result.Unreachable,
			"courses":     courseList,
		})
	}

	// Human-readable output
	if result.Total == 0 {
		fmt.Println("No courses found")
		return nil
	}

	fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("Courses (%d)", len(result.Courses))))
	for _, c := range result.Courses {
		fmt.Println(styles.RenderCourseLine(c))
	}

	if result.Mode == chain.ModeLegacy {
		fmt.Println()
		fmt.Println(styles.WarningStyle.Render("legacy order") + " no course chain yet, run: syllabus order rebuild")
	}
	if !result.Complete() {
		fmt.Println()
		fmt.Println(styles.WarningStyle.Render("incomplete") +
			fmt.Sprintf(" showing %d of %d courses, run: syllabus order repair", len(result.Courses), result.Total))
	}
	return nil
}
