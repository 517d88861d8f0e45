package course

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/cli"
	"github.com/thenoetrevino/syllabus/internal/models"
)

// UpdateCmd returns the course update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a course",
		Long: `Update a course's title, instructor or legacy order index.
The course keeps its position in the chain.

Examples:
  syllabus course update --id=<course-id> --title="Linear Algebra"
  syllabus course update --id=<course-id> --instructor="Artin" --json
`,
		RunE: runUpdate,
	}

	// Required flags
	cmd.Flags().String("id", "", "Course ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Optional flags (at least one required)
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("instructor", "", "New instructor")
	cmd.Flags().Int("order-index", 0, "New legacy order index")

	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	id, _ := cmd.Flags().GetString("id")

	var update models.CourseUpdate
	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		update.Title = &title
	}
	if cmd.Flags().Changed("instructor") {
		instructor, _ := cmd.Flags().GetString("instructor")
		update.Instructor = &instructor
	}
	if cmd.Flags().Changed("order-index") {
		orderIndex, _ := cmd.Flags().GetInt("order-index")
		update.OrderIndex = &orderIndex
	}

	if update.IsEmpty() {
		return cli.Usage(formatter, "NO_UPDATES",
			fmt.Errorf("at least one of --title, --instructor or --order-index must be specified"),
			"syllabus course update --id=<course-id> --title=\"New title\"")
	}

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	updated, err := cliInstance.App.CourseService.UpdateCourse(ctx, id, update)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.WriteJSON(map[string]interface{}{
			"success": true,
			"course":  courseToMap(updated),
		})
	}

	fmt.Printf("✓ Course %s updated successfully\n", updated.ID)
	fmt.Printf("  Title: %s\n", updated.Title)
	if updated.Instructor != "" {
		fmt.Printf("  Instructor: %s\n", updated.Instructor)
	}
	return nil
}
