package course

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/cli"
	courseservice "github.com/thenoetrevino/syllabus/internal/services/course"
)

// AddCmd returns the course add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a course",
		Long: `Add a course to the chain.

Without --after the course becomes the first course.

Examples:
  # Add as first course (human-readable output)
  syllabus course add --title="Algebra" --instructor="Noether"

  # Add after another course
  syllabus course add --title="Topology" --after=<course-id>

  # Quiet mode for bash capture
  COURSE_ID=$(syllabus course add --title="Algebra" --quiet)
`,
		RunE: runAdd,
	}

	// Required flags
	cmd.Flags().String("title", "", "Course title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Optional flags
	cmd.Flags().String("instructor", "", "Instructor name")
	cmd.Flags().String("after", "", "Insert after course ID (empty = insert first)")
	cmd.Flags().String("id", "", "Course ID (generated when empty)")
	cmd.Flags().Int("order-index", 0, "Legacy order index")

	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)

	req := courseservice.InsertCourseRequest{}
	req.Title, _ = cmd.Flags().GetString("title")
	req.Instructor, _ = cmd.Flags().GetString("instructor")
	req.AfterID, _ = cmd.Flags().GetString("after")
	req.ID, _ = cmd.Flags().GetString("id")
	if cmd.Flags().Changed("order-index") {
		orderIndex, _ := cmd.Flags().GetInt("order-index")
		req.OrderIndex = &orderIndex
	}

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	created, err := cliInstance.App.CourseService.InsertCourse(ctx, req)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	if formatter.Quiet {
		fmt.Println(created.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.WriteJSON(map[string]interface{}{
			"success": true,
			"course":  courseToMap(created),
		})
	}

	fmt.Printf("✓ Course '%s' added (ID: %s)\n", created.Title, created.ID)
	if req.AfterID != "" {
		fmt.Printf("  After: %s\n", req.AfterID)
	} else {
		fmt.Println("  Position: first")
	}
	return nil
}
