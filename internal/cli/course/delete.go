package course

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/cli"
	"github.com/thenoetrevino/syllabus/internal/models"
)

// DeleteCmd returns the course delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a course",
		Long: `Delete a course by ID (requires confirmation unless --force or --quiet).

Deleting a course that does not exist succeeds.

Examples:
  # Delete with confirmation
  syllabus course delete --id=<course-id>

  # Skip confirmation
  syllabus course delete --id=<course-id> --force
`,
		RunE: runDelete,
	}

	// Required flags
	cmd.Flags().String("id", "", "Course ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Optional flags
	cmd.Flags().Bool("force", false, "Skip confirmation")

	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	id, _ := cmd.Flags().GetString("id")
	force, _ := cmd.Flags().GetBool("force")

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	service := cliInstance.App.CourseService

	// Ask for confirmation unless force, quiet or JSON mode
	if !force && !formatter.Quiet && !formatter.JSON {
		course, err := service.GetCourse(ctx, id)
		switch {
		case errors.Is(err, models.ErrCourseNotFound):
			fmt.Printf("Course %s does not exist, nothing to delete\n", id)
			return nil
		case err != nil:
			return cli.Fail(formatter, err)
		}

		fmt.Printf("Delete course '%s' (%s)? (y/N): ", course.Title, id)
		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			log.Printf("Error reading user input: %v", err)
		}
		if strings.ToLower(response) != "y" && strings.ToLower(response) != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := service.DeleteCourse(ctx, id); err != nil {
		return cli.Fail(formatter, err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.WriteJSON(map[string]interface{}{
			"success":   true,
			"course_id": id,
		})
	}

	fmt.Printf("✓ Course %s deleted successfully\n", id)
	return nil
}
