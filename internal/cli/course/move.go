package course

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/cli"
)

// MoveCmd returns the course move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a course",
		Long: `Move a course directly after another course, or to the front.

Moving a course after itself or after its current predecessor changes
nothing.

Examples:
  # Move after another course
  syllabus course move --id=<course-id> --after=<other-id>

  # Move to the front
  syllabus course move --id=<course-id> --first
`,
		RunE: runMove,
	}

	// Required flags
	cmd.Flags().String("id", "", "Course ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Exactly one destination
	cmd.Flags().String("after", "", "Place the course after this course ID")
	cmd.Flags().Bool("first", false, "Place the course first")
	cmd.MarkFlagsMutuallyExclusive("after", "first")

	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	id, _ := cmd.Flags().GetString("id")
	afterID, _ := cmd.Flags().GetString("after")
	first, _ := cmd.Flags().GetBool("first")

	if afterID == "" && !first {
		return cli.Usage(formatter, "NO_DESTINATION",
			errors.New("one of --after or --first must be specified"),
			"syllabus course move --id=<course-id> --first")
	}

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	service := cliInstance.App.CourseService
	if first {
		err = service.MoveToFirst(ctx, id)
	} else {
		err = service.MoveCourse(ctx, id, afterID)
	}
	if err != nil {
		return cli.Fail(formatter, err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return formatter.WriteJSON(map[string]interface{}{
			"success":   true,
			"course_id": id,
			"after_id":  afterID,
			"first":     first,
		})
	}

	if first {
		fmt.Printf("✓ Course %s moved to the front\n", id)
	} else {
		fmt.Printf("✓ Course %s moved after %s\n", id, afterID)
	}
	return nil
}
