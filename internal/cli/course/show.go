package course

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/cli"
	"github.com/thenoetrevino/syllabus/internal/cli/styles"
)

// ShowCmd returns the course show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a course",
		Long: `Show a single course with its chain pointer.

Examples:
  syllabus course show --id=7f9c...
  syllabus course show --id=7f9c... --json
`,
		RunE: runShow,
	}

	cmd.Flags().String("id", "", "Course ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFor(cmd)
	id, _ := cmd.Flags().GetString("id")

	cliInstance, err := cli.Open(ctx, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(cliInstance)

	c, err := cliInstance.App.CourseService.GetCourse(ctx, id)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	if formatter.Quiet {
		fmt.Println(c.ID)
		return nil
	}

	if formatter.JSON {
		return formatter.WriteJSON(map[string]interface{}{
			"success": true,
			"course":  courseToMap(c),
		})
	}

	next := "(end of chain)"
	if c.NextID != nil {
		next = *c.NextID
	}
	orderIndex := "(none)"
	if c.OrderIndex != nil {
		orderIndex = fmt.Sprintf("%d", *c.OrderIndex)
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(c.Title) + "\n")
	b.WriteString(styles.SubtitleStyle.Render(c.ID) + "\n\n")
	b.WriteString(styles.RenderField("Instructor", c.Instructor) + "\n")
	b.WriteString(styles.RenderField("Next", next) + "\n")
	b.WriteString(styles.RenderField("Order index", orderIndex) + "\n")
	b.WriteString(styles.RenderField("Updated", c.UpdatedAt.Format("2006-01-02 15:04")))

	fmt.Println(styles.RenderCard(b.String()))
	return nil
}
