package course

import (
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/models"
)

// CourseCmd returns the course parent command
func CourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(AddCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

func courseToMap(c *models.Course) map[string]interface{} {
	return map[string]interface{}{
		"id":            c.ID,
		"title":         c.Title,
		"instructor":    c.Instructor,
		"order_index":   c.OrderIndex,
		"next_id":       c.NextID,
		"display_order": c.DisplayOrder,
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
	}
}
