package cmd

import (
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/cli/course"
	"github.com/thenoetrevino/syllabus/internal/cli/order"
)

var rootCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Syllabus - ordered course lists",
	Long: `Syllabus keeps courses in a user-defined order stored as a linked
chain of next pointers, with a legacy order index as fallback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(course.CourseCmd())
	rootCmd.AddCommand(order.OrderCmd())
}

func Execute() error {
	return rootCmd.Execute()
}
