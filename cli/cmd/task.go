package cmd

import "github.com/spf13/cobra"

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks in the scheduler",
	Long:  `The task command provides tools to submit, list, inspect and cancel tasks on the agent scheduler.`,
}

func init() {
	rootCmd.AddCommand(taskCmd)
}
