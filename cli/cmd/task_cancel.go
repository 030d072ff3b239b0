package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentdesk/agent-scheduler/cli/client"
)

var taskCancelCmd = &cobra.Command{
	Use:   "cancel [TASK_ID]",
	Short: "Cancel a pending task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli := client.NewClient(viper.GetString("api_url"))

		cancelled, err := cli.CancelTask(args[0])
		if err != nil {
			log.Fatalf("Failed to cancel task: %v", err)
		}

		if cancelled {
			fmt.Printf("Task %s cancelled.\n", args[0])
		} else {
			fmt.Printf("Task %s was not cancelled; only pending tasks can be cancelled.\n", args[0])
		}
	},
}

func init() {
	taskCmd.AddCommand(taskCancelCmd)
}
