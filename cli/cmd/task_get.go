package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentdesk/agent-scheduler/cli/client"
)

var taskGetCmd = &cobra.Command{
	Use:   "get [TASK_ID]",
	Short: "Get detailed information about a single task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli := client.NewClient(viper.GetString("api_url"))

		task, err := cli.GetTask(args[0])
		if err != nil {
			log.Fatalf("Failed to get task: %v", err)
		}

		fmt.Printf("--- Task Details: %s ---\n", task.ID)
		fmt.Printf("Type:\t\t%s\n", task.Type)
		fmt.Printf("Status:\t\t%s\n", task.Status)
		fmt.Printf("Priority:\t%s\n", task.Priority)
		fmt.Printf("Created At:\t%s\n", task.CreatedAt.Format(time.RFC1123))

		if task.Description != "" {
			fmt.Printf("Description:\t%s\n", task.Description)
		}
		if len(task.Dependencies) > 0 {
			fmt.Printf("Depends On:\t%s\n", strings.Join(task.Dependencies, ", "))
		}
		if task.WorkerID != "" {
			fmt.Printf("Worker ID:\t%s\n", task.WorkerID)
		}
		if task.StartedAt != nil {
			fmt.Printf("Started At:\t%s\n", task.StartedAt.Format(time.RFC1123))
		}
		if task.CompletedAt != nil {
			fmt.Printf("Completed At:\t%s\n", task.CompletedAt.Format(time.RFC1123))
		}
		if task.Error != "" {
			fmt.Printf("Error:\t\t%s\n", task.Error)
		}
		if task.Result != nil {
			result, _ := json.MarshalIndent(task.Result, "", "  ")
			fmt.Printf("Result:\n%s\n", string(result))
		}
	},
}

func init() {
	taskCmd.AddCommand(taskGetCmd)
}
