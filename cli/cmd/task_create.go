package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentdesk/agent-scheduler/cli/client"
	"github.com/agentdesk/agent-scheduler/internal/models"
)

var (
	taskType        string
	taskDescription string
	taskPayload     string
	taskPriority    string
	taskDeps        []string
)

var taskCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Submit a new task",
	Example: `agentctl task create --type research --priority high --payload '{"topic": "scheduling"}'`,
	Run: func(cmd *cobra.Command, args []string) {
		cli := client.NewClient(viper.GetString("api_url"))

		var payload map[string]interface{}
		if taskPayload != "" {
			if err := json.Unmarshal([]byte(taskPayload), &payload); err != nil {
				log.Fatalf("Error: --payload is not valid JSON: %v", err)
			}
		}

		task, err := cli.CreateTask(client.CreateTaskRequest{
			Type:         taskType,
			Description:  taskDescription,
			Payload:      payload,
			Priority:     models.TaskPriority(taskPriority),
			Dependencies: taskDeps,
		})
		if err != nil {
			log.Fatalf("Failed to create task: %v", err)
		}

		fmt.Printf("Task %s submitted (priority %s, status %s)\n", task.ID, task.Priority, task.Status)
	},
}

func init() {
	taskCmd.AddCommand(taskCreateCmd)

	taskCreateCmd.Flags().StringVarP(&taskType, "type", "t", "", "Task type tag (required)")
	taskCreateCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Human-readable description")
	taskCreateCmd.Flags().StringVarP(&taskPayload, "payload", "p", "", "Task payload as a JSON object")
	taskCreateCmd.Flags().StringVar(&taskPriority, "priority", "", "Priority: low, medium, high or urgent")
	taskCreateCmd.Flags().StringSliceVar(&taskDeps, "depends-on", nil, "Task ids that must complete first")

	taskCreateCmd.MarkFlagRequired("type")
}
