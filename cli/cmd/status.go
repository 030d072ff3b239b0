package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentdesk/agent-scheduler/cli/client"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the scheduler's system status and worker workloads",
	Run: func(cmd *cobra.Command, args []string) {
		cli := client.NewClient(viper.GetString("api_url"))

		status, err := cli.GetSystemStatus()
		if err != nil {
			log.Fatalf("Failed to get system status: %v", err)
		}

		fmt.Println("--- Scheduler Summary ---")
		summaryTable := tablewriter.NewWriter(os.Stdout)
		summaryTable.SetHeader([]string{"Metric", "Value"})
		summaryTable.Append([]string{"Total Tasks", fmt.Sprintf("%d", status.TotalTasks)})
		summaryTable.Append([]string{"Running Tasks", fmt.Sprintf("%d", status.RunningTasks)})
		summaryTable.Append([]string{"Queued Tasks", fmt.Sprintf("%d", status.QueuedTasks)})
		summaryTable.Append([]string{"Global Concurrency Limit", fmt.Sprintf("%d", status.MaxGlobalConcurrency)})
		summaryTable.Append([]string{"Uptime", status.Uptime.String()})
		summaryTable.Render()
		fmt.Println()

		if len(status.Workloads) == 0 {
			fmt.Println("No workers are registered with the system.")
			return
		}

		fmt.Println("--- Worker Details ---")
		workerTable := tablewriter.NewWriter(os.Stdout)
		workerTable.SetHeader([]string{"Worker ID", "Running", "Max", "Load"})
		for _, w := range status.Workloads {
			workerTable.Append([]string{
				w.WorkerID,
				fmt.Sprintf("%d", len(w.CurrentTasks)),
				fmt.Sprintf("%d", w.MaxConcurrentTasks),
				fmt.Sprintf("%.0f%%", w.CurrentLoad*100),
			})
		}
		workerTable.Render()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
