package cmd

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentdesk/agent-scheduler/cli/client"
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in the system",
	Run: func(cmd *cobra.Command, args []string) {
		cli := client.NewClient(viper.GetString("api_url"))

		tasks, err := cli.ListTasks()
		if err != nil {
			log.Fatalf("Failed to list tasks: %v", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tPRIORITY\tSTATUS\tWORKER\tCREATED AT")
		for _, task := range tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				task.ID, task.Type, task.Priority, task.Status, task.WorkerID,
				task.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		w.Flush()
	},
}

func init() {
	taskCmd.AddCommand(taskListCmd)
}
