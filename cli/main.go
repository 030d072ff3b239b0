package main

import "github.com/agentdesk/agent-scheduler/cli/cmd"

func main() {
	cmd.Execute()
}
