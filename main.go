package main

import "github.com/karolswdev/jira-mcp-server/cmd"

func main() {
	cmd.Execute()
}
