// Philosophy-hooks: the lifecycle hook companion to the philosophy MCP
// server.
//
// Wire it into the assistant's hook configuration; it reads one hook
// event as JSON on stdin and writes the response on stdout. The
// reminders it injects nudge the assistant back into the workflow at
// session start, on code-intent prompts, before file writes, and when
// a turn ends.
package main

import (
	"fmt"
	"os"

	"github.com/UniversInsideG/claude-tools/internal/hooks"
)

func main() {
	if err := hooks.Run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "philosophy-hooks: %v\n", err)
		os.Exit(1)
	}
}
