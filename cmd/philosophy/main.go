// Philosophy: a workflow-enforcing MCP server for AI coding assistants.
//
// It guards a project against the failure modes of AI-generated code:
// criteria written after the fact, duplicated components, hallucinated
// function signatures, and undocumented changes. State lives in the
// project's .philosophy directory, so the workflow survives restarts.
//
// Usage:
//
//	philosophy serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"os"

	philserver "github.com/UniversInsideG/claude-tools/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("philosophy v%s\n", philserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := philserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Println(`philosophy - workflow enforcement for AI coding assistants

Usage:
  philosophy serve      Start the MCP server (stdio transport)
  philosophy version    Print the version
  philosophy help       Show this help

Register the server with your AI coding tool, e.g. for Claude Code:

  claude mcp add philosophy -- philosophy serve

Environment:
  PHILOSOPHY_OVERRIDE_MARKERS   Comma-separated human-approval phrases
                                accepted in override justifications.`)
}
