// Package hooks implements the lifecycle reminder hook: it reads one
// JSON event envelope from stdin, decides whether a philosophy reminder
// applies, and writes a JSON response to stdout.
//
// Hooks only remind. They never block the assistant; every response
// carries Continue true, and events with nothing to say get an empty
// system message.
package hooks

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Envelope is the hook event as delivered on stdin.
type Envelope struct {
	HookEventName string    `json:"hook_event_name"`
	UserPrompt    string    `json:"user_prompt,omitempty"`
	ToolName      string    `json:"tool_name,omitempty"`
	ToolInput     ToolInput `json:"tool_input,omitempty"`
}

// ToolInput carries the subset of tool arguments the hook inspects.
type ToolInput struct {
	FilePath  string `json:"file_path,omitempty"`
	Content   string `json:"content,omitempty"`
	NewString string `json:"new_string,omitempty"`
}

// Response is written to stdout. Continue is always true.
type Response struct {
	SystemMessage string `json:"systemMessage,omitempty"`
	Continue      bool   `json:"continue"`
}

const (
	sessionStartMessage = "Philosophy reminder: before writing any code, define success criteria, " +
		"state the single responsibility, and search the project for existing code and documents. " +
		"The philosophy tools walk you through each step."

	codeIntentMessage = "This prompt looks like a code change. Start with philosophy_define_criteria " +
		"and work through the steps in order; the tools will refuse out-of-order calls."

	preWriteMessage = "About to create or modify code. If the workflow steps are not complete, " +
		"stop and run them first: criteria, responsibility, reuse, search, inheritance, level, " +
		"dependencies, validation."

	postWriteMessage = "Code was just written. Check it against the verified dependencies and " +
		"run philosophy_validate_code on the file before moving on."

	stopMessage = "Before finishing: run philosophy_validate_code on changed files and " +
		"philosophy_document_creation to record the change in the changelog."
)

// codeIntentKeywords mark a user prompt as a likely code change.
var codeIntentKeywords = []string{
	"create", "add", "implement", "build", "write", "fix", "refactor",
	"rename", "extract", "new class", "new scene", "new script", "new component",
}

// codeExtensions are the file types the pre-write reminder covers.
var codeExtensions = map[string]bool{
	".gd":   true,
	".tscn": true,
	".py":   true,
	".php":  true,
	".js":   true,
	".ts":   true,
}

// ignoredBasenames never trigger reminders even with a code extension
// elsewhere in the project; these are config and documentation edits.
var ignoredBasenames = []string{
	"readme", "changelog", "license", "contributing",
}

// Process maps one event to its response.
func Process(env Envelope) Response {
	resp := Response{Continue: true}

	switch env.HookEventName {
	case "SessionStart":
		resp.SystemMessage = sessionStartMessage
	case "UserPromptSubmit":
		if hasCodeIntent(env.UserPrompt) {
			resp.SystemMessage = codeIntentMessage
		}
	case "PreToolUse":
		if isCodeWrite(env.ToolName, env.ToolInput) {
			resp.SystemMessage = preWriteMessage
		}
	case "PostToolUse":
		if isCodeWrite(env.ToolName, env.ToolInput) {
			resp.SystemMessage = postWriteMessage
		}
	case "Stop":
		resp.SystemMessage = stopMessage
	}
	return resp
}

// Run reads one envelope from r and writes the response to w. Malformed
// input still produces a valid continue-response, so a broken hook
// never wedges the assistant.
func Run(r io.Reader, w io.Writer) error {
	var env Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		if encErr := json.NewEncoder(w).Encode(Response{Continue: true}); encErr != nil {
			return fmt.Errorf("writing fallback response: %w", encErr)
		}
		return fmt.Errorf("decoding hook event: %w", err)
	}
	if err := json.NewEncoder(w).Encode(Process(env)); err != nil {
		return fmt.Errorf("writing hook response: %w", err)
	}
	return nil
}

// hasCodeIntent reports whether a prompt reads like a request to change
// code.
func hasCodeIntent(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, kw := range codeIntentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// isCodeWrite reports whether the tool call writes a source file worth
// reminding about.
func isCodeWrite(toolName string, input ToolInput) bool {
	if toolName != "Write" && toolName != "Edit" {
		return false
	}
	if input.FilePath == "" {
		return false
	}
	if !codeExtensions[strings.ToLower(filepath.Ext(input.FilePath))] {
		return false
	}
	base := strings.ToLower(filepath.Base(input.FilePath))
	for _, ignored := range ignoredBasenames {
		if strings.HasPrefix(base, ignored) {
			return false
		}
	}
	return true
}
