package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specgrowth/specgrowth/pkg/pipeline"
	"github.com/specgrowth/specgrowth/pkg/results"
	"github.com/specgrowth/specgrowth/pkg/specfile"
	"github.com/specgrowth/specgrowth/pkg/specindex"
)

// Tool name constants.
const (
	ToolNameCount = "specgrowth_count"
	ToolNameTable = "specgrowth_table"
	ToolNameIndex = "specgrowth_index"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyRepoPath indicates the repo_path parameter is empty.
	ErrEmptyRepoPath = errors.New("repo_path parameter is required and must not be empty")
	// ErrEmptyOutputPath indicates the output parameter is empty.
	ErrEmptyOutputPath = errors.New("output parameter is required and must not be empty")
	// ErrEmptyTablePath indicates the table parameter is empty.
	ErrEmptyTablePath = errors.New("table parameter is required and must not be empty")
	// ErrEmptyTreePath indicates the path parameter is empty.
	ErrEmptyTreePath = errors.New("path parameter is required and must not be empty")
	// ErrPathNotAbsolute indicates a path parameter is not absolute.
	ErrPathNotAbsolute = errors.New("path must be absolute")
)

// Input types (auto-generate JSON schemas via struct tags).

// CountInput is the input schema for the specgrowth_count tool.
type CountInput struct {
	RepoPath   string   `json:"repo_path"             jsonschema:"absolute path to a Git repository"`
	Output     string   `json:"output"                jsonschema:"absolute path of the CSV results table to append to"`
	MaxCommits int      `json:"max_commits,omitempty" jsonschema:"keep only the most recent N weekly samples (default: all)"`
	Since      string   `json:"since,omitempty"       jsonschema:"only sample commits after this time (e.g. 720h or 2024-01-01)"`
	SkipDirs   []string `json:"skip_dirs,omitempty"   jsonschema:"directory names excluded from classification"`
}

// TableInput is the input schema for the specgrowth_table tool.
type TableInput struct {
	Table string `json:"table" jsonschema:"absolute path of a CSV results table"`
}

// IndexInput is the input schema for the specgrowth_index tool.
type IndexInput struct {
	Path     string   `json:"path"                jsonschema:"absolute path of a working tree to index"`
	SkipDirs []string `json:"skip_dirs,omitempty" jsonschema:"directory names excluded from classification"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func validateAbsolute(path string, emptyErr error) error {
	if path == "" {
		return emptyErr
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", ErrPathNotAbsolute, path)
	}

	return nil
}

// handleCount processes specgrowth_count tool calls.
func handleCount(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input CountInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateAbsolute(input.RepoPath, ErrEmptyRepoPath); err != nil {
		return errorResult(err)
	}

	if err := validateAbsolute(input.Output, ErrEmptyOutputPath); err != nil {
		return errorResult(err)
	}

	opts := pipeline.Options{
		OutputPath: input.Output,
		MaxCommits: input.MaxCommits,
		Since:      input.Since,
		Classifier: specfile.NewClassifier(nil, input.SkipDirs),
	}

	summary, err := pipeline.Run(input.RepoPath, opts)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(summary)
}

// handleTable processes specgrowth_table tool calls.
func handleTable(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input TableInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateAbsolute(input.Table, ErrEmptyTablePath); err != nil {
		return errorResult(err)
	}

	if _, statErr := os.Stat(input.Table); statErr != nil {
		return errorResult(fmt.Errorf("table: %w", statErr))
	}

	table, err := results.Load(input.Table)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(table.Rows)
}

// handleIndex processes specgrowth_index tool calls.
func handleIndex(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input IndexInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateAbsolute(input.Path, ErrEmptyTreePath); err != nil {
		return errorResult(err)
	}

	entries, err := specindex.ScanDir(
		input.Path,
		specfile.NewClassifier(nil, input.SkipDirs),
		pipeline.DefaultCommentPrefix,
		nil,
	)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(entries)
}
