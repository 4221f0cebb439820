package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/emshower/internal/material"
)

// ValidationIssue is one problem found in a catalog.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Materials []string          `json:"materials,omitempty"`
	Errors    []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a CUE material catalog",
		Long: `Check every .cue file in a directory against the material schema and
list the materials it declares.

Exits with 1 if the catalog is invalid and 2 if the directory cannot be
read.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cat, loadErrors := material.Load(dir)
	if len(loadErrors) > 0 {
		issues := make([]ValidationIssue, 0, len(loadErrors))
		for _, err := range loadErrors {
			issues = append(issues, toValidationIssue(err))
		}
		if issues[0].Code == material.ErrCodeNotFound {
			return outputValidateError(formatter, issues[0].Code, issues[0].Message)
		}
		return outputValidationErrors(formatter, issues)
	}

	result := ValidationResult{Valid: true}
	for _, m := range cat.Materials() {
		formatter.VerboseLog("Validated material: %s", m.Name)
		result.Materials = append(result.Materials, m.Name)
	}

	return formatter.Emit(result, func(w io.Writer) error {
		fmt.Fprintf(w, "✓ Catalog valid (%d materials)\n", len(result.Materials))
		return nil
	})
}

func toValidationIssue(err error) ValidationIssue {
	var loadErr *material.LoadError
	if !errors.As(err, &loadErr) {
		return ValidationIssue{Code: "E001", Message: err.Error()}
	}
	issue := ValidationIssue{Code: loadErr.Code, Message: loadErr.Message}
	if loadErr.Pos.IsValid() {
		issue.File = loadErr.Pos.Filename()
		issue.Line = loadErr.Pos.Line()
	}
	return issue
}

// outputValidateError outputs a single error that prevented validation.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs every problem found in the catalog.
func outputValidationErrors(formatter *OutputFormatter, issues []ValidationIssue) error {
	failed := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return failed
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s line %d\n", issue.File, issue.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}
	return failed
}
