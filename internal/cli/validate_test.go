package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emshower/internal/material"
)

func TestValidate_ValidCatalog(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "../material/testdata/catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Catalog valid (2 materials)")
}

func TestValidate_ValidCatalogJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), "../material/testdata/catalog")
	require.NoError(t, err)

	var got ValidationResult
	decodeData(t, out, &got)
	assert.True(t, got.Valid)
	assert.ElementsMatch(t, []string{"Lead glass", "Water"}, got.Materials)
	assert.Empty(t, got.Errors)
}

func TestValidate_ConstraintViolation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cue"), []byte(`material: Vacuum: {
	critical_electron: 10
	critical_positron: 10
	loss_per_x0:       1
	radiation_length:  0
}
`), 0644))

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), dir)
	requireExitCode(t, err, ExitFailure)
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, material.ErrCodeConstraint)
	assert.Contains(t, out, " line ")
}

func TestValidate_SyntaxErrorJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.cue"), []byte("material: {\n"), 0644))

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), dir)
	requireExitCode(t, err, ExitFailure)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.NotEmpty(t, resp.Data.Errors)
	assert.Equal(t, material.ErrCodeSyntax, resp.Error.Code)
	assert.Equal(t, material.ErrCodeSyntax, resp.Data.Errors[0].Code)
}

func TestValidate_MissingDirectory(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/catalog")
	requireExitCode(t, err, ExitCommandError)
	assert.Contains(t, out, "Error [E005]")
}

func TestValidate_EmptyDirectory(t *testing.T) {
	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	requireExitCode(t, err, ExitFailure)
	assert.Contains(t, err.Error(), "validation failed with 1 error(s)")
}
