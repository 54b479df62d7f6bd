package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 19, cfg.Variants)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Len(t, cfg.Tables.ConditionHeaders, 12)
	assert.Len(t, cfg.Tables.Tolerance, 12)
	assert.Len(t, cfg.Tables.AlloyCategories, 9)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Variants, cfg.Variants)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "offertpipe.toml")
	content := `
input_dir = "incoming"
variants = 4
seed = 42

[tables.buckets]
volume = 2000
length = 10
mass_low = 1
mass_high = 2
tooling = 1

[tables.tolerance."HOUSE STD"]
linear_tol = 0.2
angular_tol = 0.6
flatness = 0.25
gd_t_index = 2.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "incoming", cfg.InputDir)
	assert.Equal(t, 4, cfg.Variants)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, float64(2000), cfg.Tables.Buckets.Volume)

	// New tolerance rows merge alongside the built-in ones.
	row, ok := cfg.Tables.Tolerance["HOUSE STD"]
	require.True(t, ok)
	assert.Equal(t, 0.2, row.LinearTol)
	_, ok = cfg.Tables.Tolerance["ISO 2768-m"]
	assert.True(t, ok)
}

func TestValidate_RejectsMissingDefaultToleranceRow(t *testing.T) {
	cfg := Default()
	delete(cfg.Tables.Tolerance, ToleranceDefault)
	assert.Error(t, cfg.Validate())
}

func TestStageDirs(t *testing.T) {
	cfg := Default()
	cfg.WorkDir = "work"

	assert.Equal(t, filepath.Join("work", "txt"), cfg.TxtDir())
	assert.Equal(t, filepath.Join("work", "json_variants"), cfg.VariantDir())
	assert.Equal(t, filepath.Join("work", "processed_quotes.csv"), cfg.DatasetCSV())
}
