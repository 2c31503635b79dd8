package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
database:
  sqlite_path: /tmp/test.db
data:
  dir: testdata
  states: [VA, WV]
  years: [2010]
report:
  top_counties: 5
watch:
  cron: "0 30 7 * * *"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
	assert.Equal(t, "testdata", cfg.Data.Dir)
	assert.Equal(t, []string{"VA", "WV"}, cfg.Data.States)
	assert.Equal(t, []int{2010}, cfg.Data.Years)
	assert.Equal(t, 5, cfg.Report.TopCounties)
	assert.Equal(t, "0 30 7 * * *", cfg.Watch.Cron)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, []string{"VA", "WV", "KY", "TN", "NC"}, cfg.Data.States)
	assert.Equal(t, []int{2009, 2010, 2011}, cfg.Data.Years)
	assert.Equal(t, 15, cfg.Report.TopCounties)
	assert.NotEmpty(t, cfg.Watch.Cron)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SQLITE_PATH", "/tmp/env.db")
	t.Setenv("DATA_STATES", "KY, TN")
	t.Setenv("DATA_YEARS", "2011,2012")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.Database.SQLitePath)
	assert.Equal(t, []string{"KY", "TN"}, cfg.Data.States)
	assert.Equal(t, []int{2011, 2012}, cfg.Data.Years)
}

func TestLoad_BadYearEnv(t *testing.T) {
	t.Setenv("DATA_YEARS", "twenty-ten")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_ImplausibleYear(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Data.Years = []int{1776}
	assert.Error(t, cfg.Validate())
}

func TestLoadScenario_DefaultsAndInheritance(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
name: smoothing
endowment:
  income2: 100
agent_types:
  - name: cautious
    preferences: {sigma: 3, beta: 0.95}
  - name: bold
    preferences: {sigma: 1, beta: 0.95}
    weight: 2
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "smoothing", sc.Name)
	assert.Equal(t, 2.0, sc.Preferences.Sigma)
	assert.Equal(t, 0.95, sc.Preferences.Beta)
	assert.Equal(t, 1.05, sc.Endowment.GrossReturn)
	assert.Equal(t, 100.0, sc.Endowment.M1)
	assert.Equal(t, 100.0, sc.Endowment.Income2)

	require.Len(t, sc.AgentTypes, 2)
	assert.Equal(t, 1.05, sc.AgentTypes[0].Endow.GrossReturn, "agent types inherit the baseline return")
	assert.Equal(t, 100.0, sc.AgentTypes[0].Endow.M1)
	assert.Equal(t, 1.0, sc.AgentTypes[0].Weight, "weight defaults to 1")
	assert.Equal(t, 2.0, sc.AgentTypes[1].Weight)
}

func TestLoadScenario_RejectsInvalidParameters(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
name: broken
preferences: {sigma: -2, beta: 0.95}
`)
	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestLoadScenario_RejectsBadIncomeProcess(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
name: broken
income_process:
  states:
    - {income: 50, prob: 0.5}
    - {income: 150, prob: 0.4}
`)
	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
