package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"charscan/internal/config"
	"charscan/internal/dsid"
	"charscan/internal/outputs"
	"charscan/internal/testsupport"
)

const toyID = "toy.m1.hist.r1.v1.tas"

// okExtractor prints a fixed character record.
const okExtractor = `printf '{"variable": {"var_id": "tas"}, "files": 1}'`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedExtractor(okExtractor)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "charscan.toml")
	writeTestConfig(t, configPath, cfg)
	testsupport.MustMkdir(t, cfg.Projects[testsupport.ToyProject].BaseDir)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

// addDataset creates the archive directory of id with one data file.
func (e *cliTestEnv) addDataset(t *testing.T, id string) string {
	t.Helper()

	p := testsupport.MustProject(t, e.cfg, testsupport.ToyProject)
	dir := p.Path(dsid.MustParse(id))
	testsupport.WriteDataFiles(t, dir, "tas_1850-1900.nc")
	return dir
}

func (e *cliTestEnv) layout(t *testing.T, id string) outputs.Paths {
	t.Helper()

	p := testsupport.MustProject(t, e.cfg, testsupport.ToyProject)
	paths, err := outputs.Layout(p, dsid.MustParse(id))
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	return paths
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}
