package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestScanCommandWritesRecordAndMarker(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addDataset(t, toyID)

	out, _, err := runCLI(t, env.configPath, "scan", "-p", "toy", "-d", toyID)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	requireContains(t, out, "Completed job. Failure count = 0. Percentage failed = 0%")

	paths := env.layout(t, toyID)
	requireExists(t, paths.Success)
	data, err := os.ReadFile(paths.JSON)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if _, ok := record["variable"]; !ok {
		t.Fatalf("record missing variable key: %s", data)
	}
}

func TestScanCommandCountsFailuresButSucceeds(t *testing.T) {
	env := setupCLITestEnv(t)

	out, logs, err := runCLI(t, env.configPath, "scan", "--project", "TOY", "--dataset-ids", toyID)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	requireContains(t, out, "Failure count = 1. Percentage failed = 100%")
	requireContains(t, logs, "dataset scan failed")

	marker, err := os.ReadFile(env.layout(t, toyID).NoFiles)
	if err != nil {
		t.Fatalf("read no-files marker: %v", err)
	}
	if !strings.Contains(string(marker), "No .nc files found") {
		t.Fatalf("unexpected marker content: %q", marker)
	}
}

func TestScanCommandExtractorFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addDataset(t, toyID)

	// Replace the stub with one that fails.
	script := "#!/bin/sh\necho 'cannot open file' >&2\nexit 3\n"
	stub := strings.TrimSpace(env.cfg.Extractor.Command)
	path, err := exec.LookPath(stub)
	if err != nil {
		t.Fatalf("look up stub: %v", err)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("rewrite stub: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "scan", "-p", "toy", "-d", toyID)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	requireContains(t, out, "Failure count = 1")

	marker, err := os.ReadFile(env.layout(t, toyID).ExtractError)
	if err != nil {
		t.Fatalf("read extract marker: %v", err)
	}
	requireContains(t, string(marker), "Error extracting characteristics: ")
	requireContains(t, string(marker), "cannot open file")
}

func TestScanCommandNoSelection(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "scan", "-p", "toy")
	if err == nil {
		t.Fatal("expected error without selection criteria")
	}
	requireContains(t, err.Error(), "no selection criteria")
}

func TestScanCommandUnknownProject(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "scan", "-p", "cmip7", "-d", toyID)
	if err == nil {
		t.Fatal("expected error for unknown project")
	}
	requireContains(t, err.Error(), "cmip7")
}

func TestScanCommandPreflightRequiresArchive(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.cfg.Projects["toy"].BaseDir); err != nil {
		t.Fatalf("remove archive: %v", err)
	}

	_, _, err := runCLI(t, env.configPath, "scan", "-p", "toy", "-d", toyID)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "preflight failed")

	if _, _, err := runCLI(t, env.configPath, "scan", "-p", "toy", "-d", toyID, "--skip-preflight"); err != nil {
		t.Fatalf("scan with --skip-preflight failed: %v", err)
	}
}
