package preflight

import (
	"fmt"
	"os"

	"charscan/internal/config"
	"charscan/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional checks never fail a run.
	Optional bool
}

// RunAll executes every preflight check for cfg. projects limits the archive
// checks to the named projects and makes them required; when empty every
// configured project is checked and a missing archive is only reported.
// The output directory is created first so a fresh install passes.
func RunAll(cfg *config.Config, projects ...string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		results = append(results, Result{Name: "Output directory", Detail: fmt.Sprintf("%s (error: create: %v)", cfg.Paths.OutputDir, err)})
	} else {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, ReadWrite))
	}

	scoped := len(projects) > 0
	if !scoped {
		projects = cfg.ProjectNames()
	}
	for _, name := range projects {
		p, ok := cfg.Projects[name]
		if !ok {
			continue
		}
		// Archives of projects not being scanned may legitimately be absent.
		result := CheckDirectoryAccess(fmt.Sprintf("Archive %s", name), p.BaseDir, ReadOnly)
		result.Optional = !scoped
		results = append(results, result)
	}

	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
	if status.Available {
		result.Detail = status.Path
	} else {
		result.Detail = status.Detail
	}
	return result
}
