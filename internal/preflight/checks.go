package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"charscan/internal/config"
	"charscan/internal/deps"
)

// AccessMode selects the permissions CheckDirectoryAccess requires.
type AccessMode int

const (
	// ReadOnly requires read and traverse permission.
	ReadOnly AccessMode = iota
	// ReadWrite additionally requires write permission.
	ReadWrite
)

func (m AccessMode) bits() uint32 {
	if m == ReadWrite {
		return unix.R_OK | unix.W_OK | unix.X_OK
	}
	return unix.R_OK | unix.X_OK
}

func (m AccessMode) label() string {
	if m == ReadWrite {
		return "read/write ok"
	}
	return "read ok"
}

// CheckDirectoryAccess verifies that the directory exists and grants mode.
func CheckDirectoryAccess(name, path string, mode AccessMode) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode.bits()); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, mode.label())}
}

// CheckSystemDeps evaluates the external programs required by cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "Character extractor",
			Command:     cfg.Extractor.Command,
			Description: "Required to read dataset files",
		},
	}
	return deps.CheckBinaries(requirements)
}
