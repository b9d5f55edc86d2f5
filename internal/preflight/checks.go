package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// CheckSourceDir verifies the search root exists and is readable.
func CheckSourceDir(path string) Result {
	const name = "Source directory"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured (set paths.source_dir or --source)"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckOutputDir verifies the output root exists (creating it if needed)
// and is writable.
func CheckOutputDir(path string) Result {
	const name = "Output directory"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured (set paths.output_dir or --output)"}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: create: %v)", path, err)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the output filesystem has at least minGiB free.
// A floor of zero disables the check.
func CheckFreeSpace(path string, minGiB int) Result {
	const name = "Free disk space"
	if minGiB <= 0 {
		return Result{Name: name, Passed: true, Detail: "check disabled"}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	freeBytes := stat.Bavail * uint64(stat.Bsize)
	minBytes := uint64(minGiB) << 30
	if freeBytes < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%.1f GiB free, need %d GiB", float64(freeBytes)/(1<<30), minGiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%.1f GiB free", float64(freeBytes)/(1<<30))}
}

// CheckToolbox verifies the neurotool helper binary is resolvable.
func CheckToolbox(binary string) Result {
	const name = "Signal toolbox"
	if strings.TrimSpace(binary) == "" {
		return Result{Name: name, Detail: "binary not configured"}
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found in PATH: %v", binary, err)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}
