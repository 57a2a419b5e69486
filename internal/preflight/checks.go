package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"lectern/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
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
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeDisk verifies the filesystem holding path has at least minBytes
// available. A zero minimum passes unconditionally.
func CheckFreeDisk(name, path string, minBytes int64) Result {
	if minBytes <= 0 {
		return Result{Name: name, Passed: true, Detail: "no minimum configured"}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := int64(stat.Bavail) * stat.Bsize
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%d bytes free, %d required)", path, free, minBytes)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes free)", path, free)}
}

// CheckContentKey reports whether encrypted delivery is possible with the
// loaded configuration. A missing key is a failed check, not a fatal error;
// the daemon still serves metadata and audio.
func CheckContentKey(cfg *config.Config) Result {
	const name = "Content key"
	if strings.TrimSpace(cfg.Content.Key) == "" {
		return Result{Name: name, Detail: "not configured (encrypted delivery disabled)"}
	}
	if _, err := cfg.ContentKeyBytes(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckSigningSecret reports whether signed asset URLs can be minted.
func CheckSigningSecret(cfg *config.Config) Result {
	const name = "Signing secret"
	if strings.TrimSpace(cfg.Content.SigningSecret) == "" {
		return Result{Name: name, Detail: "not configured (raw asset downloads disabled)"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}
