package preflight

import (
	"context"

	"lectern/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	return []Result{
		CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir),
		CheckDirectoryAccess("Legacy asset directory", cfg.Paths.LegacyDir),
		CheckDirectoryAccess("Audio directory", cfg.Paths.AudioDir),
		CheckDirectoryAccess("Static metadata directory", cfg.Paths.StaticMetaDir),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckFreeDisk("Data disk", cfg.Paths.DataDir, cfg.Content.MinFreeDiskBytes),
		CheckContentKey(cfg),
		CheckSigningSecret(cfg),
	}
}

// FatalFailures filters results down to the ones the daemon cannot start
// without. Key and signing checks degrade features instead of blocking.
func FatalFailures(results []Result) []Result {
	var fatal []Result
	for _, res := range results {
		if res.Passed {
			continue
		}
		switch res.Name {
		case "Content key", "Signing secret":
			continue
		}
		fatal = append(fatal, res)
	}
	return fatal
}
