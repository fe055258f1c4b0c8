package inference

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DeploymentDir is where container images ship model artifacts.
const DeploymentDir = "/app/models"

// Locator resolves an artifact filename against an ordered list of
// directories. It only reads the filesystem.
type Locator struct {
	dirs []string
}

// NewLocator probes, in order: modelDir (when set), the models directory next
// to and one level above the executable, ./models under the working
// directory, and DeploymentDir.
func NewLocator(modelDir string) *Locator {
	var dirs []string
	if modelDir != "" {
		dirs = append(dirs, modelDir)
	}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs,
			filepath.Join(exeDir, "models"),
			filepath.Join(exeDir, "..", "models"),
		)
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(cwd, "models"))
	}
	dirs = append(dirs, DeploymentDir)
	return NewLocatorWithDirs(dirs...)
}

func NewLocatorWithDirs(dirs ...string) *Locator {
	return &Locator{dirs: dirs}
}

// Candidates lists the absolute paths Find would probe for name, without
// duplicates.
func (l *Locator) Candidates(name string) []string {
	seen := make(map[string]struct{}, len(l.dirs))
	out := make([]string, 0, len(l.dirs))
	for _, dir := range l.dirs {
		p, err := filepath.Abs(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Find returns the first candidate that is an existing regular file.
func (l *Locator) Find(name string) (string, error) {
	candidates := l.Candidates(name)
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s not found in any of the expected locations: [%s]",
		ErrModelNotFound, name, strings.Join(candidates, ", "))
}
