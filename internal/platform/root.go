package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the project file FindRoot looks for.
const ConfigFileName = "encyclopedia.yaml"

// FindRoot looks upwards from startDir for a directory holding an
// encyclopedia.yaml file and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
