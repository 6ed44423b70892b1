package ux

import (
	"os"
	"path/filepath"
)

// ProjectFile marks the root of a project.
const ProjectFile = "package.json"

// FindProjectRoot walks up from start looking for a directory containing
// package.json. The search stops at the first directory holding a .git
// entry and at the filesystem root. When nothing is found start is
// returned with found set to false.
func FindProjectRoot(start string) (root string, found bool, err error) {
	start, err = filepath.Abs(start)
	if err != nil {
		return "", false, err
	}

	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, true, nil
		}

		// Stop at git root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return start, false, nil
}
