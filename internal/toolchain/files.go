package toolchain

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FindFiles returns every regular file under root whose base name matches
// pattern (filepath.Match syntax), sorted. A missing root yields no files.
func FindFiles(root, pattern string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Unit splits file into its directory relative to repoPath and its base
// name, the two halves of a containerized invocation.
func Unit(repoPath, file string) (subdir, name string, err error) {
	rel, err := filepath.Rel(repoPath, file)
	if err != nil {
		return "", "", err
	}
	return filepath.Dir(rel), filepath.Base(rel), nil
}
