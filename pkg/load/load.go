// Package load turns book files on disk, in strings or at go-getter
// sources into parsed BookFiles.
package load

import (
	"io/ioutil"
	"path/filepath"
	"strings"

	runbook "github.com/runbook-sh/runbook/pkg"
	"github.com/runbook-sh/runbook/pkg/get"
)

// File reads a book file from disk, naming it after the file with the
// extension stripped.
func File(path string) (*runbook.BookFile, error) {
	yaml, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	file, err := YAML(string(yaml))
	if err != nil {
		return nil, err
	}

	file.Name = nameFromPath(path)

	return file, nil
}

// YAML parses a book file held in a string. The caller names it.
func YAML(yaml string) (*runbook.BookFile, error) {
	return runbook.ReadBookFileFromString(yaml)
}

// Remote fetches a book file from a go-getter source such as
// github.com/org/books//deploy.yaml and parses it.
func Remote(src string) (*runbook.BookFile, error) {
	bytes, err := get.GetBytes(src)
	if err != nil {
		return nil, err
	}

	file, err := runbook.ReadBookFileFromBytes(bytes)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(src, "//")
	path := strings.SplitN(parts[len(parts)-1], "?", 2)[0]
	file.Name = nameFromPath(path)

	return file, nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
