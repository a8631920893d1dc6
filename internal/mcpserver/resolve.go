// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the plaintes statistics transforms as tools over stdio.
package mcpserver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/observatoire/plaintes/internal/testable"
)

// ResolveOutputDir resolves the directory an export tool writes into to an
// absolute, symlink-free path. It returns an error if the path does not
// exist or is not a directory.
func ResolveOutputDir(path string) (string, error) {
	return resolveOutputDir(testable.DefaultFS, path)
}

func resolveOutputDir(fsys testable.FileSystem, path string) (string, error) {
	if path == "" {
		path = "."
	}

	absPath, err := fsys.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	absPath, err = fsys.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	info, err := fsys.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", path)
	}
	return absPath, nil
}

// SafeFileName reduces name to a plain file name with extension ext. Any
// directory part is dropped so the file stays inside the output directory.
func SafeFileName(name, ext string) (string, error) {
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, `\`, "/")))
	base = strings.TrimSuffix(base, ext)
	if base == "" || base == "." || base == "/" {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return base + ext, nil
}
