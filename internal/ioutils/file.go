// Package ioutils provides small file system helpers shared by the
// conversion pipeline.
package ioutils

import (
	"os"
)

// EnsureDir creates a directory and all parent directories if they
// don't exist.
//
// Directories are created with mode 0755. An existing directory is
// not an error, so concurrent conversion jobs may ensure the same
// album directory without coordination.
//
// Example:
//
//	err := EnsureDir("/music/out/Artist/Album (2002)")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644 and truncated if it already
// exists.
//
// Example:
//
//	content := []byte("#EXTM3U\n...")
//	err := WriteFile("/music/out/Album/playlist.m3u8", content)
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
