package checkers

import (
	"context"
	"fmt"
	"os"
)

// FileStoreChecker verifies the upload directory exists and is writable,
// so document uploads fail at readiness rather than mid-request.
type FileStoreChecker struct {
	dir string
}

func NewFileStoreChecker(dir string) *FileStoreChecker {
	return &FileStoreChecker{dir: dir}
}

func (c *FileStoreChecker) Name() string { return "filestore" }

func (c *FileStoreChecker) Check(_ context.Context) error {
	info, err := os.Stat(c.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", c.dir)
	}
	probe, err := os.CreateTemp(c.dir, ".probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
