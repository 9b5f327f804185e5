package testutil

import (
	"testing"

	"github.com/arthur-debert/alps/pkg/types"
)

// AssertExists fails the test if nothing is at path.
func AssertExists(t *testing.T, fsys types.FS, path string) {
	t.Helper()
	if _, err := fsys.Lstat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

// AssertNotExists fails the test if something is at path.
func AssertNotExists(t *testing.T, fsys types.FS, path string) {
	t.Helper()
	if _, err := fsys.Lstat(path); err == nil {
		t.Errorf("expected %s not to exist", path)
	}
}

// AssertFileContent fails the test unless path holds exactly want.
func AssertFileContent(t *testing.T, fsys types.FS, path, want string) {
	t.Helper()
	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Errorf("failed to read %s: %v", path, err)
		return
	}
	if string(data) != want {
		t.Errorf("%s: expected content %q, got %q", path, want, string(data))
	}
}
