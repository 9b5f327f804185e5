package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/filesystem"
	"github.com/arthur-debert/alps/pkg/paths"
	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/store"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMemory(t *testing.T) (*store.Store, types.FS, paths.Paths) {
	t.Helper()
	p, err := paths.New(paths.Options{Root: "/alps", Home: "/home/me"})
	require.NoError(t, err)
	fsys := filesystem.NewMemory()
	s := store.New(fsys, p)
	require.NoError(t, s.EnsureRoot())
	return s, fsys, p
}

func readRecord(t *testing.T, fsys types.FS, p paths.Paths, group string) string {
	t.Helper()
	data, err := fsys.ReadFile(p.RecordPath(group))
	require.NoError(t, err)
	return string(data)
}

func TestGroupLifecycle(t *testing.T) {
	s, fsys, p := setupMemory(t)

	assert.False(t, s.GroupExists("dev"))
	require.NoError(t, s.CreateGroup("dev"))
	assert.True(t, s.GroupExists("dev"))
	assert.Equal(t, "[PACKAGES]\n\n[CONFIGS]\n\n[SCRIPTS]\n", readRecord(t, fsys, p, "dev"))

	require.NoError(t, s.CreateGroup("base"))
	groups, err := s.ListGroups()
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "dev"}, groups)

	require.NoError(t, s.RemoveGroup("dev"))
	assert.False(t, s.GroupExists("dev"))

	_, err = s.ReadSection(record.Packages, "dev")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingGroup))
}

func TestCreateGroup_Reserved(t *testing.T) {
	s, _, _ := setupMemory(t)

	for _, name := range []string{"", "..", "configs", "a/b"} {
		err := s.CreateGroup(name)
		require.Error(t, err, name)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidGroup))
	}
}

func TestListGroups_SkipsFilesAndMissingRoot(t *testing.T) {
	p, err := paths.New(paths.Options{Root: "/nowhere", Home: "/home/me"})
	require.NoError(t, err)
	s := store.New(filesystem.NewMemory(), p)

	groups, err := s.ListGroups()
	require.NoError(t, err)
	assert.Empty(t, groups)

	s2, fsys, p2 := setupMemory(t)
	require.NoError(t, fsys.WriteFile(filepath.Join(p2.Root(), "config.toml"), []byte(""), 0644))
	require.NoError(t, s2.CreateGroup("dev"))
	groups, err = s2.ListGroups()
	require.NoError(t, err)
	assert.Equal(t, []string{"dev"}, groups)
}

func TestReadSection_CreatesMissingRecord(t *testing.T) {
	s, fsys, p := setupMemory(t)
	require.NoError(t, fsys.MkdirAll(p.GroupDir("dev"), 0755))

	entries, err := s.ReadSection(record.Configs, "dev")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = fsys.Stat(p.RecordPath("dev"))
	assert.NoError(t, err, "record file should be created")
}

func TestWriteEntry(t *testing.T) {
	s, fsys, p := setupMemory(t)
	require.NoError(t, s.CreateGroup("dev"))

	changed, err := s.WriteEntry("dev", record.Packages, "git", true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.WriteEntry("dev", record.Packages, "vim", true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.WriteEntry("dev", record.Packages, "git", true)
	require.NoError(t, err)
	assert.False(t, changed, "duplicate add is a no-op")

	_, err = s.WriteEntry("dev", record.Configs, "home_dir/.vimrc", true)
	require.NoError(t, err)

	assert.Equal(t, "[PACKAGES]\nvim\ngit\n\n[CONFIGS]\nhome_dir/.vimrc\n\n[SCRIPTS]\n", readRecord(t, fsys, p, "dev"))

	changed, err = s.WriteEntry("dev", record.Packages, "git", false)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.WriteEntry("dev", record.Packages, "git", false)
	require.NoError(t, err)
	assert.False(t, changed)

	entries, err := s.ReadSection(record.Packages, "dev")
	require.NoError(t, err)
	assert.Equal(t, []string{"vim"}, entries)

	_, err = fsys.Stat(p.RecordPath("dev") + ".tmp")
	assert.Error(t, err, "temporary file must not linger")
}

func TestWriteEntry_InvalidEntry(t *testing.T) {
	s, _, _ := setupMemory(t)
	require.NoError(t, s.CreateGroup("dev"))

	_, err := s.WriteEntry("dev", record.Packages, "a\nb", true)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestWriteEntry_HealsHandEditedRecord(t *testing.T) {
	s, fsys, p := setupMemory(t)
	require.NoError(t, s.CreateGroup("dev"))
	require.NoError(t, fsys.WriteFile(p.RecordPath("dev"), []byte("[SCRIPTS]\nsetup.sh\n\n\n[PACKAGES]\ngit\n"), 0644))

	_, err := s.WriteEntry("dev", record.Configs, "home_dir/.zshrc", true)
	require.NoError(t, err)

	assert.Equal(t, "[PACKAGES]\ngit\n\n[CONFIGS]\nhome_dir/.zshrc\n\n[SCRIPTS]\nsetup.sh\n", readRecord(t, fsys, p, "dev"))
}

func TestReformat_Idempotent(t *testing.T) {
	s, fsys, p := setupMemory(t)
	require.NoError(t, s.CreateGroup("dev"))
	require.NoError(t, fsys.WriteFile(p.RecordPath("dev"), []byte("[CONFIGS]\nhome_dir/.vimrc\n[PACKAGES]\ngit\n"), 0644))

	require.NoError(t, s.Reformat("dev"))
	first := readRecord(t, fsys, p, "dev")
	require.NoError(t, s.Reformat("dev"))
	assert.Equal(t, first, readRecord(t, fsys, p, "dev"))
}

func TestStore_RealFilesystem(t *testing.T) {
	root := filepath.Join(t.TempDir(), "alps")
	p, err := paths.New(paths.Options{Root: root, Home: t.TempDir()})
	require.NoError(t, err)
	s := store.New(filesystem.NewOS(), p)
	require.NoError(t, s.EnsureRoot())

	require.NoError(t, s.CreateGroup("dev"))
	_, err = s.WriteEntry("dev", record.Scripts, "setup.sh", true)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "dev", "dev.record"))
	require.NoError(t, err)
	assert.Equal(t, "[PACKAGES]\n\n[CONFIGS]\n\n[SCRIPTS]\nsetup.sh\n", string(data))
}

func TestLoad_UnreadableRecord(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	root := filepath.Join(t.TempDir(), "alps")
	p, err := paths.New(paths.Options{Root: root, Home: t.TempDir()})
	require.NoError(t, err)
	s := store.New(filesystem.NewOS(), p)
	require.NoError(t, s.CreateGroup("dev"))
	require.NoError(t, os.Chmod(p.RecordPath("dev"), 0000))
	t.Cleanup(func() { _ = os.Chmod(p.RecordPath("dev"), 0644) })

	_, err = s.Load("dev")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRecordRead))
}
