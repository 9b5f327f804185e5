package record_test

import (
	"testing"

	"github.com/arthur-debert/alps/pkg/record"
	"github.com/stretchr/testify/assert"
)

func TestParseConfigEntry(t *testing.T) {
	tests := []struct {
		entry  string
		path   string
		suffix int
		mirror string
	}{
		{"home_dir/.vimrc", "home_dir/.vimrc", record.NoSuffix, ".vimrc"},
		{"home_dir/.vimrc_1", "home_dir/.vimrc", 1, ".vimrc_1"},
		{"home_dir/.config/nvim_12", "home_dir/.config/nvim", 12, "nvim_12"},
		{"home_dir/file_2_0", "home_dir/file_2", 0, "file_2_0"},
		{"home_dir/file_01", "home_dir/file_01", record.NoSuffix, "file_01"},
		{"home_dir/_3", "home_dir/_3", record.NoSuffix, "_3"},
		{"home_dir/dir_1/file", "home_dir/dir_1/file", record.NoSuffix, "file"},
		{"/etc/pacman.conf", "/etc/pacman.conf", record.NoSuffix, "pacman.conf"},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			got := record.ParseConfigEntry(tt.entry)
			assert.Equal(t, tt.path, got.Path)
			assert.Equal(t, tt.suffix, got.Suffix)
			assert.Equal(t, tt.mirror, got.MirrorName())
			assert.Equal(t, tt.entry, got.String(), "parse must round trip")
		})
	}
}

func TestNewConfigEntry(t *testing.T) {
	none := func(string) bool { return false }

	t.Run("free name has no suffix", func(t *testing.T) {
		assert.Equal(t, "home_dir/.vimrc", record.NewConfigEntry("home_dir/.vimrc", none).String())
	})

	t.Run("collision counts up from one", func(t *testing.T) {
		taken := map[string]bool{".vimrc": true, ".vimrc_1": true}
		got := record.NewConfigEntry("home_dir/work/.vimrc", func(n string) bool { return taken[n] })
		assert.Equal(t, "home_dir/work/.vimrc_2", got.String())
		assert.Equal(t, "home_dir/work/.vimrc", got.Path)
	})

	t.Run("suffix-looking name gets explicit zero", func(t *testing.T) {
		got := record.NewConfigEntry("home_dir/file_2", none)
		assert.Equal(t, "home_dir/file_2_0", got.String())
		assert.Equal(t, "home_dir/file_2", record.ParseConfigEntry(got.String()).Path)
	})

	t.Run("suffix-looking name with collision", func(t *testing.T) {
		taken := map[string]bool{"file_2_0": true}
		got := record.NewConfigEntry("home_dir/file_2", func(n string) bool { return taken[n] })
		assert.Equal(t, "home_dir/file_2_1", got.String())
	})
}
