package testutil_test

import (
	"testing"

	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetupGroup(t *testing.T) {
	for _, envType := range []testutil.EnvType{testutil.EnvMemoryOnly, testutil.EnvIsolated} {
		env := testutil.NewTestEnvironment(t, envType)

		env.SetupGroup("dev", testutil.GroupConfig{
			Packages: []string{"git", "vim"},
			Configs: []testutil.Fixture{
				{Entry: "home_dir/.vimrc", Content: "set nu"},
				{Entry: "home_dir/work/.vimrc_1", Content: "set rnu"},
				{Entry: "home_dir/.gone", NoMirror: true},
			},
			Scripts: []testutil.Fixture{{Entry: "setup.sh", Content: "#!/bin/sh\n"}},
		})

		assert.True(t, env.Store.GroupExists("dev"))
		assert.Equal(t, []string{"git", "vim"}, env.Section("dev", record.Packages))
		assert.Len(t, env.Section("dev", record.Configs), 3)
		testutil.AssertFileContent(t, env.FS, env.Paths.ConfigMirrorPath("dev", ".vimrc_1"), "set rnu")
		testutil.AssertNotExists(t, env.FS, env.Paths.ConfigMirrorPath("dev", ".gone"))
		testutil.AssertExists(t, env.FS, env.Paths.ScriptMirrorPath("dev", "setup.sh"))
	}
}

func TestWithHomeTree(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithHomeTree(testutil.FileTree{
		".vimrc": "set nu",
		".config": testutil.FileTree{
			"nvim": testutil.FileTree{"init.lua": "-- init"},
		},
	})

	testutil.AssertFileContent(t, env.FS, env.HomePath(".config/nvim/init.lua"), "-- init")
	testutil.AssertFileContent(t, env.FS, env.HomePath(".vimrc"), "set nu")
}
