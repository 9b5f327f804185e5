package filesystem

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	sfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

// Copier copies and removes file trees, escalating privileges when a direct
// attempt is refused. Every copy or removal runs as a synthfs operation
// batch; the operation bodies act on the Copier's types.FS.
type Copier struct {
	fs       types.FS
	elevator Elevator
	target   sfs.FullFileSystem
	logger   zerolog.Logger
}

// NewCopier returns a Copier over fsys. elevator may be nil, in which case
// permission errors are returned as ErrPermission.
func NewCopier(fsys types.FS, elevator Elevator) *Copier {
	osfs := sfs.NewOSFileSystem("/")
	return &Copier{
		fs:       fsys,
		elevator: elevator,
		target:   synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths(),
		logger:   logging.GetLogger("filesystem.copy"),
	}
}

// step is one planned change: a directory, a symlink or a file to write.
type step struct {
	src  string
	dst  string
	mode fs.FileMode
}

// CopyTree copies src to dst. A directory is copied recursively and merged
// into an existing destination directory; a file replaces the destination.
// Missing parent directories of dst are created. The whole source is read
// into a plan before anything is written, so a destination below src never
// feeds back into the copy.
func (c *Copier) CopyTree(ctx context.Context, src, dst string) error {
	if _, err := c.fs.Lstat(src); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrNotFound, "source %s does not exist", src).
				WithDetail("path", src)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src)
	}

	var plan []step
	if err := c.plan(src, dst, &plan); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}

	b := newBatch()
	for i, s := range plan {
		b.add(fmt.Sprintf("copy_%d_%s", i, filepath.Base(s.dst)), func() error {
			return c.apply(s)
		})
	}

	err := c.run(ctx, b)
	if err == nil {
		c.logger.Debug().Str("src", src).Str("dst", dst).Int("steps", len(plan)).Msg("Copied tree")
		return nil
	}
	if !stderrors.Is(err, fs.ErrPermission) {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to copy %s to %s", src, dst)
	}
	if c.elevator == nil {
		return errors.Wrapf(err, errors.ErrPermission, "permission denied copying %s to %s", src, dst)
	}

	c.logger.Info().Str("src", src).Str("dst", dst).Msg("Permission denied, retrying with elevation")
	if err := c.elevator.Run(ctx, []string{"mkdir", "-p", filepath.Dir(dst)}); err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "elevated mkdir of %s failed", filepath.Dir(dst))
	}
	if err := c.elevator.Run(ctx, []string{"cp", "-r", "-T", src, dst}); err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "elevated copy of %s to %s failed", src, dst)
	}
	return nil
}

// plan walks src depth first, parents before children.
func (c *Copier) plan(src, dst string, out *[]step) error {
	info, err := c.fs.Lstat(src)
	if err != nil {
		return err
	}
	*out = append(*out, step{src: src, dst: dst, mode: info.Mode()})
	if !info.IsDir() || info.Mode()&fs.ModeSymlink != 0 {
		return nil
	}
	entries, err := c.fs.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := c.plan(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()), out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Copier) apply(s step) error {
	switch {
	case s.mode&fs.ModeSymlink != 0:
		target, err := c.fs.Readlink(s.src)
		if err != nil {
			return err
		}
		if err := c.prepare(s.dst, false); err != nil {
			return err
		}
		return c.fs.Symlink(target, s.dst)

	case s.mode.IsDir():
		if err := c.prepare(s.dst, true); err != nil {
			return err
		}
		return c.fs.MkdirAll(s.dst, s.mode.Perm()|0700)

	default:
		data, err := c.fs.ReadFile(s.src)
		if err != nil {
			return err
		}
		if err := c.prepare(s.dst, false); err != nil {
			return err
		}
		return c.fs.WriteFile(s.dst, data, s.mode.Perm())
	}
}

// prepare creates dst's parent and clears anything at dst whose kind
// conflicts with what is about to be written.
func (c *Copier) prepare(dst string, wantDir bool) error {
	if err := c.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	existing, err := c.fs.Lstat(dst)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	isLink := existing.Mode()&fs.ModeSymlink != 0
	if wantDir && existing.IsDir() && !isLink {
		return nil
	}
	if !wantDir && !existing.IsDir() && !isLink {
		return nil
	}
	return c.fs.RemoveAll(dst)
}

// RemoveTree deletes path and everything below it. A missing path is not an
// error.
func (c *Copier) RemoveTree(ctx context.Context, path string) error {
	b := newBatch()
	b.add("remove_"+filepath.Base(path), func() error {
		if err := c.fs.RemoveAll(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	})

	err := c.run(ctx, b)
	if err == nil {
		c.logger.Debug().Str("path", path).Msg("Removed tree")
		return nil
	}
	if !stderrors.Is(err, fs.ErrPermission) {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", path)
	}
	if c.elevator == nil {
		return errors.Wrapf(err, errors.ErrPermission, "permission denied removing %s", path)
	}

	c.logger.Info().Str("path", path).Msg("Permission denied, removing with elevation")
	if err := c.elevator.Run(ctx, []string{"rm", "-rf", path}); err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "elevated removal of %s failed", path)
	}
	return nil
}

// batch collects synthfs operations whose bodies act on the Copier's FS.
// synthfs wraps failures in its own result types, so the first error an
// operation body returns is kept here to leave fs.ErrPermission detectable.
type batch struct {
	sf    *synthfs.SynthFS
	ops   []synthfs.Operation
	first error
}

func newBatch() *batch {
	return &batch{sf: synthfs.New()}
}

func (b *batch) add(id string, fn func() error) {
	b.ops = append(b.ops, b.sf.CustomOperationWithID(id, func(ctx context.Context, _ sfs.FileSystem) error {
		err := fn()
		if err != nil && b.first == nil {
			b.first = err
		}
		return err
	}))
}

// run executes the operations in order.
func (c *Copier) run(ctx context.Context, b *batch) error {
	if len(b.ops) == 0 {
		return nil
	}
	options := synthfs.DefaultPipelineOptions()
	_, err := synthfs.RunWithOptions(ctx, c.target, options, b.ops...)
	if b.first != nil {
		return b.first
	}
	return err
}

// Exists reports whether anything (including a dangling symlink) is at path.
func (c *Copier) Exists(path string) bool {
	_, err := c.fs.Lstat(path)
	return err == nil
}
