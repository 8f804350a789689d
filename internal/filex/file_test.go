package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("downloads")
	require.NoError(t, err)

	// macOS temp dirs sit behind a symlink
	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "downloads"))
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotResolved)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureDir_AbsoluteAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, first)

	second, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("downloads", []byte("x"), 0o660))

	_, err := EnsureDir("downloads")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestReadLimited(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o600))

	t.Run("within limit", func(t *testing.T) {
		data, err := ReadLimited(path, 10)
		require.NoError(t, err)
		assert.Equal(t, []byte("0123456789"), data)
	})

	t.Run("no limit", func(t *testing.T) {
		data, err := ReadLimited(path, 0)
		require.NoError(t, err)
		assert.Len(t, data, 10)
	})

	t.Run("over limit", func(t *testing.T) {
		_, err := ReadLimited(path, 9)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ReadLimited(filepath.Join(dir, "nope"), 0)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ReadLimited(dir, 0)
		assert.Error(t, err)
	})
}

func TestSaveUnique(t *testing.T) {
	dir := t.TempDir()

	p1, err := SaveUnique(dir, "report.pdf", []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.pdf"), p1)

	p2, err := SaveUnique(dir, "report.pdf", []byte("two"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report (1).pdf"), p2)

	got, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "one", string(got), "existing file must not be overwritten")
}

func TestSaveUnique_StripsDirectories(t *testing.T) {
	dir := t.TempDir()

	p, err := SaveUnique(dir, "../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "passwd"), p)

	p, err = SaveUnique(dir, "", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "download"), p)
}
