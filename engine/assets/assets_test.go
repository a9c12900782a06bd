package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/poser/engine/poses"
	"github.com/spaghettifunk/poser/engine/resources"
)

func touch(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFilesOfType(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Wave.png", "")
	touch(t, dir, "Idle.PNG", "")
	touch(t, dir, "poses.xml", "")
	touch(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	files, err := FilesOfType(dir, "png")
	require.NoError(t, err)
	assert.Equal(t, []string{"Idle.PNG", "Wave.png"}, files)

	files, err = FilesOfType(dir, ".xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"poses.xml"}, files)

	files, err = FilesOfType(dir, "fbx")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = FilesOfType(filepath.Join(dir, "missing"), "png")
	assert.Error(t, err)
}

func TestAssetManager_IndexesFolder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b_poses.xml", "<r/>")
	touch(t, dir, "a_poses.xml", "<r/>")
	touch(t, dir, "Wave.png", "")
	touch(t, dir, "readme.md", "")

	am := NewAssetManager("xml", "png")
	require.NoError(t, am.Initialize(dir, false))
	defer am.Close()

	path, ok := am.PoseFile()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a_poses.xml"), path)
	assert.Equal(t, []string{filepath.Join(dir, "Wave.png")}, am.Thumbnails())
	assert.Equal(t, dir, am.Directory())
}

func TestAssetManager_NoPoseFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Wave.png", "")

	am := NewAssetManager("xml", "png")
	require.NoError(t, am.Initialize(dir, false))
	defer am.Close()

	_, ok := am.PoseFile()
	assert.False(t, ok)
}

func TestAssetManager_InitializeErrors(t *testing.T) {
	am := NewAssetManager("xml", "png")
	assert.Error(t, am.Initialize(filepath.Join(t.TempDir(), "missing"), false))

	file := touch(t, t.TempDir(), "poses.xml", "<r/>")
	assert.Error(t, am.Initialize(file, false))

	assert.ErrorIs(t, am.Rescan(), ErrNotInitialized)

	require.NoError(t, am.Close())
	assert.ErrorIs(t, am.Initialize(t.TempDir(), false), ErrClosed)
}

func TestAssetManager_LoadAsset(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "poses.xml", `<r><Wave/></r>`)

	am := NewAssetManager("xml", "png")
	require.NoError(t, am.Initialize(dir, false))
	defer am.Close()

	res, err := am.LoadAsset(path, nil)
	require.NoError(t, err)
	store := res.Data.(*poses.Store)
	assert.Equal(t, []string{"Wave"}, store.PoseNames())
	assert.NoError(t, am.UnloadAsset(res))

	_, err = am.LoadAsset(touch(t, dir, "notes.txt", ""), nil)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestAssetManager_WatchPublishesChanges(t *testing.T) {
	dir := t.TempDir()
	am := NewAssetManager("xml", "png")
	require.NoError(t, am.Initialize(dir, true))
	defer am.Close()

	path := touch(t, dir, "poses.xml", "<r/>")
	touch(t, dir, "ignored.txt", "")

	var ev AssetEvent
	require.Eventually(t, func() bool {
		select {
		case ev = <-am.Events():
			return ev.Path == path
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, resources.ResourceTypePose, ev.Type)
	assert.False(t, ev.Removed)

	require.Eventually(t, func() bool {
		_, ok := am.PoseFile()
		return ok
	}, 5*time.Second, 10*time.Millisecond)
}

func TestAssetManager_CloseIsIdempotent(t *testing.T) {
	am := NewAssetManager("xml", "png")
	require.NoError(t, am.Initialize(t.TempDir(), true))
	require.NoError(t, am.Close())
	require.NoError(t, am.Close())

	_, open := <-am.Events()
	assert.False(t, open)
}

func TestAssetManager_InitializeAgainKeepsOneWatcher(t *testing.T) {
	dir := t.TempDir()
	am := NewAssetManager("xml", "png")
	require.NoError(t, am.Initialize(dir, true))
	require.NoError(t, am.Initialize(dir, true))
	assert.Error(t, am.Initialize(t.TempDir(), true))

	require.NoError(t, am.Close())
	_, open := <-am.Events()
	assert.False(t, open)
}
