package engine

import (
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/poser/engine/core"
	"github.com/spaghettifunk/poser/engine/scene"
)

const libraryXML = `<poses>
  <Wave>
    <Spine1><rotations rx="0.0" ry="48.45" rz=""/></Spine1>
    <Tail><rotations rx="1"/></Tail>
  </Wave>
  <Idle>
    <Hips><translations tx="0" ty="1.5" tz=""/></Hips>
  </Idle>
</poses>`

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func writeAsset(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeThumbnail(t *testing.T, dir, name string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 32, 32))))
	require.NoError(t, f.Close())
}

func newTestEngine(t *testing.T, dir string, watch bool) (*Engine, *scene.Scene) {
	t.Helper()
	rig := scene.New()
	_, err := rig.CreateJoints("Hips", "Spine", "Spine1")
	require.NoError(t, err)

	cfg := DefaultApplicationConfig()
	cfg.AssetsDir = dir
	cfg.Watch = watch
	cfg.LogLevel = "error"

	e, err := New(&Game{ApplicationConfig: &cfg, Adapter: rig})
	require.NoError(t, err)
	return e, rig
}

func TestEngine_InitializeLoadsLibrary(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "poses.xml", libraryXML)
	writeThumbnail(t, dir, "Wave.png")
	writeThumbnail(t, dir, "Dance.png")

	e, _ := newTestEngine(t, dir, false)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Equal(t, []string{"Wave", "Idle"}, e.Library().PoseNames())

	cat := e.Catalog()
	require.NotNil(t, cat)
	assert.Equal(t, "Wave is a valid pose", cat.Status("Wave"))
	assert.Equal(t, "Dance is not a valid pose", cat.Status("Dance"))
	assert.Equal(t, []string{"Idle"}, cat.Orphans())
	assert.Equal(t, 2, e.Systems().ThumbnailSystem.Count())
}

func TestEngine_ApplyPose(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "poses.xml", libraryXML)

	e, rig := newTestEngine(t, dir, false)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	var applied atomic.Int32
	core.EventRegister(core.EVENT_CODE_POSE_APPLIED, t, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
		assert.Equal(t, "Wave", data.Data.C[0])
		assert.Equal(t, uint32(1), data.Data.U32[0])
		assert.Equal(t, uint32(1), data.Data.U32[1])
		applied.Add(1)
		return true
	})

	report, err := e.ApplyPose("Wave")
	require.NoError(t, err)
	assert.Equal(t, []string{"Spine1"}, report.Applied)
	assert.Equal(t, []string{"Tail"}, report.Skipped)
	assert.Equal(t, int32(1), applied.Load())

	spine, _ := rig.Node("Spine1")
	assert.Equal(t, 48.45, spine.Transform.Rotation.Y)

	_, err = e.ApplyPose("Dance")
	assert.ErrorIs(t, err, core.ErrPoseNotFound)
	assert.Equal(t, []string{"Wave"}, e.Systems().PoseSystem.History())
}

func TestEngine_NoPoseFile(t *testing.T) {
	dir := t.TempDir()
	writeThumbnail(t, dir, "Wave.png")

	e, _ := newTestEngine(t, dir, false)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	assert.Nil(t, e.Library())
	assert.False(t, e.Catalog().HasLibrary())
	assert.ErrorIs(t, e.Reload(), core.ErrNoPoseFile)

	_, err := e.ApplyPose("Wave")
	assert.ErrorIs(t, err, core.ErrNoPoseFile)
}

func TestEngine_EmptyPoseFile(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "poses.xml", `<poses/>`)

	e, _ := newTestEngine(t, dir, false)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	require.NotNil(t, e.Library())
	assert.True(t, e.Library().IsEmpty())
	assert.True(t, e.Catalog().HasLibrary())
}

func TestEngine_ReloadProducesFreshLibrary(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "poses.xml", libraryXML)

	e, _ := newTestEngine(t, dir, false)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	var reloaded atomic.Int32
	core.EventRegister(core.EVENT_CODE_LIBRARY_RELOADED, t, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
		reloaded.Add(1)
		return false
	})

	before := e.Library()
	writeAsset(t, dir, "poses.xml", `<poses><Jump/></poses>`)
	require.NoError(t, e.Reload())

	assert.Equal(t, []string{"Jump"}, e.Library().PoseNames())
	assert.Equal(t, []string{"Wave", "Idle"}, before.PoseNames())
	assert.Equal(t, int32(1), reloaded.Load())
}

func TestEngine_ParseErrorKeepsPreviousLibrary(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "poses.xml", libraryXML)

	e, _ := newTestEngine(t, dir, false)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	writeAsset(t, dir, "poses.xml", `<poses><Wave></poses>`)
	assert.Error(t, e.Reload())
	assert.Equal(t, []string{"Wave", "Idle"}, e.Library().PoseNames())
}

func TestEngine_RunReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "poses.xml", libraryXML)

	e, _ := newTestEngine(t, dir, true)
	require.NoError(t, e.Initialize())

	done := make(chan error, 1)
	go func() { done <- e.Run() }()
	require.Eventually(t, func() bool { return e.Stage() == EngineStageRunning }, time.Second, 10*time.Millisecond)

	writeAsset(t, dir, "poses.xml", `<poses><Jump/></poses>`)
	require.Eventually(t, func() bool {
		return e.Library().HasPose("Jump")
	}, 5*time.Second, 20*time.Millisecond)

	e.Quit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
	require.NoError(t, e.Shutdown())
}

func TestEngine_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	e, _ := newTestEngine(t, dir, false)

	_, err := e.ApplyPose("Wave")
	assert.ErrorIs(t, err, core.ErrNotInitialized)
	assert.ErrorIs(t, e.Run(), core.ErrNotInitialized)

	require.NoError(t, e.Initialize())
	assert.Error(t, e.Initialize())

	require.NoError(t, e.Shutdown())
	assert.ErrorIs(t, e.Shutdown(), core.ErrAlreadyShutdown)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	cfg := DefaultApplicationConfig()
	_, err = New(&Game{ApplicationConfig: &cfg})
	assert.Error(t, err)

	cfg.AssetsDir = ""
	_, err = New(&Game{ApplicationConfig: &cfg, Adapter: scene.New()})
	assert.Error(t, err)
}

func TestEngine_InitializeFailsOnMissingFolder(t *testing.T) {
	e, _ := newTestEngine(t, filepath.Join(t.TempDir(), "missing"), false)
	assert.Error(t, e.Initialize())
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	// The event system was released, so another engine can start.
	assert.True(t, core.EventSystemInitialize())
	require.NoError(t, core.EventSystemShutdown())
}

func TestEngine_InitializeRetryAfterParseErrorWithWatch(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "poses.xml", `<poses><Wave></poses>`)

	e, _ := newTestEngine(t, dir, true)
	require.Error(t, e.Initialize())
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	require.Error(t, e.Initialize())

	writeAsset(t, dir, "poses.xml", libraryXML)
	require.NoError(t, e.Initialize())
	assert.Equal(t, []string{"Wave", "Idle"}, e.Library().PoseNames())

	require.NotPanics(t, func() {
		require.NoError(t, e.Shutdown())
	})
}

func TestEngine_ShutdownAfterFailedInitialize(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "poses.xml", `<poses><Wave></poses>`)

	e, _ := newTestEngine(t, dir, true)
	require.Error(t, e.Initialize())
	require.NoError(t, e.Shutdown())

	// The event system is free again.
	assert.True(t, core.EventSystemInitialize())
	require.NoError(t, core.EventSystemShutdown())
}

func TestEngine_RunCoalescesQuickChanges(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "poses.xml", libraryXML)

	e, _ := newTestEngine(t, dir, true)
	require.NoError(t, e.Initialize())

	var reloads atomic.Int32
	core.EventRegister(core.EVENT_CODE_LIBRARY_RELOADED, t, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
		reloads.Add(1)
		return false
	})

	done := make(chan error, 1)
	go func() { done <- e.Run() }()
	require.Eventually(t, func() bool { return e.Stage() == EngineStageRunning }, time.Second, 10*time.Millisecond)

	writeAsset(t, dir, "poses.xml", `<poses><Jump/></poses>`)
	writeAsset(t, dir, "poses.xml", `<poses><Jump/><Crouch/></poses>`)
	writeAsset(t, dir, "poses.xml", `<poses><Jump/><Crouch/><Spin/></poses>`)

	require.Eventually(t, func() bool {
		return e.Library().HasPose("Spin")
	}, 5*time.Second, 20*time.Millisecond)
	time.Sleep(3 * reloadDelay)
	assert.Equal(t, int32(1), reloads.Load())

	e.Quit()
	require.NoError(t, <-done)
	require.NoError(t, e.Shutdown())
}
