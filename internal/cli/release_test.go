package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/relpack/internal/config"
	"github.com/mrz1836/relpack/internal/packager"
	"github.com/mrz1836/relpack/internal/pipeline"
	"github.com/mrz1836/relpack/internal/publish"
	"github.com/mrz1836/relpack/internal/trigger"
	"github.com/mrz1836/relpack/internal/tui"
)

type fakePublisher struct {
	got publish.Inputs
	err error
}

func (f *fakePublisher) Name() string { return "fake" }

func (f *fakePublisher) Publish(_ context.Context, in publish.Inputs) (*publish.Result, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &publish.Result{
		Publisher: f.Name(),
		Variant:   in.Variant.Summary(),
		Version:   in.Variant.Tag(),
		URL:       "https://github.com/acme/qemu-anti-detection/releases/tag/" + in.Variant.Tag(),
	}, nil
}

// testEnv builds a commandEnv for dir without going through cobra.
func testEnv(t *testing.T, dir, format string) (*commandEnv, *bytes.Buffer) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Validation.PatchCommand = "test -f {patch}"
	buf := new(bytes.Buffer)
	return &commandEnv{
		ctx:     context.Background(),
		logger:  zerolog.Nop(),
		w:       buf,
		out:     tui.NewOutput(buf, format),
		cfg:     cfg,
		workDir: dir,
		format:  format,
	}, buf
}

func TestRunRelease_PublishesTagRelease(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	dir := releaseTree(t)
	env, buf := testEnv(t, dir, OutputText)
	pub := &fakePublisher{}

	err := runRelease(env, &variantFlags{Tag: "v2.3.1"}, &releaseOptions{yes: true},
		pipeline.WithPublisherFactory(func(trigger.Variant) (publish.Publisher, error) { return pub, nil }))
	require.NoError(t, err)

	assert.Equal(t, "v2.3.1", pub.got.Variant.Tag())
	assert.Equal(t, filepath.Join(dir, "qemu-anti-detection-v2.3.1.tar.gz"), pub.got.ArchivePath)
	assert.Equal(t, filepath.Join(dir, "checksums.txt"), pub.got.ChecksumPath)
	assert.Equal(t, filepath.Join(dir, "RELEASE_NOTES.md"), pub.got.NotesPath)
	assert.Equal(t, dir, pub.got.WorkDir)

	out := buf.String()
	assert.Contains(t, out, "Published v2.3.1 via fake")
	assert.Contains(t, out, "releases/tag/v2.3.1")
	assert.Contains(t, out, "✓ Publish completed")
}

func TestRunRelease_JSONResult(t *testing.T) {
	dir := releaseTree(t)
	env, buf := testEnv(t, dir, OutputJSON)
	pub := &fakePublisher{}

	err := runRelease(env, &variantFlags{Variant: "branch"}, &releaseOptions{yes: true},
		pipeline.WithPublisherFactory(func(trigger.Variant) (publish.Publisher, error) { return pub, nil }))
	require.NoError(t, err)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "branch", string(res.Variant.Kind))
	require.NotNil(t, res.Package)
	assert.Equal(t, filepath.Join(dir, "qemu-anti-detection-release.tar.gz"), res.Package.ArchivePath)
	assert.Len(t, res.Manifest, 5)
	require.NotNil(t, res.Publish)
	assert.Equal(t, "fake", res.Publish.Publisher)
}

func TestRunRelease_PublishFailureReportedInJSON(t *testing.T) {
	dir := releaseTree(t)
	env, buf := testEnv(t, dir, OutputJSON)
	pub := &fakePublisher{err: assert.AnError}

	err := runRelease(env, &variantFlags{Tag: "v1.0.0"}, &releaseOptions{yes: true},
		pipeline.WithPublisherFactory(func(trigger.Variant) (publish.Publisher, error) { return pub, nil }))
	require.ErrorIs(t, err, assert.AnError)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, pipeline.StepPublish, res.FailedStep)
	require.NotNil(t, res.Package)
	assert.FileExists(t, res.Package.ArchivePath)
}

type stubForm struct {
	answer bool
	target *bool
	err    error
}

func (f *stubForm) Run() error {
	*f.target = f.answer
	return f.err
}

func TestConfirmPublish(t *testing.T) {
	original := createReleaseConfirmForm
	t.Cleanup(func() { createReleaseConfirmForm = original })

	res := &pipeline.Result{
		Variant: trigger.Summary{Kind: trigger.KindTag, Tag: "v2.3.1"},
		Package: &packager.Result{ArchivePath: "qemu-anti-detection-v2.3.1.tar.gz"},
	}

	for _, answer := range []bool{true, false} {
		createReleaseConfirmForm = func(_ *pipeline.Result, confirm *bool) formRunner {
			return &stubForm{answer: answer, target: confirm}
		}
		ok, err := confirmPublish(context.Background(), res)
		require.NoError(t, err)
		assert.Equal(t, answer, ok)
	}

	createReleaseConfirmForm = func(_ *pipeline.Result, confirm *bool) formRunner {
		return &stubForm{target: confirm, err: assert.AnError}
	}
	_, err := confirmPublish(context.Background(), res)
	require.ErrorIs(t, err, assert.AnError)
}

func TestPublishConfig_FromConfig(t *testing.T) {
	env, _ := testEnv(t, t.TempDir(), OutputText)
	env.cfg.Publish.GHCommand = "/usr/local/bin/gh"
	env.cfg.Publish.TokenEnvVars = []string{"RELEASE_TOKEN"}

	cfg := publishConfig(env)
	assert.Equal(t, "/usr/local/bin/gh", cfg.GHCommand)
	assert.Equal(t, []string{"RELEASE_TOKEN"}, cfg.TokenEnvVars)
	assert.Equal(t, env.cfg.Publish.Timeout, cfg.Timeout)
}
