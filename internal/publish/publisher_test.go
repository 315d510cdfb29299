package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relerrors "github.com/mrz1836/relpack/internal/errors"
	"github.com/mrz1836/relpack/internal/testutil"
	"github.com/mrz1836/relpack/internal/trigger"
)

// mockCommandExecutor is a test double for CommandExecutor.
type mockCommandExecutor struct {
	executeFunc func(ctx context.Context, name string, args ...string) ([]byte, error)
	callCount   int
	lastName    string
	lastArgs    []string
	lastEnv     []string
	lastWorkDir string
}

func (m *mockCommandExecutor) Execute(ctx context.Context, workDir string, env []string, name string, args ...string) ([]byte, error) {
	m.callCount++
	m.lastName = name
	m.lastArgs = args
	m.lastEnv = env
	m.lastWorkDir = workDir
	if m.executeFunc != nil {
		return m.executeFunc(ctx, name, args...)
	}
	return nil, testutil.ErrMockCommandNotConfigured
}

func withToken(name string) Option {
	return WithGetenv(func(k string) string {
		if k == name {
			return "ghs_secret"
		}
		return ""
	})
}

func bundleInputs(t *testing.T, v trigger.Variant) Inputs {
	t.Helper()
	dir := t.TempDir()
	archive := filepath.Join(dir, "qemu-anti-detection-v2.3.1.tar.gz")
	sums := filepath.Join(dir, "checksums.txt")
	require.NoError(t, os.WriteFile(archive, []byte("bundle"), 0o600))
	require.NoError(t, os.WriteFile(sums, []byte("sums"), 0o600))
	return Inputs{Variant: v, ArchivePath: archive, ChecksumPath: sums, WorkDir: dir}
}

func tagVariant(t *testing.T) trigger.Variant {
	t.Helper()
	v, err := trigger.TagRelease("v2.3.1")
	require.NoError(t, err)
	return v
}

func TestTagPublisher_Publish(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return []byte("https://github.com/acme/qemu/releases/tag/v2.3.1\n"), nil
		},
	}
	p := NewTagPublisher(DefaultConfig(), WithExecutor(mock), withToken("GITHUB_TOKEN"))
	in := bundleInputs(t, tagVariant(t))

	res, err := p.Publish(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "gh", mock.lastName)
	assert.Equal(t, []string{
		"release", "create", "v2.3.1",
		in.ArchivePath, in.ChecksumPath,
		"--title", "v2.3.1",
		"--generate-notes",
		"--draft=false",
		"--prerelease=false",
	}, mock.lastArgs)
	assert.Equal(t, in.WorkDir, mock.lastWorkDir)

	assert.Equal(t, "v2.3.1", res.Version)
	assert.Equal(t, "https://github.com/acme/qemu/releases/tag/v2.3.1", res.URL)
	assert.Equal(t, trigger.KindTag, res.Variant.Kind)
}

func TestTagPublisher_RejectsBranchVariant(t *testing.T) {
	mock := &mockCommandExecutor{}
	p := NewTagPublisher(DefaultConfig(), WithExecutor(mock), withToken("GITHUB_TOKEN"))

	_, err := p.Publish(context.Background(), bundleInputs(t, trigger.BranchRelease("main")))
	require.ErrorIs(t, err, relerrors.ErrInvalidVariant)
	assert.Zero(t, mock.callCount)
}

func TestPublish_TokenMissing(t *testing.T) {
	mock := &mockCommandExecutor{}
	p := NewTagPublisher(DefaultConfig(), WithExecutor(mock), WithGetenv(func(string) string { return "" }))

	_, err := p.Publish(context.Background(), bundleInputs(t, tagVariant(t)))
	require.ErrorIs(t, err, relerrors.ErrTokenMissing)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	assert.Zero(t, mock.callCount, "publisher must not run without a token")
}

func TestPublish_GHTokenAccepted(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(context.Context, string, ...string) ([]byte, error) { return nil, nil },
	}
	p := NewTagPublisher(DefaultConfig(), WithExecutor(mock), withToken("GH_TOKEN"))

	_, err := p.Publish(context.Background(), bundleInputs(t, tagVariant(t)))
	require.NoError(t, err)
}

func TestPublish_MissingArchive(t *testing.T) {
	mock := &mockCommandExecutor{}
	p := NewTagPublisher(DefaultConfig(), WithExecutor(mock), withToken("GITHUB_TOKEN"))
	in := bundleInputs(t, tagVariant(t))
	require.NoError(t, os.Remove(in.ArchivePath))

	_, err := p.Publish(context.Background(), in)
	require.ErrorIs(t, err, relerrors.ErrBundleInputMissing)
	assert.Zero(t, mock.callCount)
}

func TestPublish_FailureClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"auth", fmt.Errorf("gh failed [HTTP 401: Bad credentials]: %w", relerrors.ErrCommandFailed), relerrors.ErrPublishAuth},
		{"rate limit", fmt.Errorf("gh failed [API rate limit exceeded]: %w", relerrors.ErrCommandFailed), relerrors.ErrPublishRateLimited},
		{"network", fmt.Errorf("gh failed [dial tcp: could not resolve host]: %w", relerrors.ErrCommandFailed), relerrors.ErrPublishNetwork},
		{"deadline", context.DeadlineExceeded, relerrors.ErrPublishNetwork},
		{"other", fmt.Errorf("gh failed [release already exists]: %w", relerrors.ErrCommandFailed), relerrors.ErrPublishFailed},
		{"mock network", testutil.ErrMockNetwork, relerrors.ErrPublishNetwork},
		{"mock gh failure", testutil.ErrMockGHFailed, relerrors.ErrPublishFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockCommandExecutor{
				executeFunc: func(context.Context, string, ...string) ([]byte, error) { return nil, tc.err },
			}
			p := NewTagPublisher(DefaultConfig(), WithExecutor(mock), withToken("GITHUB_TOKEN"))

			_, err := p.Publish(context.Background(), bundleInputs(t, tagVariant(t)))
			require.ErrorIs(t, err, tc.sentinel)
			assert.Equal(t, 1, mock.callCount, "no retries")
		})
	}
}

func TestPublish_Canceled(t *testing.T) {
	mock := &mockCommandExecutor{}
	p := NewTagPublisher(DefaultConfig(), WithExecutor(mock), withToken("GITHUB_TOKEN"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Publish(ctx, bundleInputs(t, tagVariant(t)))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mock.callCount)
}

func TestPublish_Timeout(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
			return nil, nil
		},
	}
	cfg := DefaultConfig()
	cfg.Timeout = time.Minute
	p := NewTagPublisher(cfg, WithExecutor(mock), withToken("GITHUB_TOKEN"))

	_, err := p.Publish(context.Background(), bundleInputs(t, tagVariant(t)))
	require.NoError(t, err)
}

func TestSemanticPublisher_Publish(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(context.Context, string, ...string) ([]byte, error) {
			return []byte("[semantic-release] › ✔  Published release 1.4.0 on default channel\n" +
				"https://github.com/acme/qemu/releases/tag/v1.4.0\n"), nil
		},
	}
	p := NewSemanticPublisher(DefaultConfig(), WithExecutor(mock), withToken("GITHUB_TOKEN"))
	in := bundleInputs(t, trigger.BranchRelease("main"))
	in.NotesPath = filepath.Join(in.WorkDir, "RELEASE_NOTES.md")

	res, err := p.Publish(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "npx", mock.lastName)
	assert.Equal(t, []string{"--yes", "semantic-release"}, mock.lastArgs)
	assert.Contains(t, mock.lastEnv, EnvArchive+"="+in.ArchivePath)
	assert.Contains(t, mock.lastEnv, EnvChecksums+"="+in.ChecksumPath)
	assert.Contains(t, mock.lastEnv, EnvNotesFile+"="+in.NotesPath)
	for _, kv := range mock.lastEnv {
		assert.NotContains(t, kv, "ghs_secret")
	}

	assert.Equal(t, "1.4.0", res.Version)
	assert.False(t, res.Skipped)
	assert.Equal(t, "https://github.com/acme/qemu/releases/tag/v1.4.0", res.URL)
}

func TestSemanticPublisher_NoNewVersion(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(context.Context, string, ...string) ([]byte, error) {
			return []byte("There are no relevant changes, so no new version is released.\n"), nil
		},
	}
	p := NewSemanticPublisher(DefaultConfig(), WithExecutor(mock), withToken("GITHUB_TOKEN"))

	res, err := p.Publish(context.Background(), bundleInputs(t, trigger.BranchRelease("main")))
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, res.Version)
}

func TestSemanticPublisher_AuthFailure(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(context.Context, string, ...string) ([]byte, error) {
			return nil, fmt.Errorf("npx failed [EINVALIDGHTOKEN Invalid GitHub token.]: %w", relerrors.ErrCommandFailed)
		},
	}
	p := NewSemanticPublisher(DefaultConfig(), WithExecutor(mock), withToken("GITHUB_TOKEN"))

	_, err := p.Publish(context.Background(), bundleInputs(t, trigger.BranchRelease("main")))
	require.ErrorIs(t, err, relerrors.ErrPublishAuth)
	require.ErrorIs(t, err, relerrors.ErrCommandFailed)
}

func TestFor(t *testing.T) {
	p, err := For(trigger.BranchRelease("main"), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "semantic-release", p.Name())

	p, err = For(tagVariant(t), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "gh-release", p.Name())

	_, err = For(trigger.NoRelease(), DefaultConfig())
	require.ErrorIs(t, err, relerrors.ErrNoRelease)
}

func TestFailureKind_String(t *testing.T) {
	tests := []struct {
		kind     FailureKind
		expected string
	}{
		{FailureNone, "none"},
		{FailureAuth, "auth"},
		{FailureRateLimit, "rate_limit"},
		{FailureNetwork, "network"},
		{FailureOther, "other"},
		{FailureKind(99), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Equal(t, FailureNone, Classify(nil))
}

func TestRequireToken(t *testing.T) {
	name, err := RequireToken(func(k string) string {
		if k == "GH_TOKEN" {
			return "x"
		}
		return " "
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "GH_TOKEN", name)
}
