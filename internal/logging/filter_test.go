package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake secrets are assembled at runtime to keep secret scanners quiet.
func fakeGitHubPAT() string     { return "ghp_" + "xxxxxxxxxxTESTONLYxxxxxxxxxx" }
func fakeGitHubApp() string     { return "ghs_" + "xxxxxxxxxxTESTONLYxxxxxxxxxx" }
func fakeFineGrained() string   { return "github_pat_" + "11TESTONLYxxxxxxxxxxxxxxxx" }
func fakeNPMToken() string      { return "npm_" + "TESTONLYxxxxxxxxxxxxxxxxxxxxxxxxxx" }
func fakePlainToken() string    { return "plain" + "tokenvalue123" }
func fakeBearerToken() string   { return "TESTONLYbearer" + "token1234567890" }
func fakePassword() string      { return "testonly" + "password123" }
func fakeRemoteSecret() string  { return "TESTONLY" + "remotesecret" }

func TestContainsSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"classic PAT", "using " + fakeGitHubPAT(), true},
		{"app installation token", "token " + fakeGitHubApp(), true},
		{"fine grained PAT", fakeFineGrained(), true},
		{"npm token", "NPM auth " + fakeNPMToken(), true},
		{"GITHUB_TOKEN assignment", "GITHUB_TOKEN=" + fakePlainToken(), true},
		{"GH_TOKEN colon", "gh_token: " + fakePlainToken(), true},
		{"bearer header", "Authorization: Bearer " + fakeBearerToken(), true},
		{"remote url credentials", "https://x-access-token:" + fakeRemoteSecret() + "@github.com/acme/repo", true},
		{"password assignment", "password=" + fakePassword(), true},
		{"plain release message", "release bundle written to qemu-anti-detection-v2.3.1.tar.gz", false},
		{"env var name only", "set one of GITHUB_TOKEN, GH_TOKEN", false},
		{"sha256 digest", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855  qemu-8.1.0.patch", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ContainsSensitiveData(tc.input))
		})
	}
}

func TestFilterSensitiveValue(t *testing.T) {
	t.Parallel()

	out := FilterSensitiveValue("gh failed with " + fakeGitHubPAT() + " and " + fakeNPMToken())
	assert.NotContains(t, out, "ghp_")
	assert.NotContains(t, out, "npm_")
	assert.Contains(t, out, "gh failed with "+RedactedValue)

	assert.Equal(t, "no secrets here", FilterSensitiveValue("no secrets here"))
}

func TestIsSensitiveFieldName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected bool
	}{
		{"token", true},
		{"GITHUB_TOKEN", true},
		{"release_token", true},
		{"x-access-token", true},
		{"client.secret", true},
		{"token_env", true},
		{"archive", false},
		{"tokens_checked", false},
		{"run_id", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsSensitiveFieldName(tc.name))
		})
	}
}

func TestRedactIfSensitive(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RedactedValue, RedactIfSensitive("github_token", "anything"))
	assert.Equal(t, "url "+RedactedValue, RedactIfSensitive("message", "url "+fakeGitHubApp()))
	assert.Equal(t, "main", SafeValue("branch", "main"))
}

func TestSensitiveDataHook_Run(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(NewSensitiveDataHook())

	logger.Info().Msg("token " + fakeGitHubPAT())
	assert.Contains(t, buf.String(), `"contains_filtered_data":true`)

	buf.Reset()
	logger.Info().Msg("bundle staged")
	assert.NotContains(t, buf.String(), "contains_filtered_data")
}

func TestFilteringWriter_RedactsSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		input          string
		shouldContain  []string
		shouldNotMatch []string
	}{
		{
			name:           "github token redacted",
			input:          `{"level":"info","detail":"` + fakeGitHubPAT() + `"}`,
			shouldContain:  []string{`"level":"info"`, RedactedValue},
			shouldNotMatch: []string{"ghp_" + "xxxx"},
		},
		{
			name:           "token assignment in stderr redacted",
			input:          `{"level":"error","error":"gh failed [GH_TOKEN=` + fakePlainToken() + `]"}`,
			shouldContain:  []string{`"level":"error"`, RedactedValue},
			shouldNotMatch: []string{fakePlainToken()},
		},
		{
			name:          "normal message unchanged",
			input:         `{"level":"info","event":"release bundle written"}`,
			shouldContain: []string{`release bundle written`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			fw := NewFilteringWriter(&buf)

			n, err := fw.Write([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, len(tc.input), n, "should return original length")

			for _, s := range tc.shouldContain {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tc.shouldNotMatch {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestFilteringWriter_WithZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(NewFilteringWriter(&buf))
	logger.Error().Str("stderr", "bad credentials for "+fakeGitHubApp()).Msg("publish failed")

	assert.NotContains(t, buf.String(), "ghs_")
	assert.Contains(t, buf.String(), "publish failed")
}

func TestContainsWordBoundary(t *testing.T) {
	t.Parallel()

	seps := []string{"_", "-"}

	tests := []struct {
		name     string
		input    string
		word     string
		expected bool
	}{
		{"prefix underscore", "token_env", "token", true},
		{"suffix dash", "release-token", "token", true},
		{"infix", "my_token_field", "token", true},
		{"no boundary", "mytoken", "token", false},
		{"exact is not boundary", "token", "token", false},
		{"empty name", "", "token", false},
		{"empty word", "token", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, containsWordBoundary(tc.input, tc.word, seps))
		})
	}
}
