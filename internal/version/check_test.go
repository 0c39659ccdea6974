package version

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/idea-blueprint/internal/config"
)

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		name    string
		latest  string
		current string
		want    bool
	}{
		{"same version", "1.0.0", "1.0.0", false},
		{"patch newer", "1.0.1", "1.0.0", true},
		{"minor newer", "1.1.0", "1.0.0", true},
		{"major newer", "2.0.0", "1.0.0", true},
		{"current newer", "1.0.0", "1.0.1", false},
		{"longer version newer", "1.0.0.1", "1.0.0", true},
		{"double digit", "1.10.0", "1.9.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNewerVersion(tt.latest, tt.current))
		})
	}
}

func TestParseVersionPart(t *testing.T) {
	tests := map[string]int{"1": 1, "10": 10, "0": 0, "1-beta": 1, "2-rc1": 2}
	for in, want := range tests {
		assert.Equal(t, want, parseVersionPart(in), in)
	}
}

func withReleaseServer(t *testing.T, tag string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"` + tag + `","html_url":"https://example.test/release"}`))
	}))
	t.Cleanup(srv.Close)

	orig := releaseURL
	releaseURL = srv.URL
	t.Cleanup(func() { releaseURL = orig })
}

func TestCheckForUpdate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	withReleaseServer(t, "v0.3.0")

	result := CheckForUpdate(context.Background(), "v0.2.1")
	require.NotNil(t, result)
	assert.True(t, result.UpdateAvailable)
	assert.Equal(t, "v0.3.0", result.LatestVersion)

	// Marker was written, so a second check within the interval is skipped
	assert.Nil(t, CheckForUpdate(context.Background(), "v0.2.1"))

	var buf bytes.Buffer
	PrintUpdateNotice(&buf, result)
	assert.Contains(t, buf.String(), "v0.3.0")
	assert.Contains(t, buf.String(), "go install github.com/dhabedank/idea-blueprint@latest")
}

func TestCheckForUpdateSkipsDevAndCurrent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	withReleaseServer(t, "v0.2.1")

	assert.Nil(t, CheckForUpdate(context.Background(), "dev"))
	assert.Nil(t, CheckForUpdate(context.Background(), "v0.2.1"))
}

func TestFirstRun(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.True(t, IsFirstRun())

	var buf bytes.Buffer
	PrintFirstRunNotice(&buf)
	assert.Contains(t, buf.String(), "Welcome to idea-blueprint")
	assert.False(t, IsFirstRun())

	require.NoError(t, os.RemoveAll(filepath.Join(home, stateDir)))
	require.NoError(t, os.WriteFile(filepath.Join(home, config.FileName), []byte("provider: auto\n"), 0644))
	assert.False(t, IsFirstRun())
}
