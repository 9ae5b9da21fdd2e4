package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageLoaderFallback(t *testing.T) {
	p := NewPageLoader(filepath.Join(t.TempDir(), "missing.html"))
	assert.Equal(t, fallbackIndex, p.Index())
}

func TestPageLoaderReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>v1</h1>"), 0o644))

	p := NewPageLoader(path)
	assert.Equal(t, "<h1>v1</h1>", string(p.Index()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, p.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte("<h1>v2</h1>"), 0o644))
	require.Eventually(t, func() bool {
		return string(p.Index()) == "<h1>v2</h1>"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHomeServesLoadedPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>Asteroids</h1>"), 0o644))

	mux, _, _ := setup(t, &fakeModel{})
	SetPageLoader(NewPageLoader(path))
	t.Cleanup(func() { SetPageLoader(nil) })

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<h1>Asteroids</h1>", w.Body.String())
}
