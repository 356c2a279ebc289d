package fontcache

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	fontBytes := []byte("not really a font, but bytes travel the same way")

	t.Run("fetches once and persists to disk", func(t *testing.T) {
		hits := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.Write(fontBytes)
		}))
		defer srv.Close()

		path := filepath.Join(t.TempDir(), "fonts", "test.ttf")
		c := New(srv.URL, path)

		data, err := c.Font()
		require.NoError(t, err)
		assert.Equal(t, fontBytes, data)

		// Second call is served from memory.
		_, err = c.Font()
		require.NoError(t, err)
		assert.Equal(t, 1, hits)

		// The fetch persisted the file.
		onDisk, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, fontBytes, onDisk)
	})

	t.Run("disk cache survives process restarts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.ttf")
		require.NoError(t, os.WriteFile(path, fontBytes, 0644))

		// URL pointing nowhere: a disk hit must not touch the network.
		c := New("http://127.0.0.1:0/unreachable", path)

		data, err := c.Font()
		require.NoError(t, err)
		assert.Equal(t, fontBytes, data)
	})

	t.Run("fetch failure is returned and retried on the next call", func(t *testing.T) {
		fail := true
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fail {
				http.Error(w, "nope", http.StatusServiceUnavailable)
				return
			}
			w.Write(fontBytes)
		}))
		defer srv.Close()

		c := New(srv.URL, filepath.Join(t.TempDir(), "test.ttf"))

		_, err := c.Font()
		require.Error(t, err)

		fail = false
		data, err := c.Font()
		require.NoError(t, err)
		assert.Equal(t, fontBytes, data)
	})
}
