package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"testing"

	"assetdesk/internal/config"
	"assetdesk/internal/fontcache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a server with defaults and a font cache that cannot
// fetch anything.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	fonts := fontcache.New("http://127.0.0.1:0/unreachable", filepath.Join(t.TempDir(), "font.ttf"))

	srv := httptest.NewServer(New(cfg, fonts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// multipartUpload builds a multipart body with the given files and fields.
func multipartUpload(t *testing.T, files map[string][]byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write(files[name])
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func createBatch(t *testing.T, srv *httptest.Server, files map[string][]byte, fields map[string]string) (map[string]any, *http.Response) {
	t.Helper()

	body, contentType := multipartUpload(t, files, fields)
	resp, err := http.Post(srv.URL+"/api/batches", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded, resp
}

var twoBranches = map[string][]byte{
	"a.csv": []byte("Name,Status,부서,Model,Serial\nA1,정상,총무팀,Laptop,001\nA2,수리 필요,개발팀,Desktop,002\n"),
	"b.csv": []byte("Name,Status,부서,Model,Serial\nB1,폐기 예정,총무팀,Laptop,003\n"),
}

func TestCreateBatch(t *testing.T) {
	srv := newTestServer(t)

	t.Run("merges and summarizes an upload", func(t *testing.T) {
		body, resp := createBatch(t, srv, twoBranches, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		assert.NotEmpty(t, body["batch_id"])
		assert.EqualValues(t, 3, body["row_count"])
		assert.Equal(t, "Status", body["status_column"])
		assert.Equal(t, "부서", body["department_column"])
		assert.Equal(t, "Model", body["type_column"])

		metrics := body["metrics"].(map[string]any)
		assert.EqualValues(t, 3, metrics["total"])
		assert.EqualValues(t, 1, metrics["needs_repair"])
		assert.EqualValues(t, 1, metrics["disposal"])

		preview := body["preview"].([]any)
		require.Len(t, preview, 3)
		first := preview[0].(map[string]any)
		assert.Equal(t, "A1", first["Name"])
	})

	t.Run("applies a serial rule", func(t *testing.T) {
		body, resp := createBatch(t, srv, twoBranches, map[string]string{"rule": "prefix=HQ-"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Serial", body["serial_column"])

		first := body["preview"].([]any)[0].(map[string]any)
		assert.Equal(t, "HQ-001", first["Serial"])
	})

	t.Run("one bad file aborts the batch and names the file", func(t *testing.T) {
		files := map[string][]byte{
			"good.csv":   []byte("Name,Status\nA1,정상\n"),
			"broken.bin": {},
		}
		body, resp := createBatch(t, srv, files, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body["error"], "broken.bin")
	})

	t.Run("rows-free upload reports an empty result", func(t *testing.T) {
		files := map[string][]byte{"empty.csv": []byte("Name,Status\n")}
		body, resp := createBatch(t, srv, files, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body["error"], "no usable rows")
	})

	t.Run("no files is a bad request", func(t *testing.T) {
		_, resp := createBatch(t, srv, nil, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("without a Status column the client must pick a candidate", func(t *testing.T) {
		files := map[string][]byte{"a.csv": []byte("Name,상태표시\nA1,정상\n")}
		body, resp := createBatch(t, srv, files, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		_, hasMetrics := body["metrics"]
		assert.False(t, hasMetrics)
		assert.ElementsMatch(t, []any{"Name", "상태표시"}, body["status_candidates"].([]any))
	})

	t.Run("numeric-only tables cannot hold a status", func(t *testing.T) {
		files := map[string][]byte{"a.csv": []byte("Count,Qty\n1,2\n")}
		body, resp := createBatch(t, srv, files, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body["error"], "text-typed")
	})
}

func TestSummary(t *testing.T) {
	srv := newTestServer(t)
	body, _ := createBatch(t, srv, twoBranches, nil)
	base := fmt.Sprintf("%s/api/batches/%s", srv.URL, body["batch_id"])

	t.Run("recomputes metrics for the resolved column", func(t *testing.T) {
		resp, err := http.Get(base + "/summary")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var m map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
		assert.Equal(t, map[string]int{"total": 3, "needs_repair": 1, "disposal": 1}, m)
	})

	t.Run("unknown column is rejected", func(t *testing.T) {
		resp, err := http.Get(base + "/summary?status_column=nope")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("unknown batch is not found", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/batches/missing/summary")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCharts(t *testing.T) {
	srv := newTestServer(t)
	body, _ := createBatch(t, srv, twoBranches, nil)
	base := fmt.Sprintf("%s/api/batches/%s", srv.URL, body["batch_id"])

	for _, path := range []string{"/charts/departments.png", "/charts/types.png"} {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(base + path)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

			png, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
		})
	}

	t.Run("explicit grouping column", func(t *testing.T) {
		resp, err := http.Get(base + "/charts/departments.png?column=Status")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestExports(t *testing.T) {
	srv := newTestServer(t)
	body, _ := createBatch(t, srv, twoBranches, nil)
	base := fmt.Sprintf("%s/api/batches/%s", srv.URL, body["batch_id"])

	t.Run("xlsx download", func(t *testing.T) {
		resp, err := http.Get(base + "/export/xlsx")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "merged_assets.xlsx")
	})

	t.Run("pdf export without the font fails cleanly", func(t *testing.T) {
		resp, err := http.Get(base + "/export/pdf")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	})
}
