package devsave

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewServer(root)
	require.NoError(t, err)
	return s, s.Root()
}

func call(t *testing.T, s *Server, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	resp, err := s.NewApp().Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(raw)
}

func TestResolve(t *testing.T) {
	s, root := newTestServer(t)

	p, err := s.Resolve("bank/884_users_secure.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "bank", "884_users_secure.json"), p)

	for _, bad := range []string{"", "../x.json", "bank/../../x.json", "."} {
		_, err := s.Resolve(bad)
		assert.ErrorIs(t, err, ErrPathEscape, bad)
	}
}

func TestHandleSave(t *testing.T) {
	t.Run("Ghi JSON thụt lề 4 dấu cách", func(t *testing.T) {
		s, root := newTestServer(t)
		resp, body := call(t, s, http.MethodPost, "/save", `{"file":"site_config.json","content":{"motd":"Hej","maintenance":false}}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, MsgSaved, body)
		assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))

		data, err := os.ReadFile(filepath.Join(root, "site_config.json"))
		require.NoError(t, err)
		assert.Equal(t, "{\n    \"motd\": \"Hej\",\n    \"maintenance\": false\n}", string(data))
	})

	t.Run("JSON hỏng", func(t *testing.T) {
		s, _ := newTestServer(t)
		resp, body := call(t, s, http.MethodPost, "/save", `{"file":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, MsgBadJSON, body)
	})

	t.Run("Đường dẫn ra ngoài root bị chặn", func(t *testing.T) {
		s, root := newTestServer(t)
		resp, _ := call(t, s, http.MethodPost, "/save", `{"file":"../evil.json","content":[]}`)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		_, err := os.Stat(filepath.Join(filepath.Dir(root), "evil.json"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Thư mục con không tồn tại thì lỗi ghi", func(t *testing.T) {
		s, _ := newTestServer(t)
		resp, body := call(t, s, http.MethodPost, "/save", `{"file":"brak/plik.json","content":[]}`)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.True(t, strings.HasPrefix(body, "Błąd zapisu: "))
	})
}

func TestHandleStatic(t *testing.T) {
	s, root := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>Wiktowice</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("console.log(1)"), 0o644))

	t.Run("/ trả về index.html", func(t *testing.T) {
		resp, body := call(t, s, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "<h1>Wiktowice</h1>", body)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	})

	t.Run("Content type theo phần mở rộng", func(t *testing.T) {
		resp, _ := call(t, s, http.MethodGet, "/app.js", "")
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/javascript")
	})

	t.Run("File không tồn tại", func(t *testing.T) {
		resp, body := call(t, s, http.MethodGet, "/brak.png", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, MsgNotFound, body)
	})

	t.Run("Preflight CORS", func(t *testing.T) {
		resp, _ := call(t, s, http.MethodOptions, "/save", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
