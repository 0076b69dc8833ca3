package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"wiktowice_site/internal/common"
	"wiktowice_site/internal/utility"
)

// StaticSource đọc file JSON tĩnh của một collection
type StaticSource interface {
	Read(ctx context.Context, file string) ([]byte, error)
}

// HTTPStatic đọc file tĩnh qua HTTP, mỗi lần đọc gắn ?nocache=<unix ms>
type HTTPStatic struct {
	BaseURL string
	Client  *fasthttp.Client
	Timeout time.Duration
	// Now cho phép cố định thời gian trong test
	Now func() int64
}

// NewHTTPStatic tạo nguồn tĩnh HTTP
func NewHTTPStatic(baseURL string, timeout time.Duration) *HTTPStatic {
	return &HTTPStatic{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &fasthttp.Client{Name: "wiktowice-site"},
		Timeout: timeout,
		Now:     utility.CurrentTimeInMilli,
	}
}

// URL trả về địa chỉ đầy đủ có tham số chống cache
func (h *HTTPStatic) URL(file string) string {
	sep := "?"
	if strings.Contains(file, "?") {
		sep = "&"
	}
	return h.BaseURL + "/" + strings.TrimLeft(file, "/") + sep + "nocache=" + strconv.FormatInt(h.Now(), 10)
}

// Read tải file, status khác 200 được coi là lỗi mạng
func (h *HTTPStatic) Read(ctx context.Context, file string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(h.URL(file))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Cache-Control", "no-cache")

	timeout := h.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	var err error
	if timeout > 0 {
		err = h.Client.DoTimeout(req, resp, timeout)
	} else {
		err = h.Client.Do(req, resp)
	}
	if err != nil {
		return nil, common.NewNetworkError("Nie udało się pobrać pliku "+file, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, common.NewError(common.ErrCodeNetworkStatus,
			fmt.Sprintf("Plik %s: HTTP %d", file, resp.StatusCode()),
			common.StatusBadGateway, map[string]interface{}{"file": file, "status": resp.StatusCode()})
	}
	return append([]byte(nil), resp.Body()...), nil
}

// DirStatic đọc file tĩnh trực tiếp từ thư mục dữ liệu
type DirStatic struct {
	Root string
}

// Read đọc file dưới Root, không cho phép thoát khỏi Root
func (d DirStatic) Read(ctx context.Context, file string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.NewNetworkError("Żądanie zostało anulowane", err)
	}
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return nil, common.NewNetworkError("Nieprawidłowy katalog danych", err)
	}
	path := filepath.Join(root, filepath.FromSlash(file))
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return nil, common.NewValidationError("Nieprawidłowa ścieżka pliku: " + file)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.NewError(common.ErrCodeNetworkStatus, "Brak pliku "+file,
				common.StatusNotFound, map[string]interface{}{"file": file})
		}
		return nil, common.NewNetworkError("Nie udało się odczytać pliku "+file, err)
	}
	return data, nil
}
