package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net"
	"net/textproto"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/notify"
	"wiktowice_site/internal/remote"
)

// Kind là loại đích lưu
type Kind string

const (
	KindRemoteDb       Kind = "remote"
	KindLocalDevServer Kind = "dev-server"
	KindHostedUpload   Kind = "hosted-upload"
	KindBrowserOnly    Kind = "browser"
)

// Environment mô tả môi trường của người đang thao tác (host mà panel được mở)
type Environment struct {
	Hostname string `json:"hostname"`
}

// host trả về hostname không có port, chữ thường
func (e Environment) host() string {
	h := strings.ToLower(strings.TrimSpace(e.Hostname))
	if hostOnly, _, err := net.SplitHostPort(h); err == nil {
		h = hostOnly
	}
	return strings.Trim(h, "[]")
}

// IsLocal cho biết panel chạy ở máy phát triển
func (e Environment) IsLocal() bool {
	h := e.host()
	return h == "localhost" || h == "127.0.0.1"
}

// IsGitHubPages cho biết panel chạy trên GitHub Pages
func (e Environment) IsGitHubPages() bool {
	return strings.Contains(e.host(), "github.io")
}

// Request là dữ liệu của một lần lưu
type Request struct {
	Spec     models.CollectionSpec
	Payload  []byte // JSON 4 dấu cách của toàn bộ collection
	Env      Environment
	ReadOnly bool   // Collection được load từ file tĩnh
	Token    string // Token upload của hosting (nếu có)
}

// Result là kết quả của đích lưu
type Result struct {
	Level   notify.Level
	Message string
	// Durable = true khi dữ liệu đã nằm ở nơi lưu bền vững
	Durable bool
	// Retry = true khi người dùng có thể thử lại thủ công
	Retry bool
	// Authoritative là dữ liệu chuẩn do database trả về
	Authoritative []byte
	Err           error
}

// Destination là một đích lưu trong chuỗi
type Destination interface {
	Kind() Kind
	// Pending là thông báo hiển thị trước khi bắt đầu (rỗng = không có)
	Pending() string
	Available(req Request) bool
	Save(ctx context.Context, req Request) Result
}

// RemoteDb upsert toàn bộ collection lên database
type RemoteDb struct {
	Adapter *remote.Adapter
}

func (d *RemoteDb) Kind() Kind      { return KindRemoteDb }
func (d *RemoteDb) Pending() string { return "⏳ Wysyłanie do Supabase..." }

// Available khi có database cho collection và dữ liệu không đến từ file tĩnh
func (d *RemoteDb) Available(req Request) bool {
	return d.Adapter != nil && d.Adapter.RemoteFor(req.Spec) && !req.ReadOnly
}

func (d *RemoteDb) Save(ctx context.Context, req Request) Result {
	rows, err := d.Adapter.InsertOrUpdate(ctx, req.Spec.Name, req.Payload)
	if err != nil {
		return Result{Level: notify.LevelError, Message: "⚠️ Błąd chmury: " + common.UserMessage(err), Err: err}
	}
	return Result{
		Level:         notify.LevelSuccess,
		Message:       "✅ Zsynchronizowano z chmurą (Supabase)",
		Durable:       true,
		Authoritative: rows,
	}
}

// LocalDevServer gửi collection tới endpoint ghi file khi chạy ở localhost
type LocalDevServer struct {
	URL     string
	Client  *fasthttp.Client
	Timeout time.Duration
}

func (d *LocalDevServer) Kind() Kind      { return KindLocalDevServer }
func (d *LocalDevServer) Pending() string { return "" }

func (d *LocalDevServer) Available(req Request) bool {
	return d.URL != "" && req.Env.IsLocal()
}

// SaveBody là body của POST /save
type SaveBody struct {
	File    string          `json:"file"`
	Content json.RawMessage `json:"content"`
}

func (d *LocalDevServer) Save(ctx context.Context, req Request) Result {
	body, err := json.Marshal(SaveBody{File: req.Spec.File, Content: req.Payload})
	if err != nil {
		return Result{Level: notify.LevelError, Message: err.Error(), Err: err}
	}

	httpReq := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(resp)
	httpReq.SetRequestURI(d.URL)
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.SetBody(body)

	if err := doRequest(ctx, d.Client, httpReq, resp, d.Timeout); err != nil {
		return Result{Level: notify.LevelInfo, Message: "⚠️ Zapisano w przeglądarce (Serwer wyłączony)", Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return Result{
			Level:   notify.LevelWarning,
			Message: "⚠️ Błąd lokalnego serwera",
			Err:     fmt.Errorf("dev server status %d", resp.StatusCode()),
		}
	}
	return Result{Level: notify.LevelSuccess, Message: "✅ Zapisano lokalnie (Serwer)", Durable: true}
}

// HostedUpload upload file JSON lên API của hosting tĩnh bằng token Bearer
type HostedUpload struct {
	URL     string
	Client  *fasthttp.Client
	Timeout time.Duration
}

func (d *HostedUpload) Kind() Kind      { return KindHostedUpload }
func (d *HostedUpload) Pending() string { return "⏳ Wysyłanie do Neocities..." }

func (d *HostedUpload) Available(req Request) bool {
	return d.URL != "" && req.Token != ""
}

// BuildUploadBody dựng multipart body: field mang tên file, nội dung là JSON của collection
func BuildUploadBody(file string, payload []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file, file))
	h.Set("Content-Type", "application/json")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func (d *HostedUpload) Save(ctx context.Context, req Request) Result {
	body, contentType, err := BuildUploadBody(req.Spec.File, req.Payload)
	if err != nil {
		return Result{Level: notify.LevelError, Message: err.Error(), Err: err}
	}

	httpReq := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(resp)
	httpReq.SetRequestURI(d.URL)
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType(contentType)
	httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	httpReq.SetBody(body)

	err = doRequest(ctx, d.Client, httpReq, resp, d.Timeout)
	if err == nil && (resp.StatusCode() < 200 || resp.StatusCode() >= 300) {
		err = fmt.Errorf("Status: %d", resp.StatusCode())
	}
	if err != nil {
		return Result{
			Level:   notify.LevelError,
			Message: fmt.Sprintf("Błąd wysyłania: %s.\n\nCzy chcesz spróbować ponownie?", err.Error()),
			Retry:   true,
			Err:     err,
		}
	}
	return Result{Level: notify.LevelSuccess, Message: "🚀 Zapisano na Neocities! (Odczekaj 30s na odświeżenie)", Durable: true}
}

// BrowserOnly là đích cuối: dữ liệu chỉ nằm trong mirror
type BrowserOnly struct{}

func (d BrowserOnly) Kind() Kind             { return KindBrowserOnly }
func (d BrowserOnly) Pending() string        { return "" }
func (d BrowserOnly) Available(Request) bool { return true }

func (d BrowserOnly) Save(_ context.Context, req Request) Result {
	if req.Env.IsGitHubPages() {
		return Result{Level: notify.LevelSuccess, Message: "ℹ️ GitHub Pages: Zapisano w przeglądarce."}
	}
	return Result{Level: notify.LevelSuccess, Message: "✅ Zapisano w przeglądarce."}
}

// doRequest thực hiện request với timeout nhỏ hơn giữa Timeout và deadline của ctx
func doRequest(ctx context.Context, client *fasthttp.Client, req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	if client == nil {
		client = &fasthttp.Client{}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		return client.DoTimeout(req, resp, timeout)
	}
	return client.Do(req, resp)
}
