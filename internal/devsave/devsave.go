// Package devsave là server phụ chạy ở máy admin: nhận POST /save để ghi file JSON
// vào thư mục site và phục vụ các file tĩnh của thư mục đó.
package devsave

import (
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"

	"wiktowice_site/internal/logger"
	"wiktowice_site/internal/utility"
)

// Message trả về cho admin panel (text/plain)
const (
	MsgSaved        = "Zapisano pomyślnie na dysku."
	MsgBadJSON      = "Błąd danych JSON."
	MsgPathDenied   = "Nieautoryzowany dostęp do ścieżki."
	MsgNotFound     = "404 Not Found"
	MsgServerError  = "500 Server Error"
	msgWriteFailure = "Błąd zapisu: "
)

// ErrPathEscape khi đường dẫn trỏ ra ngoài thư mục gốc
var ErrPathEscape = errors.New("path escapes root")

// contentTypes theo phần mở rộng, mặc định text/html
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".jpg":  "image/jpeg",
}

// SaveRequest là body của POST /save
type SaveRequest struct {
	File    string          `json:"file"`
	Content json.RawMessage `json:"content"`
}

// Server ghi và phục vụ file dưới một thư mục gốc cố định
type Server struct {
	root string
}

// NewServer tạo server với thư mục gốc root
func NewServer(root string) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Server{root: abs}, nil
}

// Root trả về thư mục gốc tuyệt đối
func (s *Server) Root() string { return s.root }

// Resolve chuyển đường dẫn tương đối thành đường dẫn tuyệt đối dưới root
func (s *Server) Resolve(file string) (string, error) {
	if strings.TrimSpace(file) == "" {
		return "", ErrPathEscape
	}
	p := filepath.Join(s.root, filepath.FromSlash(file))
	if p == s.root || !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return p, nil
}

// NewApp tạo fiber app với đủ route của server phụ
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{AppName: "wiktowice-devsave"})
	s.Register(app)
	return app
}

// Register gắn middleware header và các route vào app
func (s *Server) Register(app *fiber.App) {
	app.Use(func(c fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Content-Type")
		c.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		return c.Next()
	})
	app.Options("/*", s.HandleOptions)
	app.Post("/save", s.HandleSave)
	app.Get("/*", s.HandleStatic)
}

// HandleOptions trả lời preflight CORS
func (s *Server) HandleOptions(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func sendText(c fiber.Ctx, status int, msg string) error {
	c.Set("Content-Type", "text/plain; charset=utf-8")
	return c.Status(status).SendString(msg)
}

// HandleSave ghi content (thụt lề 4 dấu cách) vào file dưới root
func (s *Server) HandleSave(c fiber.Ctx) error {
	log := logger.WithModule("devsave")

	var req SaveRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || len(req.Content) == 0 {
		log.WithError(err).Warn("Błąd przetwarzania żądania")
		return sendText(c, fiber.StatusBadRequest, MsgBadJSON)
	}

	target, err := s.Resolve(req.File)
	if err != nil {
		log.WithField("file", req.File).Warn("Path traversal attempt")
		return sendText(c, fiber.StatusForbidden, MsgPathDenied)
	}

	pretty, err := utility.ReindentJSON(req.Content)
	if err != nil {
		return sendText(c, fiber.StatusBadRequest, MsgBadJSON)
	}

	if err := os.WriteFile(target, pretty, 0o644); err != nil {
		log.WithError(err).WithField("file", req.File).Error("Błąd zapisu")
		return sendText(c, fiber.StatusInternalServerError, msgWriteFailure+err.Error())
	}
	log.WithField("file", req.File).Info("Zapisano plik")
	return sendText(c, fiber.StatusOK, MsgSaved)
}

// HandleStatic phục vụ file dưới root, "/" là index.html
func (s *Server) HandleStatic(c fiber.Ctx) error {
	rel, err := url.PathUnescape(c.Path())
	if err != nil {
		return sendText(c, fiber.StatusBadRequest, MsgNotFound)
	}
	if rel == "/" || rel == "" {
		rel = "/index.html"
	}
	target, err := s.Resolve(strings.TrimPrefix(rel, "/"))
	if err != nil {
		return sendText(c, fiber.StatusForbidden, MsgPathDenied)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sendText(c, fiber.StatusNotFound, MsgNotFound)
		}
		logger.WithModule("devsave").WithError(err).Error("Read failed")
		return sendText(c, fiber.StatusInternalServerError, MsgServerError)
	}

	ct, ok := contentTypes[strings.ToLower(filepath.Ext(target))]
	if !ok {
		ct = contentTypes[".html"]
	}
	c.Set("Content-Type", ct)
	return c.Status(fiber.StatusOK).Send(data)
}
