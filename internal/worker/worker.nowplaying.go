// Package worker chứa các worker chạy nền của server.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"wiktowice_site/internal/logger"
)

// Giá trị hiển thị mặc định của widget radio
const (
	UnknownTitle  = "Nieznany tytuł"
	UnknownArtist = "Nieznany autor"
	NoData        = "Brak danych"
)

// Track là bài đang phát
type Track struct {
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Cover     string    `json:"cover"`
	Available bool      `json:"available"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NowPlayingWorker định kỳ hỏi API radio và giữ thông tin bài đang phát
type NowPlayingWorker struct {
	url         string
	interval    time.Duration
	fallbackArt string
	client      *fasthttp.Client
	timeout     time.Duration

	mu      sync.RWMutex
	current Track
}

// NewNowPlayingWorker tạo worker.
//
// Tham số:
//   - url: endpoint "track/current" của radio
//   - interval: khoảng cách giữa các lần hỏi (mặc định 10 giây)
//   - fallbackArt: ảnh dùng khi không có cover
func NewNowPlayingWorker(url string, interval time.Duration, fallbackArt string) *NowPlayingWorker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &NowPlayingWorker{
		url:         url,
		interval:    interval,
		fallbackArt: fallbackArt,
		client:      &fasthttp.Client{Name: "wiktowice-site"},
		timeout:     5 * time.Second,
		current:     Track{Title: NoData, Cover: fallbackArt},
	}
}

// Start hỏi ngay một lần rồi lặp theo interval đến khi ctx kết thúc
func (w *NowPlayingWorker) Start(ctx context.Context) {
	log := logger.WithModule("nowplaying")
	log.WithFields(map[string]interface{}{
		"url":      w.url,
		"interval": w.interval.String(),
	}).Info("📻 [NOW_PLAYING] Starting Now Playing Worker...")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("📻 [NOW_PLAYING] Now Playing Worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *NowPlayingWorker) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithModule("nowplaying").WithField("panic", r).Error("📻 [NOW_PLAYING] Panic, sẽ thử lại lần sau")
		}
	}()
	w.Poll(ctx)
}

// Current trả về bài đang phát gần nhất
func (w *NowPlayingWorker) Current() Track {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Poll hỏi API một lần và cập nhật trạng thái.
// Lỗi mạng: tiêu đề "Brak danych", giữ nguyên cover cũ.
func (w *NowPlayingWorker) Poll(ctx context.Context) Track {
	body, err := w.fetch(ctx)
	if err == nil {
		var title, artist, cover string
		title, artist, cover, err = ParseTrack(body)
		if err == nil {
			return w.update(title, artist, cover)
		}
	}

	logger.WithModule("nowplaying").WithError(err).Debug("Błąd pobierania aktualnego utworu")
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current.Title = NoData
	w.current.Artist = ""
	w.current.Available = false
	w.current.UpdatedAt = time.Now()
	return w.current
}

// update áp dụng quy tắc hiển thị: không có cover thì coi như không rõ nghệ sĩ
func (w *NowPlayingWorker) update(title, artist, cover string) Track {
	t := Track{Title: title, Artist: artist, Cover: cover, Available: true, UpdatedAt: time.Now()}
	if t.Title == "" {
		t.Title = UnknownTitle
	}
	if t.Cover == "" {
		t.Artist = UnknownArtist
		t.Cover = w.fallbackArt
	}
	w.mu.Lock()
	w.current = t
	w.mu.Unlock()
	return t
}

func (w *NowPlayingWorker) fetch(ctx context.Context) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(w.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Cache-Control", "no-store")

	timeout := w.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if err := w.client.DoTimeout(req, resp, timeout); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("now playing: HTTP %d", resp.StatusCode())
	}
	return append([]byte(nil), resp.Body()...), nil
}

// ParseTrack đọc title/artist/cover từ response của API radio.
// Cấu trúc không cố định nên các tên trường thường gặp được thử lần lượt.
func ParseTrack(body []byte) (title, artist, cover string, err error) {
	var root map[string]interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return "", "", "", err
	}

	track := root
	for _, key := range []string{"track", "currentTrack", "song"} {
		if obj, ok := root[key].(map[string]interface{}); ok {
			track = obj
			break
		}
	}

	title = firstText(track, "title", "name", "trackTitle")
	artist = firstText(track, "artist", "artists", "author")
	for _, key := range []string{"cover", "picture", "artwork"} {
		switch v := track[key].(type) {
		case string:
			if v != "" {
				return title, artist, v, nil
			}
		case map[string]interface{}:
			// Cover dạng object: lấy url hoặc src
			return title, artist, firstText(v, "url", "src"), nil
		}
	}
	return title, artist, "", nil
}

// firstText trả về giá trị chuỗi khác rỗng đầu tiên trong các key
func firstText(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := text(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

func text(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			switch it := item.(type) {
			case string:
				parts = append(parts, it)
			case map[string]interface{}:
				if name, ok := it["name"].(string); ok {
					parts = append(parts, name)
				}
			}
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		if name, ok := t["name"].(string); ok {
			return name
		}
	}
	return ""
}
