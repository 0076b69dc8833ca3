package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrack(t *testing.T) {
	t.Run("Object track lồng trong root", func(t *testing.T) {
		title, artist, cover, err := ParseTrack([]byte(`{"track":{"title":"Polka","artist":"Kapela","cover":"https://x/c.jpg"}}`))
		require.NoError(t, err)
		assert.Equal(t, "Polka", title)
		assert.Equal(t, "Kapela", artist)
		assert.Equal(t, "https://x/c.jpg", cover)
	})

	t.Run("Tên trường thay thế và cover dạng object", func(t *testing.T) {
		title, artist, cover, err := ParseTrack([]byte(`{"currentTrack":{"name":"Oberek","author":"Jan","picture":{"src":"p.png"}}}`))
		require.NoError(t, err)
		assert.Equal(t, "Oberek", title)
		assert.Equal(t, "Jan", artist)
		assert.Equal(t, "p.png", cover)
	})

	t.Run("Dữ liệu nằm ở root, artists là mảng", func(t *testing.T) {
		title, artist, _, err := ParseTrack([]byte(`{"trackTitle":"Mazurek","artists":["A","B"]}`))
		require.NoError(t, err)
		assert.Equal(t, "Mazurek", title)
		assert.Equal(t, "A, B", artist)
	})

	t.Run("JSON hỏng", func(t *testing.T) {
		_, _, _, err := ParseTrack([]byte(`<html>`))
		assert.Error(t, err)
	})
}

func TestNowPlayingWorkerPoll(t *testing.T) {
	t.Run("Không có cover: nghệ sĩ không rõ, dùng ảnh mặc định", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"track":{"title":"","artist":"Kapela"}}`))
		}))
		defer srv.Close()

		w := NewNowPlayingWorker(srv.URL, time.Second, "brakikony.png")
		track := w.Poll(context.Background())
		assert.Equal(t, UnknownTitle, track.Title)
		assert.Equal(t, UnknownArtist, track.Artist)
		assert.Equal(t, "brakikony.png", track.Cover)
		assert.True(t, track.Available)
	})

	t.Run("Lỗi mạng giữ nguyên cover trước đó", func(t *testing.T) {
		var fail atomic.Bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fail.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{"song":{"title":"Polka","artist":"Kapela","artwork":"c.jpg"}}`))
		}))
		defer srv.Close()

		w := NewNowPlayingWorker(srv.URL, time.Second, "brakikony.png")
		first := w.Poll(context.Background())
		assert.Equal(t, "Polka", first.Title)

		fail.Store(true)
		second := w.Poll(context.Background())
		assert.Equal(t, NoData, second.Title)
		assert.Equal(t, "", second.Artist)
		assert.Equal(t, "c.jpg", second.Cover)
		assert.False(t, second.Available)
		assert.Equal(t, second, w.Current())
	})

	t.Run("Start dừng khi context bị hủy", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"title":"X","cover":"c.jpg"}`))
		}))
		defer srv.Close()

		w := NewNowPlayingWorker(srv.URL, 20*time.Millisecond, "brakikony.png")
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			w.Start(ctx)
			close(done)
		}()
		time.Sleep(100 * time.Millisecond)
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Worker không dừng")
		}
		assert.GreaterOrEqual(t, calls.Load(), int32(2))
		assert.Equal(t, "X", w.Current().Title)
	})
}
