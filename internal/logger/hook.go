package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook ghi log bất đồng bộ qua một goroutine riêng để không block request.
// Khi buffer đầy, entry mới bị bỏ qua.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHook tạo async hook với danh sách writers và kích thước buffer
func NewAsyncHook(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}
	h.wg.Add(1)
	go h.processEntries()
	return h
}

// Levels trả về các log levels mà hook xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đưa entry vào hàng đợi, không block
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		// Hook đã đóng: ghi trực tiếp
		h.write(entry)
		return nil
	}
	select {
	case h.entries <- entry.Dup():
	default:
	}
	h.mu.Unlock()
	return nil
}

// processEntries ghi các entry trong hàng đợi, có recover để không làm crash server
func (h *AsyncHook) processEntries() {
	defer h.wg.Done()
	for entry := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] %v\n", r)
					debug.PrintStack()
				}
			}()
			h.write(entry)
		}()
	}
}

// write format entry và ghi ra tất cả writers, bỏ qua entry đã bị FilterHook đánh dấu
func (h *AsyncHook) write(entry *logrus.Entry) {
	if filtered, ok := entry.Data[filteredKey].(bool); ok && filtered {
		return
	}
	if _, ok := entry.Data[filteredKey]; ok {
		entry = entry.Dup()
		delete(entry.Data, filteredKey)
	}

	var (
		data []byte
		err  error
	)
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		data, err = entry.Logger.Formatter.Format(entry)
	} else {
		var line string
		line, err = entry.String()
		data = []byte(line)
	}
	if err != nil {
		return
	}
	for _, w := range h.writers {
		_, _ = w.Write(data)
	}
}

// Close đóng hook và đợi các entry còn lại được ghi xong
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	close(h.entries)
	h.wg.Wait()
	return nil
}
