// Package syncer lưu collection ra nơi bền vững sau mỗi thay đổi.
// Bước 1 luôn ghi bản sao cục bộ (mirror), sau đó chọn đúng một đích trong chuỗi:
// RemoteDb, LocalDevServer, HostedUpload, BrowserOnly.
package syncer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Key trong mirror
const (
	mirrorPrefix    = "admin_db_"
	HostingTokenKey = "neocities_api_key"
)

// MirrorKey trả về key mirror của collection
func MirrorKey(name string) string {
	return mirrorPrefix + name
}

// Mirror là kho key/value trên đĩa, mỗi key là một file
type Mirror struct {
	dir string
}

// NewMirror tạo mirror tại thư mục dir (tạo thư mục nếu chưa có)
func NewMirror(dir string) (*Mirror, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create mirror dir: %w", err)
	}
	return &Mirror{dir: dir}, nil
}

func (m *Mirror) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid mirror key %q", key)
	}
	return filepath.Join(m.dir, key+".json"), nil
}

// Write ghi value cho key: ghi file tạm rồi rename để không để lại file dở dang
func (m *Mirror) Write(key string, value []byte) error {
	p, err := m.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(m.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Read đọc value, trả về nil nếu key chưa có
func (m *Mirror) Read(key string) ([]byte, error) {
	p, err := m.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Delete xóa key
func (m *Mirror) Delete(key string) error {
	p, err := m.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
