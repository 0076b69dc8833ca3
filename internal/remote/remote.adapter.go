package remote

import (
	"context"
	"fmt"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/logger"
	"wiktowice_site/internal/registry"
)

// FetchResult là kết quả load một collection
type FetchResult struct {
	Raw    []byte
	Source models.Source
	// ReadOnly = true khi dữ liệu đến từ file tĩnh: ghi trong phiên này không lên database
	ReadOnly bool
	// RemoteErr giữ lỗi của database khi đã phải dùng file tĩnh
	RemoteErr error
}

// Adapter thống nhất việc đọc/ghi collection qua database từ xa và file tĩnh
type Adapter struct {
	specs  *registry.Registry[models.CollectionSpec]
	client Client // nil = không cấu hình database
	static StaticSource
}

// NewAdapter tạo adapter; client có thể nil
func NewAdapter(specs *registry.Registry[models.CollectionSpec], client Client, static StaticSource) *Adapter {
	return &Adapter{specs: specs, client: client, static: static}
}

// HasRemote cho biết có database từ xa không
func (a *Adapter) HasRemote() bool { return a.client != nil }

// RemoteFor cho biết collection có đi qua database không
func (a *Adapter) RemoteFor(spec models.CollectionSpec) bool {
	return a.client != nil && spec.HasTable()
}

// Spec trả về mô tả collection
func (a *Adapter) Spec(name models.CollectionName) (models.CollectionSpec, error) {
	return a.specs.MustGet(string(name))
}

// FetchCollection đọc collection: database trước, lỗi thì dùng file tĩnh.
// Nếu cả hai thất bại, SchemaError của database được ưu tiên trả về.
func (a *Adapter) FetchCollection(ctx context.Context, name models.CollectionName) (*FetchResult, error) {
	spec, err := a.Spec(name)
	if err != nil {
		return nil, err
	}
	log := logger.WithCollection("remote", string(name))

	var remoteErr error
	if a.RemoteFor(spec) {
		raw, err := a.client.Fetch(ctx, spec)
		if err == nil {
			return &FetchResult{Raw: raw, Source: models.SourceRemote}, nil
		}
		remoteErr = err
		log.WithError(err).Warn("Remote fetch failed, falling back to static file")
	}

	if a.static == nil {
		if remoteErr != nil {
			return nil, remoteErr
		}
		return nil, common.NewNetworkError("Brak źródła danych dla "+string(name), nil)
	}

	raw, err := a.static.Read(ctx, spec.File)
	if err != nil {
		log.WithError(err).Warn("Static fetch failed")
		if remoteErr != nil {
			return nil, remoteErr
		}
		return nil, err
	}
	return &FetchResult{Raw: raw, Source: models.SourceStatic, ReadOnly: true, RemoteErr: remoteErr}, nil
}

// InsertOrUpdate ghi toàn bộ collection lên database và trả về dữ liệu chuẩn từ database
func (a *Adapter) InsertOrUpdate(ctx context.Context, name models.CollectionName, rows []byte) ([]byte, error) {
	spec, err := a.Spec(name)
	if err != nil {
		return nil, err
	}
	if !a.RemoteFor(spec) {
		return nil, common.ErrNoRemote
	}
	out, err := a.client.Upsert(ctx, spec, rows)
	if err != nil {
		logger.WithCollection("remote", string(name)).WithError(err).Error("Upsert failed")
		return nil, err
	}
	return out, nil
}

// Insert thêm row mới lên database, không ghi đè row đã có cùng id
func (a *Adapter) Insert(ctx context.Context, name models.CollectionName, rows []byte) ([]byte, error) {
	spec, err := a.Spec(name)
	if err != nil {
		return nil, err
	}
	if !a.RemoteFor(spec) {
		return nil, common.ErrNoRemote
	}
	out, err := a.client.Insert(ctx, spec, rows)
	if err != nil {
		logger.WithCollection("remote", string(name)).WithError(err).Error("Insert failed")
		return nil, err
	}
	return out, nil
}

// DeleteRecord xóa một row theo id trên database
func (a *Adapter) DeleteRecord(ctx context.Context, name models.CollectionName, id int64) error {
	spec, err := a.Spec(name)
	if err != nil {
		return err
	}
	if !a.RemoteFor(spec) {
		return common.ErrNoRemote
	}
	if err := a.client.Delete(ctx, spec, id); err != nil {
		logger.WithCollection("remote", string(name)).WithError(err).WithField("id", id).Error("Delete failed")
		return err
	}
	return nil
}

// FetchSetting đọc một giá trị trong system_config
func (a *Adapter) FetchSetting(ctx context.Context, key string) (string, error) {
	if a.client == nil {
		return "", common.ErrNoRemote
	}
	v, err := a.client.FetchSetting(ctx, key)
	if err != nil {
		return "", fmt.Errorf("fetch setting %q: %w", key, err)
	}
	return v, nil
}
