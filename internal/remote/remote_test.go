package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
)

// fakeClient ghi lại các lời gọi tới database
type fakeClient struct {
	fetchRaw  string
	fetchErr  error
	fetched   []string
	upserted  []string
	inserted  []string
	deleted   []int64
	insertErr error
}

func (f *fakeClient) Name() string { return "fake" }
func (f *fakeClient) Fetch(ctx context.Context, spec models.CollectionSpec) ([]byte, error) {
	f.fetched = append(f.fetched, spec.Table)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return []byte(f.fetchRaw), nil
}
func (f *fakeClient) Upsert(ctx context.Context, spec models.CollectionSpec, rows []byte) ([]byte, error) {
	f.upserted = append(f.upserted, string(rows))
	return rows, nil
}
func (f *fakeClient) Insert(ctx context.Context, spec models.CollectionSpec, rows []byte) ([]byte, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = append(f.inserted, string(rows))
	return rows, nil
}
func (f *fakeClient) Delete(ctx context.Context, spec models.CollectionSpec, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeClient) FetchSetting(ctx context.Context, key string) (string, error) {
	return "sekret", nil
}

type mapStatic map[string]string

func (s mapStatic) Read(ctx context.Context, file string) ([]byte, error) {
	if raw, ok := s[file]; ok {
		return []byte(raw), nil
	}
	return nil, common.NewError(common.ErrCodeNetworkStatus, "Brak pliku "+file, common.StatusNotFound, nil)
}

func bankSpec(t *testing.T) models.CollectionSpec {
	t.Helper()
	spec, err := models.NewCollectionRegistry().MustGet(string(models.CollectionBank))
	require.NoError(t, err)
	return spec
}

func newsSpec(t *testing.T) models.CollectionSpec {
	t.Helper()
	spec, err := models.NewCollectionRegistry().MustGet(string(models.CollectionNews))
	require.NoError(t, err)
	return spec
}

func firstRow(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	rows, err := decodeRows([]byte(raw))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	return rows[0]
}

func TestBuildSQL(t *testing.T) {
	t.Run("upsert row có id dùng ON CONFLICT (id) DO UPDATE", func(t *testing.T) {
		row := firstRow(t, `[{"id":1,"login":"Jan","haslo":"x","saldo":5,"extra":"bỏ qua"}]`)
		sql, args := buildUpsert(bankSpec(t), row)
		assert.Equal(t, `INSERT INTO "bank_users" ("id", "login", "haslo", "saldo") VALUES ($1, $2, $3, $4)`+
			` ON CONFLICT (id) DO UPDATE SET "login" = EXCLUDED."login", "haslo" = EXCLUDED."haslo", "saldo" = EXCLUDED."saldo"`, sql)
		assert.Equal(t, []interface{}{int64(1), "Jan", "x", int64(5)}, args)
	})

	t.Run("insert không bao giờ có ON CONFLICT", func(t *testing.T) {
		row := firstRow(t, `[{"id":1,"login":"Ola","haslo":"pw","saldo":0}]`)
		sql, args := buildInsert(bankSpec(t), row)
		assert.Equal(t, `INSERT INTO "bank_users" ("id", "login", "haslo", "saldo") VALUES ($1, $2, $3, $4)`, sql)
		assert.NotContains(t, sql, "ON CONFLICT")
		assert.Len(t, args, 4)
	})

	t.Run("row không có id bỏ cột id để database tự sinh", func(t *testing.T) {
		row := firstRow(t, `[{"title":"Dożynki","date":"2024-08-20","content":"<p>Zapraszamy</p>"}]`)
		sql, args := buildUpsert(newsSpec(t), row)
		assert.Equal(t, `INSERT INTO "news" ("title", "date", "content") VALUES ($1, $2, $3)`, sql)
		assert.Equal(t, []interface{}{"Dożynki", "2024-08-20", "<p>Zapraszamy</p>"}, args)
	})

	t.Run("id null cũng bị bỏ", func(t *testing.T) {
		row := firstRow(t, `[{"id":null,"title":"A"}]`)
		sql, _ := buildUpsert(newsSpec(t), row)
		assert.Equal(t, `INSERT INTO "news" ("title") VALUES ($1)`, sql)
	})

	t.Run("số thực giữ kiểu float64", func(t *testing.T) {
		row := firstRow(t, `[{"id":2,"login":"A","haslo":"b","saldo":10.5}]`)
		_, args := buildInsert(bankSpec(t), row)
		assert.Equal(t, 10.5, args[3])
	})
}

func TestDecodeRows(t *testing.T) {
	rows, err := decodeRows([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = decodeRows([]byte(`{"id":`))
	assert.ErrorIs(t, err, common.ErrInvalidFormat)
}

func TestHTTPStatic(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.RawQuery)
		mu.Unlock()
		if r.URL.Path != "/739_news_secure.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[{"title":"A"}]`))
	}))
	defer srv.Close()

	src := NewHTTPStatic(srv.URL+"/", 2*time.Second)
	var clock int64 = 1700000000000
	src.Now = func() int64 {
		clock++
		return clock
	}

	t.Run("URL luôn gắn nocache", func(t *testing.T) {
		assert.Equal(t, srv.URL+"/bank/884_users_secure.json?nocache=1700000000001", src.URL("/bank/884_users_secure.json"))
		assert.Equal(t, srv.URL+"/a.json?v=1&nocache=1700000000002", src.URL("a.json?v=1"))
	})

	t.Run("mỗi lần đọc có một nocache mới", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			raw, err := src.Read(context.Background(), "739_news_secure.json")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"title":"A"}]`, string(raw))
		}
		mu.Lock()
		defer mu.Unlock()
		require.Len(t, queries, 2)
		assert.Equal(t, "nocache=1700000000003", queries[0])
		assert.Equal(t, "nocache=1700000000004", queries[1])
	})

	t.Run("status khác 200 là lỗi mạng", func(t *testing.T) {
		_, err := src.Read(context.Background(), "brak.json")
		assert.True(t, common.IsNetworkError(err))
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.ErrCodeNetworkStatus.Code, appErr.Code.Code)
	})
}

func TestDirStatic(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "site")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bank"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bank", "884_users_secure.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret.json"), []byte(`{}`), 0o644))
	src := DirStatic{Root: root}

	t.Run("đọc file trong thư mục con", func(t *testing.T) {
		raw, err := src.Read(context.Background(), "bank/884_users_secure.json")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("đường dẫn thoát khỏi root bị từ chối", func(t *testing.T) {
		_, err := src.Read(context.Background(), "../secret.json")
		assert.True(t, common.IsValidationError(err))
		_, err = src.Read(context.Background(), "bank/../../secret.json")
		assert.True(t, common.IsValidationError(err))
	})

	t.Run("file không tồn tại", func(t *testing.T) {
		_, err := src.Read(context.Background(), "brak.json")
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusNotFound, appErr.StatusCode)
	})
}

func TestAdapter(t *testing.T) {
	ctx := context.Background()
	specs := models.NewCollectionRegistry()

	t.Run("database thành công là nguồn chuẩn", func(t *testing.T) {
		client := &fakeClient{fetchRaw: `[{"id":1}]`}
		a := NewAdapter(specs, client, mapStatic{})
		res, err := a.FetchCollection(ctx, models.CollectionNews)
		require.NoError(t, err)
		assert.Equal(t, models.SourceRemote, res.Source)
		assert.False(t, res.ReadOnly)
	})

	t.Run("database lỗi thì dùng file tĩnh, chỉ đọc", func(t *testing.T) {
		schemaErr := common.NewSchemaError("news", nil)
		client := &fakeClient{fetchErr: schemaErr}
		a := NewAdapter(specs, client, mapStatic{"739_news_secure.json": `[]`})
		res, err := a.FetchCollection(ctx, models.CollectionNews)
		require.NoError(t, err)
		assert.Equal(t, models.SourceStatic, res.Source)
		assert.True(t, res.ReadOnly)
		assert.True(t, common.IsSchemaError(res.RemoteErr))
	})

	t.Run("cả hai nguồn lỗi: ưu tiên lỗi database", func(t *testing.T) {
		client := &fakeClient{fetchErr: common.NewSchemaError("news", nil)}
		a := NewAdapter(specs, client, mapStatic{})
		_, err := a.FetchCollection(ctx, models.CollectionNews)
		assert.True(t, common.IsSchemaError(err))
	})

	t.Run("config không có bảng nên không gọi database", func(t *testing.T) {
		client := &fakeClient{}
		a := NewAdapter(specs, client, mapStatic{"site_config.json": `{}`})
		res, err := a.FetchCollection(ctx, models.CollectionConfig)
		require.NoError(t, err)
		assert.Equal(t, models.SourceStatic, res.Source)
		assert.Empty(t, client.fetched)
	})

	t.Run("Insert không đi qua Upsert", func(t *testing.T) {
		client := &fakeClient{}
		a := NewAdapter(specs, client, nil)
		_, err := a.Insert(ctx, models.CollectionBank, []byte(`[{"id":1,"login":"Ola"}]`))
		require.NoError(t, err)
		assert.Len(t, client.inserted, 1)
		assert.Empty(t, client.upserted)
	})

	t.Run("Insert lỗi được trả nguyên", func(t *testing.T) {
		client := &fakeClient{insertErr: common.NewNetworkError("duplicate key", nil)}
		a := NewAdapter(specs, client, nil)
		_, err := a.Insert(ctx, models.CollectionBank, []byte(`[{"id":1}]`))
		assert.Equal(t, "duplicate key", common.UserMessage(err))
	})

	t.Run("không có database", func(t *testing.T) {
		a := NewAdapter(specs, nil, mapStatic{})
		_, err := a.Insert(ctx, models.CollectionBank, []byte(`[]`))
		assert.ErrorIs(t, err, common.ErrNoRemote)
		_, err = a.InsertOrUpdate(ctx, models.CollectionBank, []byte(`[]`))
		assert.ErrorIs(t, err, common.ErrNoRemote)
		assert.ErrorIs(t, a.DeleteRecord(ctx, models.CollectionBank, 1), common.ErrNoRemote)
		_, err = a.FetchSetting(ctx, "admin_password")
		assert.ErrorIs(t, err, common.ErrNoRemote)
	})

	t.Run("DeleteRecord và FetchSetting", func(t *testing.T) {
		client := &fakeClient{}
		a := NewAdapter(specs, client, nil)
		require.NoError(t, a.DeleteRecord(ctx, models.CollectionBank, 7))
		assert.Equal(t, []int64{7}, client.deleted)
		v, err := a.FetchSetting(ctx, "admin_password")
		require.NoError(t, err)
		assert.Equal(t, "sekret", v)
	})
}
