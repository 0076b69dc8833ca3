package syncer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/cache"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/events"
	"wiktowice_site/internal/notify"
	"wiktowice_site/internal/remote"
)

// fakeClient giả lập database từ xa
type fakeClient struct {
	upsertErr error
	upserted  []byte
	result    []byte
}

func (f *fakeClient) Name() string { return "fake" }
func (f *fakeClient) Fetch(ctx context.Context, spec models.CollectionSpec) ([]byte, error) {
	return []byte("[]"), nil
}
func (f *fakeClient) Upsert(ctx context.Context, spec models.CollectionSpec, rows []byte) ([]byte, error) {
	f.upserted = rows
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return f.result, nil
}
func (f *fakeClient) Insert(ctx context.Context, spec models.CollectionSpec, rows []byte) ([]byte, error) {
	return rows, nil
}
func (f *fakeClient) Delete(ctx context.Context, spec models.CollectionSpec, id int64) error {
	return nil
}
func (f *fakeClient) FetchSetting(ctx context.Context, key string) (string, error) { return "", nil }

type fixture struct {
	store  *cache.Store
	center *notify.Center
	engine *Engine
	mirror *Mirror
	bus    *events.Bus
}

func newFixture(t *testing.T, client remote.Client, devURL, uploadURL string) *fixture {
	t.Helper()
	specs := models.NewCollectionRegistry()
	var adapter *remote.Adapter
	if client != nil {
		adapter = remote.NewAdapter(specs, client, nil)
	} else {
		adapter = remote.NewAdapter(specs, nil, nil)
	}
	mirror, err := NewMirror(t.TempDir())
	require.NoError(t, err)
	store := cache.NewStore()
	center := notify.NewCenter(time.Minute, nil)
	bus := events.NewBus()
	engine := NewEngine(store, specs, mirror, center, bus, DefaultChain(adapter, devURL, uploadURL, 2*time.Second))
	return &fixture{store: store, center: center, engine: engine, mirror: mirror, bus: bus}
}

func lastMessage(c *notify.Center) notify.Notification {
	active := c.Active()
	if len(active) == 0 {
		return notify.Notification{}
	}
	return active[len(active)-1]
}

func TestPersistRemote(t *testing.T) {
	t.Run("Upsert thành công thay cache bằng dữ liệu chuẩn", func(t *testing.T) {
		client := &fakeClient{result: []byte(`[{"id":7,"title":"Festyn","date":"2024-06-01","content":""}]`)}
		f := newFixture(t, client, "", "")
		saved := make(chan events.CollectionEvent, 1)
		f.bus.On(func(ctx context.Context, e events.CollectionEvent) { saved <- e })

		f.store.News.Append(models.NewsItem{Title: "Festyn", Date: "2024-06-01"})
		out := f.engine.Persist(context.Background(), models.CollectionNews, Environment{Hostname: "wiktowice.pl"})

		assert.Equal(t, KindRemoteDb, out.Destination)
		assert.True(t, out.Durable)
		assert.True(t, out.Mirrored)
		require.Equal(t, 1, f.store.News.Len())
		id, ok := f.store.News.All()[0].RemoteID()
		assert.True(t, ok)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, "✅ Zsynchronizowano z chmurą (Supabase)", lastMessage(f.center).Message)

		select {
		case e := <-saved:
			assert.Equal(t, "news", e.Collection)
			assert.Equal(t, "remote", e.Destination)
		case <-time.After(2 * time.Second):
			t.Fatal("Không có sự kiện collection.saved")
		}

		mirrored, err := f.mirror.Read(MirrorKey("news"))
		require.NoError(t, err)
		assert.Contains(t, string(mirrored), "Festyn")
	})

	t.Run("Lỗi mạng giữ nguyên thay đổi trong cache", func(t *testing.T) {
		client := &fakeClient{upsertErr: common.NewNetworkError("Failed to fetch", nil)}
		f := newFixture(t, client, "", "")
		f.store.Bank.Replace([]models.BankUser{{ID: 1, Login: "Jan", Haslo: "x", Saldo: 10}})
		f.store.Bank.Append(models.BankUser{ID: 2, Login: "Ola", Haslo: "y"})

		out := f.engine.Persist(context.Background(), models.CollectionBank, Environment{})

		assert.False(t, out.Durable)
		assert.Equal(t, notify.LevelError, out.Level)
		assert.Equal(t, 2, f.store.Bank.Len(), "Cache không bị rollback")
		assert.Equal(t, "⚠️ Błąd chmury: Failed to fetch", lastMessage(f.center).Message)
		assert.Contains(t, string(client.upserted), `"login": "Ola"`)
	})

	t.Run("Dữ liệu từ file tĩnh không được ghi lên database", func(t *testing.T) {
		client := &fakeClient{}
		f := newFixture(t, client, "", "")
		f.store.SetMeta(models.CollectionNews, cache.LoadMeta{Source: models.SourceStatic, ReadOnly: true})
		out := f.engine.Persist(context.Background(), models.CollectionNews, Environment{})
		assert.Equal(t, KindBrowserOnly, out.Destination)
		assert.Nil(t, client.upserted)
	})

	t.Run("Config không có bảng nên bỏ qua database", func(t *testing.T) {
		client := &fakeClient{}
		f := newFixture(t, client, "", "")
		out := f.engine.Persist(context.Background(), models.CollectionConfig, Environment{Hostname: "user.github.io"})
		assert.Equal(t, KindBrowserOnly, out.Destination)
		assert.Equal(t, "ℹ️ GitHub Pages: Zapisano w przeglądarce.", out.Message)
	})
}

func TestPersistDevServer(t *testing.T) {
	var got SaveBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, "OK")
	}))
	defer srv.Close()

	f := newFixture(t, nil, srv.URL+"/save", "")
	f.store.Restaurant.Append(models.RestaurantOrder{Number: "5", Status: models.OrderPending})

	out := f.engine.Persist(context.Background(), models.CollectionRestaurant, Environment{Hostname: "localhost:8080"})
	assert.Equal(t, KindLocalDevServer, out.Destination)
	assert.True(t, out.Durable)
	assert.Equal(t, "ogolna_restauracja/992_orders_secure.json", got.File)
	assert.Contains(t, string(got.Content), `"number":"5"`)

	t.Run("Server tắt", func(t *testing.T) {
		f := newFixture(t, nil, "http://127.0.0.1:1/save", "")
		out := f.engine.Persist(context.Background(), models.CollectionNews, Environment{Hostname: "127.0.0.1"})
		assert.Equal(t, notify.LevelInfo, out.Level)
		assert.Equal(t, "⚠️ Zapisano w przeglądarce (Serwer wyłączony)", out.Message)
		assert.False(t, out.Durable)
	})
}

func TestPersistHostedUpload(t *testing.T) {
	status := http.StatusUnauthorized
	var auth, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(status)
	}))
	defer srv.Close()

	f := newFixture(t, nil, "", srv.URL)
	require.NoError(t, f.engine.SetHostingToken("  secret  "))
	assert.Equal(t, "secret", f.engine.HostingToken())

	out := f.engine.Persist(context.Background(), models.CollectionNews, Environment{Hostname: "wiktowice.neocities.org"})
	assert.Equal(t, KindHostedUpload, out.Destination)
	assert.True(t, out.Retry)
	assert.Equal(t, "Bearer secret", auth)
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"))
	require.NotNil(t, lastMessage(f.center).Retry)
	assert.Contains(t, lastMessage(f.center).Message, "Status: 401")

	status = http.StatusOK
	out = f.engine.RetryUpload(context.Background(), models.CollectionNews, Environment{})
	assert.True(t, out.Durable)
	for _, n := range f.center.Active() {
		assert.Nil(t, n.Retry, "Thông báo retry cũ đã được đóng")
	}

	t.Run("Không có token thì không retry được", func(t *testing.T) {
		require.NoError(t, f.engine.SetHostingToken(""))
		out := f.engine.RetryUpload(context.Background(), models.CollectionNews, Environment{})
		assert.False(t, out.Durable)
		assert.NotEmpty(t, out.Error)
	})
}

func TestEnvironment(t *testing.T) {
	assert.True(t, Environment{Hostname: "localhost"}.IsLocal())
	assert.True(t, Environment{Hostname: "127.0.0.1:5500"}.IsLocal())
	assert.False(t, Environment{Hostname: "localhost.example.com"}.IsLocal())
	assert.True(t, Environment{Hostname: "Wiktowice.GitHub.io"}.IsGitHubPages())
}

func TestBuildUploadBody(t *testing.T) {
	body, ct, err := BuildUploadBody("site_config.json", []byte(`{"motd": "x"}`))
	require.NoError(t, err)
	assert.Contains(t, ct, "boundary=")
	assert.Contains(t, string(body), `name="site_config.json"; filename="site_config.json"`)
	assert.Contains(t, string(body), `{"motd": "x"}`)
}

func TestMirrorKey(t *testing.T) {
	m, err := NewMirror(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, m.Write("../escape", []byte("x")))

	data, err := m.Read(MirrorKey("bank"))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDoRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = io.WriteString(w, "OK")
	}))
	defer srv.Close()

	do := func(ctx context.Context, timeout time.Duration) (int, error) {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)
		req.SetRequestURI(srv.URL)
		err := doRequest(ctx, nil, req, resp, timeout)
		return resp.StatusCode(), err
	}

	t.Run("timeout 0 chờ tới khi server trả lời", func(t *testing.T) {
		status, err := do(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("deadline của ctx vẫn được tôn trọng", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()
		_, err := do(ctx, 0)
		assert.Error(t, err)
	})
}
