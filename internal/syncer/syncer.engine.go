package syncer

import (
	"context"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/cache"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/events"
	"wiktowice_site/internal/logger"
	"wiktowice_site/internal/notify"
	"wiktowice_site/internal/registry"
	"wiktowice_site/internal/remote"
)

// Outcome là kết quả của một lần Persist, dùng cho response API
type Outcome struct {
	Collection  models.CollectionName `json:"collection"`
	Destination Kind                  `json:"destination"`
	Level       notify.Level          `json:"level"`
	Message     string                `json:"message"`
	Durable     bool                  `json:"durable"`
	Retry       bool                  `json:"retry,omitempty"`
	Mirrored    bool                  `json:"mirrored"`
	Error       string                `json:"error,omitempty"`
}

// Engine điều phối việc lưu collection
type Engine struct {
	store  *cache.Store
	specs  *registry.Registry[models.CollectionSpec]
	mirror *Mirror
	center *notify.Center
	bus    *events.Bus

	chain  []Destination
	byKind *registry.Registry[Destination]
}

// DefaultChain trả về chuỗi đích theo thứ tự ưu tiên
func DefaultChain(adapter *remote.Adapter, devSaveURL, uploadURL string, timeout time.Duration) []Destination {
	client := &fasthttp.Client{Name: "wiktowice-site"}
	return []Destination{
		&RemoteDb{Adapter: adapter},
		&LocalDevServer{URL: devSaveURL, Client: client, Timeout: timeout},
		&HostedUpload{URL: uploadURL, Client: client, Timeout: timeout},
		BrowserOnly{},
	}
}

// NewEngine tạo engine; chain rỗng thì chỉ còn BrowserOnly
func NewEngine(store *cache.Store, specs *registry.Registry[models.CollectionSpec], mirror *Mirror,
	center *notify.Center, bus *events.Bus, chain []Destination) *Engine {
	if len(chain) == 0 {
		chain = []Destination{BrowserOnly{}}
	}
	byKind := registry.NewRegistry[Destination]()
	for _, d := range chain {
		_, _ = byKind.Register(string(d.Kind()), d)
	}
	return &Engine{
		store:  store,
		specs:  specs,
		mirror: mirror,
		center: center,
		bus:    bus,
		chain:  chain,
		byKind: byKind,
	}
}

// Select trả về đích đầu tiên khả dụng cho request
func (e *Engine) Select(req Request) Destination {
	for _, d := range e.chain {
		if d.Available(req) {
			return d
		}
	}
	return BrowserOnly{}
}

func (e *Engine) request(name models.CollectionName, env Environment) (Request, error) {
	spec, err := e.specs.MustGet(string(name))
	if err != nil {
		return Request{}, err
	}
	payload, err := e.store.MarshalCollection(name)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Spec:     spec,
		Payload:  payload,
		Env:      env,
		ReadOnly: e.store.Meta(name).ReadOnly,
		Token:    e.HostingToken(),
	}, nil
}

// Persist ghi mirror rồi lưu collection tới đúng một đích. Không bao giờ trả lỗi:
// mọi thất bại được chuyển thành thông báo và Outcome.
// Cache giữ nguyên thay đổi lạc quan kể cả khi lưu thất bại.
func (e *Engine) Persist(ctx context.Context, name models.CollectionName, env Environment) Outcome {
	log := logger.WithCollection("sync", string(name))

	req, err := e.request(name, env)
	if err != nil {
		log.WithError(err).Error("Cannot build persist request")
		e.center.Push(notify.LevelError, common.UserMessage(err))
		return Outcome{Collection: name, Level: notify.LevelError, Message: common.UserMessage(err), Error: err.Error()}
	}

	mirrored := true
	if e.mirror == nil {
		mirrored = false
	} else if err := e.mirror.Write(MirrorKey(string(name)), req.Payload); err != nil {
		mirrored = false
		log.WithError(err).Warn("Mirror write failed")
	}

	out := e.run(ctx, e.Select(req), req)
	out.Mirrored = mirrored
	return out
}

func (e *Engine) run(ctx context.Context, dest Destination, req Request) Outcome {
	name := req.Spec.Name
	log := logger.WithCollection("sync", string(name)).WithField("destination", dest.Kind())

	if pending := dest.Pending(); pending != "" {
		e.center.Push(notify.LevelInfo, pending)
	}

	res := dest.Save(ctx, req)

	if res.Authoritative != nil {
		if err := e.store.ReplaceJSON(name, res.Authoritative); err != nil {
			log.WithError(err).Error("Cannot apply authoritative rows")
		}
	}

	if res.Retry {
		e.center.PushRetry(res.Message, string(name), "upload")
	} else {
		e.center.Push(res.Level, res.Message)
	}

	out := Outcome{
		Collection:  name,
		Destination: dest.Kind(),
		Level:       res.Level,
		Message:     res.Message,
		Durable:     res.Durable,
		Retry:       res.Retry,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
		log.WithError(res.Err).Warn("Persist failed")
	} else {
		log.Info("Persist done")
	}

	if res.Durable {
		e.bus.Emit(events.NewCollectionEvent(string(name), events.OpSave, string(dest.Kind()), e.store.Len(name)))
	}
	return out
}

// RetryUpload chạy lại upload lên hosting theo yêu cầu của người dùng
func (e *Engine) RetryUpload(ctx context.Context, name models.CollectionName, env Environment) Outcome {
	e.center.DismissRetry(string(name))

	req, err := e.request(name, env)
	if err != nil {
		e.center.Push(notify.LevelError, common.UserMessage(err))
		return Outcome{Collection: name, Level: notify.LevelError, Message: common.UserMessage(err), Error: err.Error()}
	}
	dest, ok := e.byKind.Get(string(KindHostedUpload))
	if !ok || !dest.Available(req) {
		msg := "Brak klucza API hostingu. Podaj klucz i spróbuj ponownie."
		e.center.Push(notify.LevelWarning, msg)
		return Outcome{Collection: name, Destination: KindHostedUpload, Level: notify.LevelWarning, Message: msg, Error: msg}
	}
	return e.run(ctx, dest, req)
}

// SetHostingToken lưu token upload vào mirror; token rỗng thì xóa
func (e *Engine) SetHostingToken(token string) error {
	if e.mirror == nil {
		return common.NewError(common.ErrCodeInternalServer, "Brak magazynu lokalnego", common.StatusInternalServerError, nil)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return e.mirror.Delete(HostingTokenKey)
	}
	return e.mirror.Write(HostingTokenKey, []byte(token))
}

// HostingToken đọc token upload từ mirror
func (e *Engine) HostingToken() string {
	if e.mirror == nil {
		return ""
	}
	data, err := e.mirror.Read(HostingTokenKey)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
