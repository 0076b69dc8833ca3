package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	basehdl "wiktowice_site/internal/api/base/handler"
	"wiktowice_site/internal/api/site/models"
	siterouter "wiktowice_site/internal/api/site/router"
	services "wiktowice_site/internal/api/site/service"
	"wiktowice_site/internal/auth"
	"wiktowice_site/internal/cache"
	"wiktowice_site/internal/events"
	"wiktowice_site/internal/global"
	"wiktowice_site/internal/notify"
	"wiktowice_site/internal/remote"
	"wiktowice_site/internal/render"
	"wiktowice_site/internal/syncer"
	"wiktowice_site/internal/utility"
	"wiktowice_site/internal/worker"
)

// Site gom toàn bộ service đã khởi tạo của ứng dụng
type Site struct {
	Auth        *auth.Service
	Collections *services.CollectionService
	Bank        *services.BankService
	Public      *services.PublicService
	NowPlaying  *worker.NowPlayingWorker
	Pingers     map[string]basehdl.Pinger

	closers []func()
}

// InitSite khởi tạo cache, adapter, engine đồng bộ và các service của site
func InitSite(ctx context.Context) *Site {
	cfg := global.ServerConfig
	timeout := time.Duration(cfg.RemoteTimeout) * time.Second
	site := &Site{}

	client, pingers, closeRemote := initRemote(ctx, cfg)
	site.Pingers = pingers
	site.closers = append(site.closers, closeRemote)

	specs := models.NewCollectionRegistry()
	store := cache.NewStore()
	adapter := remote.NewAdapter(specs, client, initStatic(cfg))

	// Relay nil phải giữ nguyên là interface nil
	var relay notify.Relay
	if r := notify.NewEmailRelay(cfg); r != nil {
		relay = r
		logrus.WithField("to", cfg.AlertEmail).Info("Email relay enabled for critical notifications")
	}
	center := notify.NewCenter(time.Duration(cfg.NotificationTTL)*time.Second, relay)

	bus := events.NewBus()
	site.closers = append(site.closers, initEvents(cfg, bus, site.Pingers))

	mirror, err := syncer.NewMirror(cfg.MirrorDir)
	if err != nil {
		logrus.Fatalf("Failed to initialize local mirror at %s: %v", cfg.MirrorDir, err)
	}
	chain := syncer.DefaultChain(adapter, cfg.DevSaveURL, cfg.HostedUploadURL, timeout)
	engine := syncer.NewEngine(store, specs, mirror, center, bus, chain)

	site.Collections = services.NewCollectionService(store, adapter, engine, render.NewSortState(), center)
	site.Bank = services.NewBankService(store, adapter)
	site.Public = services.NewPublicService(store)

	var settings auth.SettingSource
	if adapter.HasRemote() {
		settings = adapter
	}
	site.Auth = auth.NewService(auth.Options{
		Settings:      settings,
		PasswordKey:   cfg.AdminPasswordKey,
		LocalPassword: cfg.AdminPassword,
		BankAdminHash: cfg.BankAdminHash,
		Issuer:        auth.NewIssuer(cfg.JwtSecret, time.Duration(cfg.SessionTTL)*time.Minute),
		Center:        center,
	})

	if cfg.NowPlayingURL != "" {
		site.NowPlaying = worker.NewNowPlayingWorker(cfg.NowPlayingURL,
			time.Duration(cfg.NowPlayingInterval)*time.Second, cfg.NowPlayingFallbackArt)
	}

	logrus.WithFields(logrus.Fields{
		"remote":      cfg.RemoteBackend,
		"has_remote":  adapter.HasRemote(),
		"collections": specs.Names(),
	}).Info("Initialized site services")
	return site
}

// StartBackground nạp dữ liệu ban đầu và chạy worker radio
func (s *Site) StartBackground(ctx context.Context) {
	go utility.GoProtect(func() {
		results := s.Collections.LoadAll(ctx)
		for _, r := range results {
			entry := logrus.WithFields(logrus.Fields{
				"collection": r.Collection,
				"source":     r.Source,
				"count":      r.Count,
				"read_only":  r.ReadOnly,
			})
			if r.Error != "" {
				entry.WithField("error", r.Error).Warn("Initial load failed")
				continue
			}
			entry.Info("Initial load done")
		}
	})

	if s.NowPlaying != nil {
		go utility.GoProtect(func() { s.NowPlaying.Start(ctx) })
	}
}

// Deps trả về phụ thuộc cho router của site
func (s *Site) Deps() siterouter.Deps {
	d := siterouter.Deps{
		Auth:        s.Auth,
		Collections: s.Collections,
		Bank:        s.Bank,
		Public:      s.Public,
		PublicHost:  global.ServerConfig.PublicURL,
	}
	// Tránh interface chứa con trỏ nil
	if s.NowPlaying != nil {
		d.NowPlaying = s.NowPlaying
	}
	return d
}

// Close giải phóng kết nối theo thứ tự ngược lúc mở
func (s *Site) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logrus.Errorf("Panic while closing resource: %v", r)
				}
			}()
			s.closers[i]()
		}()
	}
}
