// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command server runs the plugin host: it loads modules and features
// from their deployment directories, serves their routes behind the
// WAF/OAuth2/RateLimit guard chain, and exposes an admin console,
// OpenAPI document and metrics endpoint alongside them.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/prometheus/client_golang/prometheus"

	"rivaas.dev/pluginhost/internal/admin"
	"rivaas.dev/pluginhost/internal/hostconfig"
	"rivaas.dev/pluginhost/internal/hostlog"
	"rivaas.dev/pluginhost/internal/hostmetrics"
	"rivaas.dev/pluginhost/internal/hostrouter"
	"rivaas.dev/pluginhost/internal/loader"
	"rivaas.dev/pluginhost/internal/middleware/requestid"
	"rivaas.dev/pluginhost/internal/settings"
	"rivaas.dev/pluginhost/internal/supervisor"
	"rivaas.dev/pluginhost/internal/watcher"
)

func main() {
	cfg := hostconfig.Load()
	log := hostlog.New(hostlog.Config{Handler: hostlog.JSONHandler, Level: slog.LevelInfo})

	store := settings.NewStore(cfg.SettingsPath, log)
	handles := loader.NewHandleTable()
	moduleLoader := loader.NewModuleLoader(cfg.BuildDir, cfg.ModulesDir, handles, log)
	featureLoader := loader.NewFeatureLoader(cfg.BuildDir, cfg.FeaturesDir, handles, log)
	pool := hostrouter.NewPool(64)

	reg := prometheus.NewRegistry()
	metrics := hostmetrics.New(reg)

	sup := supervisor.New(store, moduleLoader, featureLoader, pool, log)
	sup.Metrics = metrics

	if cfg.AppAutoload || cfg.AppEnv == hostconfig.EnvProd {
		watcher.NewBuildPipeline(cfg.ModulesDir, cfg.BuildDir, log).BuildAll()
		watcher.NewBuildPipeline(cfg.FeaturesDir, cfg.BuildDir, log).BuildAll()
	}

	if err := sup.Reload(); err != nil {
		log.Error("initial reload failed", "error", err)
		os.Exit(1)
	}

	var devWatchers []*watcher.Watcher
	if cfg.AppEnv == hostconfig.EnvDev && cfg.HotReload {
		moduleWatcher := watcher.New(watcher.Config{
			Dir:      cfg.ModulesDir,
			Debounce: watcher.DefaultDebounce,
			Log:      log,
			OnChange: func() {
				watcher.NewBuildPipeline(cfg.ModulesDir, cfg.BuildDir, log).BuildAll()
				if err := sup.Reload(); err != nil {
					log.Warn("reload after module rebuild failed", "error", err)
				}
			},
		})
		featureWatcher := watcher.New(watcher.Config{
			Dir:      cfg.FeaturesDir,
			Debounce: watcher.DefaultDebounce,
			Log:      log,
			OnChange: func() {
				watcher.NewBuildPipeline(cfg.FeaturesDir, cfg.BuildDir, log).BuildAll()
				if err := sup.Reload(); err != nil {
					log.Warn("reload after feature rebuild failed", "error", err)
				}
			},
		})
		for _, w := range []*watcher.Watcher{moduleWatcher, featureWatcher} {
			if err := w.Start(); err != nil {
				log.Warn("watcher failed to start", "error", err)
				continue
			}
			devWatchers = append(devWatchers, w)
		}
	} else {
		buildWatcher := watcher.New(watcher.Config{
			Dir:      cfg.BuildDir,
			Debounce: watcher.DefaultBuildDebounce,
			Log:      log,
			OnChange: func() {
				if err := sup.Reload(); err != nil {
					log.Warn("reload after build dir change failed", "error", err)
				}
			},
		})
		if err := buildWatcher.Start(); err != nil {
			log.Warn("build directory watcher failed to start", "error", err)
		} else {
			devWatchers = append(devWatchers, buildWatcher)
		}
	}

	adminSrv := admin.New(store, sup, featureLoader, cfg.ModulesDir, log)
	adminHandler := admin.LoopbackGuard(adminSrv.Routes())

	mux := http.NewServeMux()
	mux.Handle("/admin", adminHandler)
	mux.Handle("/admin/", adminHandler)
	mux.HandleFunc("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(sup.Document())
	})
	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, docsHTML)
	})
	mux.Handle("/metrics", hostmetrics.Handler(reg))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		sup.Router().Handler.ServeHTTP(w, r)
	})

	var handler http.Handler = requestid.Middleware(mux)
	if cfg.AppEnv == hostconfig.EnvDev {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		log.Info("serving", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server exited", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	for _, w := range devWatchers {
		w.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("graceful shutdown failed", "error", err)
	}
}

const docsHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      SwaggerUIBundle({ url: '/openapi.json', dom_id: '#swagger-ui' });
    };
  </script>
</body>
</html>`
