// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/evrynet/staking/api/admin/loglevel"
	"github.com/evrynet/staking/api/events"
	"github.com/evrynet/staking/api/staking"
	"github.com/evrynet/staking/api/subscriptions"
	"github.com/evrynet/staking/metrics"
	"github.com/evrynet/staking/node"
)

type Options struct {
	AllowedOrigins string
	BacktraceLimit uint64
	EventsLimit    uint64
	EnableMetrics  bool
	// LogLevel, when set, is exposed at /admin/loglevel.
	LogLevel *slog.LevelVar
}

// New return api router
func New(n *node.Node, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	staking.New(n).
		Mount(router, "/staking")
	events.New(n.EventDB(), opts.EventsLimit).
		Mount(router, "/events")
	subs := subscriptions.New(n, n.EventDB(), origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.LogLevel != nil {
		loglevel.New(opts.LogLevel).
			Mount(router, "/admin/loglevel")
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").
			Name("GET /metrics").
			Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
