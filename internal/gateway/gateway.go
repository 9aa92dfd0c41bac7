// Package gateway fronts the resource services with a single entry point.
// Path prefixes map to named services and each request is proxied to the
// next instance of its service.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/transport"
	"github.com/go-chi/chi"
)

type targetKey struct{}

type route struct {
	prefix  string
	service string
}

type Gateway struct {
	*transport.BaseHandler
	registry *Registry
	routes   []route
	proxy    *httputil.ReverseProxy
}

func New(cfg internal.GatewayConfig, logger *slog.Logger) (*Gateway, error) {
	registry, err := NewRegistry(cfg.Services)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		BaseHandler: transport.NewBaseHandler(logger),
		registry:    registry,
	}
	for prefix, name := range cfg.Routes {
		g.routes = append(g.routes, route{prefix: strings.TrimSuffix(prefix, "/"), service: name})
	}
	// Longest prefix first so /api/expenses/x never lands on /api.
	sort.Slice(g.routes, func(i, j int) bool {
		return len(g.routes[i].prefix) > len(g.routes[j].prefix)
	})

	g.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			target := pr.In.Context().Value(targetKey{}).(*url.URL)
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = target.Host
		},
		ErrorHandler: g.proxyError,
	}
	return g, nil
}

func (g *Gateway) Registry() *Registry {
	return g.registry
}

// Routes mounts every configured prefix plus the gateway's own status page.
func (g *Gateway) Routes(r chi.Router) {
	r.Get("/gateway/services", g.listServices)
	for _, rt := range g.routes {
		h := g.forward(rt.service)
		r.Handle(rt.prefix, h)
		r.Handle(rt.prefix+"/*", h)
	}
	r.NotFound(g.unrouted)
}

func (g *Gateway) forward(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := g.registry.Next(name)
		if err != nil {
			g.WriteFailure(w, err, "Service unavailable")
			return
		}

		g.Logger.Debug("proxying request", "service", name, "target", target.String(), "path", r.URL.Path)
		ctx := context.WithValue(r.Context(), targetKey{}, target)
		g.proxy.ServeHTTP(w, r.WithContext(ctx))
	}
}

func (g *Gateway) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	target, _ := r.Context().Value(targetKey{}).(*url.URL)
	g.Logger.Error("upstream request failed", "path", r.URL.Path, "target", fmt.Sprint(target), "error", err)
	g.WriteFailure(w, internal.NewUpstreamError("Upstream service failed", internal.ErrCodeUpstreamFailed, err), "Upstream service failed")
}

func (g *Gateway) unrouted(w http.ResponseWriter, r *http.Request) {
	g.WriteFailure(w, ErrServiceUnknown.WithCause(fmt.Errorf("no route for path %s", r.URL.Path)), "Service unavailable")
}

func (g *Gateway) listServices(w http.ResponseWriter, _ *http.Request) {
	routes := make(map[string]string, len(g.routes))
	for _, rt := range g.routes {
		routes[rt.prefix] = rt.service
	}
	g.WriteSuccess(w, transport.Envelope{
		"services": g.registry.Services(),
		"routes":   routes,
	})
}
