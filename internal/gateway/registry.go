package gateway

import (
	"fmt"
	"net/url"
	"sync/atomic"

	errs "github.com/frahmantamala/project-expenses/internal"
)

var ErrServiceUnknown = errs.NewUpstreamError("Service unavailable", errs.ErrCodeServiceUnknown, nil)

type service struct {
	instances []*url.URL
	next      atomic.Uint64
}

// Registry is a static service registry loaded from config. Instances of a
// service are handed out round-robin.
type Registry struct {
	services map[string]*service
}

func NewRegistry(services map[string][]string) (*Registry, error) {
	reg := &Registry{services: make(map[string]*service, len(services))}
	for name, raw := range services {
		svc := &service{}
		for _, instance := range raw {
			u, err := url.Parse(instance)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return nil, fmt.Errorf("service %s: invalid instance url %q", name, instance)
			}
			svc.instances = append(svc.instances, u)
		}
		reg.services[name] = svc
	}
	return reg, nil
}

// Next returns the instance that should serve the next request for name.
func (r *Registry) Next(name string) (*url.URL, error) {
	svc, ok := r.services[name]
	if !ok || len(svc.instances) == 0 {
		return nil, ErrServiceUnknown.WithCause(fmt.Errorf("no instances registered for service %q", name))
	}
	n := svc.next.Add(1) - 1
	return svc.instances[n%uint64(len(svc.instances))], nil
}

// Services lists registered service names with their instance counts.
func (r *Registry) Services() map[string]int {
	out := make(map[string]int, len(r.services))
	for name, svc := range r.services {
		out[name] = len(svc.instances)
	}
	return out
}
