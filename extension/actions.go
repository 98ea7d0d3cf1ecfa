package extension

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/mint/model/types"
)

// Actions provides action service
type Actions struct {
	services map[string]types.Service
	mux      sync.RWMutex
}

// Lookup returns a service by name
func (s *Actions) Lookup(name string) types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.services[name]
}

// Register registers a service
func (s *Actions) Register(service types.Service) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.services[service.Name()] = service
}

// Names returns sorted registered service names
func (s *Actions) Names() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]string, 0, len(s.services))
	for name := range s.services {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Call invokes service method with the supplied input and output
func (s *Actions) Call(ctx context.Context, service, method string, input, output interface{}) error {
	srv := s.Lookup(service)
	if srv == nil {
		return fmt.Errorf("service %v not found", service)
	}
	executable, err := srv.Method(method)
	if err != nil {
		return fmt.Errorf("%v: %w", service, err)
	}
	return executable(ctx, input, output)
}

// NewActions creates a new action service
func NewActions(services ...types.Service) *Actions {
	ret := &Actions{
		services: make(map[string]types.Service),
	}
	for _, service := range services {
		if service != nil {
			ret.Register(service)
		}
	}
	return ret
}
