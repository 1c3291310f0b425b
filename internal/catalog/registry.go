package catalog

import (
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/pitabwire/sonoctl/model"
)

// snapshot is an immutable view of the catalog and service registry.
type snapshot struct {
	ops      []model.OperationSpec
	byExact  map[string]model.OperationSpec
	byNorm   map[string]model.OperationSpec
	services map[string]model.ServiceInfo
}

// Registry is the read-optimized store of operation specs and service info.
// It uses atomic pointer swap for lock-free concurrent reads; after
// construction a snapshot is never mutated.
type Registry struct {
	snap atomic.Pointer[snapshot]
	log  *zap.Logger
}

// NewRegistry builds a Registry from scanned specs and a service table.
// Duplicate operation names keep the first occurrence; later ones are
// discarded with a debug log entry.
func NewRegistry(specs []model.OperationSpec, services map[string]model.ServiceInfo, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{log: logger}
	r.Replace(specs, services)
	return r
}

// Replace atomically swaps the registry contents with a new snapshot.
func (r *Registry) Replace(specs []model.OperationSpec, services map[string]model.ServiceInfo) {
	s := &snapshot{
		byExact:  make(map[string]model.OperationSpec, len(specs)),
		byNorm:   make(map[string]model.OperationSpec, len(specs)),
		services: make(map[string]model.ServiceInfo, len(services)),
	}

	for _, spec := range specs {
		exact := strings.ToLower(spec.Name)
		if _, dup := s.byExact[exact]; dup {
			r.log.Debug("duplicate operation definition discarded",
				zap.String("operation", spec.Name),
				zap.String("file", spec.SourceFile))
			continue
		}
		s.byExact[exact] = spec
		s.ops = append(s.ops, spec)

		norm := Normalize(spec.Name)
		if _, ok := s.byNorm[norm]; !ok {
			s.byNorm[norm] = spec
		}
	}

	for name, info := range services {
		s.services[name] = info
	}

	r.snap.Store(s)
}

func (r *Registry) current() *snapshot {
	return r.snap.Load()
}

// Normalize case-folds a name and strips a trailing "Operation" suffix, so
// "Play" and "PlayOperation" key identically.
func Normalize(name string) string {
	n := strings.ToLower(name)
	n = strings.TrimSuffix(n, "operation")
	return n
}

// Resolve looks up an operation by name: first verbatim (case-insensitive),
// then by normalized name.
func (r *Registry) Resolve(name string) (model.OperationSpec, bool) {
	s := r.current()
	if spec, ok := s.byExact[strings.ToLower(name)]; ok {
		return spec, true
	}
	spec, ok := s.byNorm[Normalize(name)]
	return spec, ok
}

// Service returns the registry entry for a service name.
func (r *Registry) Service(name string) (model.ServiceInfo, bool) {
	info, ok := r.current().services[name]
	return info, ok
}

// Operations returns all specs in definition order.
func (r *Registry) Operations() []model.OperationSpec {
	s := r.current()
	ops := make([]model.OperationSpec, len(s.ops))
	copy(ops, s.ops)
	return ops
}

// Services returns a copy of the service table.
func (r *Registry) Services() map[string]model.ServiceInfo {
	s := r.current()
	services := make(map[string]model.ServiceInfo, len(s.services))
	for k, v := range s.services {
		services[k] = v
	}
	return services
}

// KnownNames returns up to limit operation names, sorted, to aid callers
// holding an unresolved name.
func (r *Registry) KnownNames(limit int) []string {
	s := r.current()
	names := make([]string, 0, len(s.ops))
	for _, op := range s.ops {
		names = append(names, op.Name)
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}
