package publish

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrPublishInFlight is returned when a publish run is started while another
// run for the same source repository and tag is still executing.
var ErrPublishInFlight = errors.New("a publish for this repository and tag is already in flight")

// Registry guards against concurrent publish runs for the same target. Two
// runs racing on one (repository, tag) pair could create duplicate releases or
// delete each other's assets; the registry rejects the second run instead.
type Registry struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{inFlight: map[string]struct{}{}}
}

func (r *Registry) acquire(repo, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := repo + "@" + tag
	if _, exists := r.inFlight[key]; exists {
		return errors.Wrapf(ErrPublishInFlight, "%s", key)
	}
	r.inFlight[key] = struct{}{}
	return nil
}

func (r *Registry) release(repo, tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, repo+"@"+tag)
}
