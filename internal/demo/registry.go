package demo

import (
	"sync"
	"time"

	"github.com/captureclient/demo-engine/internal/observability/metrics"
	"github.com/captureclient/demo-engine/pkg/logging"
)

// EngineFactory builds a configured engine for a new demo session.
type EngineFactory func(sessionID string, bt BusinessType) *Engine

// Registry tracks live demo sessions in memory. Nothing is persisted: an
// evicted or restarted session starts from the initial state.
type Registry struct {
	factory EngineFactory
	idleTTL time.Duration
	logger  *logging.Logger
	metrics *metrics.DemoMetrics

	mu       sync.Mutex
	sessions map[string]*registryEntry
	stop     chan struct{}
	stopOnce sync.Once
}

type registryEntry struct {
	engine     *Engine
	lastActive time.Time
}

// NewRegistry starts a registry whose janitor evicts sessions idle longer
// than idleTTL.
func NewRegistry(factory EngineFactory, idleTTL time.Duration, logger *logging.Logger, m *metrics.DemoMetrics) *Registry {
	if factory == nil {
		panic("demo: engine factory cannot be nil")
	}
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}

	r := &Registry{
		factory:  factory,
		idleTTL:  idleTTL,
		logger:   logger,
		metrics:  m,
		sessions: make(map[string]*registryEntry),
		stop:     make(chan struct{}),
	}
	go r.janitor()
	return r
}

// Get returns the engine for sessionID, creating one when the id is unknown
// or empty. The returned id is authoritative.
func (r *Registry) Get(sessionID string, bt BusinessType) (*Engine, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sessionID != "" {
		if entry, ok := r.sessions[sessionID]; ok {
			entry.lastActive = time.Now()
			return entry.engine, sessionID
		}
	}

	engine := r.factory(sessionID, bt)
	id := engine.ID()
	r.sessions[id] = &registryEntry{engine: engine, lastActive: time.Now()}
	r.metrics.SetActiveSessions(len(r.sessions))
	r.logger.Debug("demo: session created", "session_id", id, "business_type", bt)
	return engine, id
}

// Lookup returns the engine for sessionID without creating one.
func (r *Registry) Lookup(sessionID string) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	entry.lastActive = time.Now()
	return entry.engine, true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops the janitor. Existing engines are left to the garbage
// collector once their callers drop them.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Registry) janitor() {
	interval := r.idleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *Registry) evictIdle() {
	cutoff := time.Now().Add(-r.idleTTL)

	r.mu.Lock()
	var evicted []string
	for id, entry := range r.sessions {
		if entry.lastActive.Before(cutoff) {
			entry.engine.ResetDemo()
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	r.metrics.SetActiveSessions(len(r.sessions))
	r.mu.Unlock()

	for _, id := range evicted {
		r.logger.Debug("demo: idle session evicted", "session_id", id)
	}
}
