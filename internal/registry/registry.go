// Package registry provides a record parser registry for dispatching
// ARINC 424 records to appropriate parsers by section key.
package registry

import (
	"sync"

	"cifp_parser/internal/arinc"
)

// Result is the common interface for all parse results.
type Result interface {
	Type() string // e.g., "airport", "navaid", "procedure_leg"
}

// Parser is implemented by each record parser.
type Parser interface {
	// Name returns the parser's unique identifier.
	Name() string

	// Sections returns which section keys this parser handles
	// (section + subsection, e.g. "PA", "D ", "ER").
	Sections() []string

	// Parse attempts to parse the record. Returns nil when the record
	// should be skipped (missing key fields, secondary continuation).
	Parse(rec arinc.Record) Result
}

// Registry holds all registered parsers keyed by section.
type Registry struct {
	mu        sync.RWMutex
	bySection map[string][]Parser
}

// New creates a new Registry instance.
func New() *Registry {
	return &Registry{
		bySection: make(map[string][]Parser),
	}
}

// Global default registry.
var defaultRegistry = New()

// Default returns the global registry instance.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a parser to the default registry.
// Called during init() in each parser package.
func Register(p Parser) {
	defaultRegistry.Register(p)
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range p.Sections() {
		r.bySection[key] = append(r.bySection[key], p)
	}
}

// Dispatch routes a record to the parsers registered for its section key
// and returns their results. An unregistered key returns nothing: entire
// record families the database does not model pass through here silently.
func (r *Registry) Dispatch(key string, rec arinc.Record) []Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parsers, ok := r.bySection[key]
	if !ok {
		return nil
	}

	var results []Result
	for _, p := range parsers {
		if result := p.Parse(rec); result != nil {
			results = append(results, result)
		}
	}
	return results
}

// RegisteredSections returns all section keys that have parsers registered.
func (r *Registry) RegisteredSections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.bySection))
	for key := range r.bySection {
		keys = append(keys, key)
	}
	return keys
}

// ParserCount returns the total number of unique registered parsers.
func (r *Registry) ParserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, parsers := range r.bySection {
		for _, p := range parsers {
			seen[p.Name()] = true
		}
	}
	return len(seen)
}
