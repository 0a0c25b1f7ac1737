package safepay

import (
	"fmt"
	"strings"
)

// Query modifiers, appended to a query path after a "?".
const (
	// KeyQueryMod selects the entries stored under exactly the given key.
	KeyQueryMod = ""
	// PrefixQueryMod selects all entries whose key starts with the given data.
	PrefixQueryMod = "prefix"
)

// Model is a single key-value entry returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a model for the given key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler serves queries for a single path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister installs the query handlers of one extension.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths such as "/grants" or "/grants/sender" to
// their handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with this router.
func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register binds a handler to the path. A path can be bound only once.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to the path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Route resolves a full query path, that may carry a modifier after a "?",
// into a handler and the modifier. Handler is nil for an unknown path.
func (r QueryRouter) Route(fullPath string) (QueryHandler, string) {
	path, mod := fullPath, KeyQueryMod
	if i := strings.IndexByte(fullPath, '?'); i >= 0 {
		path, mod = fullPath[:i], fullPath[i+1:]
	}
	return r.routes[path], mod
}
