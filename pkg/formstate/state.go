package formstate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidPath is returned for empty paths or paths with empty segments.
var ErrInvalidPath = errors.New("formstate: invalid path")

// Change is a single value write applied by Update.
type Change struct {
	Path  string
	Value any
}

// Listener observes committed updates. It receives the paths written by the
// update in the order they were applied.
type Listener func(paths []string)

// State tracks form values, touched flags, and errors keyed by dotted path.
// It is safe for concurrent use; each Update commits atomically.
type State struct {
	mu        sync.RWMutex
	values    map[string]any
	touched   map[string]bool
	errors    map[string][]string
	listeners []Listener
}

// New seeds the state with a deep copy of initial.
func New(initial map[string]any) *State {
	return &State{
		values:  cloneMap(initial),
		touched: make(map[string]bool),
		errors:  make(map[string][]string),
	}
}

// Value resolves a dotted path.
func (s *State) Value(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := getPath(s.values, path)
	if !ok {
		return nil, false
	}
	return deepCopy(value), true
}

// StringValue resolves a dotted path and formats scalars as strings. Missing
// paths and nil values yield "".
func (s *State) StringValue(path string) string {
	value, ok := s.Value(path)
	if !ok || value == nil {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return fmt.Sprint(value)
}

// Values returns a deep copy of every value.
func (s *State) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.values)
}

// SetFieldValue writes a single value.
func (s *State) SetFieldValue(path string, value any) error {
	return s.Update(Change{Path: path, Value: value})
}

// Update applies every change or none of them. Listeners fire once per
// successful call.
func (s *State) Update(changes ...Change) error {
	if len(changes) == 0 {
		return nil
	}

	s.mu.Lock()
	next := cloneMap(s.values)
	paths := make([]string, 0, len(changes))
	for _, change := range changes {
		if err := setPath(next, change.Path, deepCopy(change.Value)); err != nil {
			s.mu.Unlock()
			return err
		}
		paths = append(paths, change.Path)
	}
	s.values = next
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(paths)
	}
	return nil
}

// Delete removes the value at path. Missing paths are ignored.
func (s *State) Delete(path string) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	parent := s.values
	for _, segment := range segments[:len(segments)-1] {
		child, ok := parent[segment].(map[string]any)
		if !ok {
			return nil
		}
		parent = child
	}
	delete(parent, segments[len(segments)-1])
	return nil
}

// SetFieldTouched flags a path as touched (or clears the flag).
func (s *State) SetFieldTouched(path string, touched bool) error {
	if _, err := splitPath(path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if touched {
		s.touched[path] = true
	} else {
		delete(s.touched, path)
	}
	return nil
}

// Touched reports whether path has been touched.
func (s *State) Touched(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.touched[path]
}

// TouchedPaths returns every touched path, sorted.
func (s *State) TouchedPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.touched))
	for path := range s.touched {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// SetErrors replaces the messages attached to path. Empty messages clear it.
func (s *State) SetErrors(path string, messages ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(messages) == 0 {
		delete(s.errors, path)
		return
	}
	s.errors[path] = append([]string(nil), messages...)
}

// Errors returns a copy of every error keyed by path.
func (s *State) Errors() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.errors))
	for path, messages := range s.errors {
		out[path] = append([]string(nil), messages...)
	}
	return out
}

// Subscribe registers a listener for committed updates.
func (s *State) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func splitPath(path string) ([]string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, ErrInvalidPath
	}
	segments := strings.Split(trimmed, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return segments, nil
}

func getPath(root map[string]any, path string) (any, bool) {
	segments, err := splitPath(path)
	if err != nil || root == nil {
		return nil, false
	}
	var current any = root
	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func setPath(root map[string]any, path string, value any) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}
	node := root
	for _, segment := range segments[:len(segments)-1] {
		switch child := node[segment].(type) {
		case map[string]any:
			node = child
		case nil:
			created := make(map[string]any)
			node[segment] = created
			node = created
		default:
			return fmt.Errorf("formstate: %q is not an object (got %T)", segment, child)
		}
	}
	node[segments[len(segments)-1]] = value
	return nil
}

func cloneMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = deepCopy(value)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneMap(typed)
	case map[string]string:
		clone := make(map[string]any, len(typed))
		for key, v := range typed {
			clone[key] = v
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
