package function

import (
	"fmt"
	"sync"

	"github.com/loom-ml/loom/internal/graph"
)

// Handle identifies one instantiation of a function within a Runtime.
type Handle int64

// Runtime instantiates functions and releases the resulting handles.
type Runtime interface {
	// Instantiate prepares the named function for the given
	// instantiation attributes and returns a handle to it.
	Instantiate(name string, attrs graph.AttrMap) (Handle, error)
	// ReleaseHandle frees a handle returned by Instantiate.
	ReleaseHandle(h Handle) error
}

// LocalRuntime is an in-process Runtime over a Library. It hands out
// monotonically increasing handles and tracks which are live. It is
// safe for concurrent use.
type LocalRuntime struct {
	mu   sync.Mutex
	lib  *Library
	next Handle
	live map[Handle]string
}

// NewLocalRuntime creates a runtime instantiating functions from lib.
func NewLocalRuntime(lib *Library) *LocalRuntime {
	return &LocalRuntime{
		lib:  lib,
		live: make(map[Handle]string),
	}
}

// Instantiate implements Runtime.
func (rt *LocalRuntime) Instantiate(name string, attrs graph.AttrMap) (Handle, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.lib.Contains(name) {
		return 0, fmt.Errorf("%w: function %q", graph.ErrNotFound, name)
	}
	h := rt.next
	rt.next++
	rt.live[h] = name
	return h, nil
}

// ReleaseHandle implements Runtime. Releasing a handle that is not
// live is an error.
func (rt *LocalRuntime) ReleaseHandle(h Handle) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if _, ok := rt.live[h]; !ok {
		return fmt.Errorf("%w: handle %d is not live", graph.ErrNotFound, h)
	}
	delete(rt.live, h)
	return nil
}

// NumLive returns the number of live handles.
func (rt *LocalRuntime) NumLive() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.live)
}
