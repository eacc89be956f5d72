package function

import "github.com/loom-ml/loom/internal/graph"

// Canonicalize builds the cache key for one instantiation of a
// function: the function name followed by its attributes rendered
// deterministically, e.g. `f[T=float32,n=2]`.
func Canonicalize(name string, attrs graph.AttrMap) string {
	return name + attrs.String()
}

// CachedHandles instantiates functions through a Runtime and caches
// the handles by canonicalized (name, attrs) key, so repeated requests
// for the same instantiation share one handle.
//
// CachedHandles is not synchronized; callers serialize access.
type CachedHandles struct {
	rt      Runtime
	handles map[string]Handle
	order   []string
}

// NewCachedHandles creates an empty cache over rt.
func NewCachedHandles(rt Runtime) *CachedHandles {
	return &CachedHandles{
		rt:      rt,
		handles: make(map[string]Handle),
	}
}

// GetOrInstantiate returns the cached handle for (name, attrs) or
// instantiates the function and caches the new handle.
func (c *CachedHandles) GetOrInstantiate(name string, attrs graph.AttrMap) (Handle, error) {
	key := Canonicalize(name, attrs)
	if h, ok := c.handles[key]; ok {
		return h, nil
	}
	h, err := c.rt.Instantiate(name, attrs)
	if err != nil {
		return 0, err
	}
	c.handles[key] = h
	c.order = append(c.order, key)
	return h, nil
}

// Len returns the number of cached handles.
func (c *CachedHandles) Len() int { return len(c.handles) }

// ReleaseAll releases every cached handle in insertion order. All
// releases are attempted even when one fails; the first failure is
// returned. The cache is cleared unconditionally, so a handle whose
// release failed is not retried later.
func (c *CachedHandles) ReleaseAll() error {
	var first error
	for _, key := range c.order {
		if err := c.rt.ReleaseHandle(c.handles[key]); err != nil && first == nil {
			first = err
		}
	}
	c.handles = make(map[string]Handle)
	c.order = nil
	return first
}
