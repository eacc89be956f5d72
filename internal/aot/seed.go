package aot

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"sync/atomic"
)

var (
	seedOnce    sync.Once
	seedCounter atomic.Uint32
)

// NextRandomSeed returns a fresh seed for graph-level random ops. The
// counter starts at a random odd value and steps by two, so seeds from
// one process never repeat, never collide with another process except
// by chance, and are never zero.
func NextRandomSeed() uint32 {
	seedOnce.Do(func() {
		var b [4]byte
		_, _ = rand.Read(b[:])
		seedCounter.Store(binary.LittleEndian.Uint32(b[:]) | 1)
	})
	return seedCounter.Add(2) - 2
}
