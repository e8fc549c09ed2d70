package signer

import (
	"fmt"
	"strings"
	"sync"
)

// keyCache is a path -> base58check-serialised xpub map behind a mutex,
// with prefix-climbing lookup, mirroring signer::m_cached_bip32_xpubs and
// signer::get_bip32_xpub's search loop. Paths are encoded as strings via
// pathKey so []uint32 (not comparable as a map key) can be used as one.
type keyCache struct {
	mu    sync.Mutex
	byKey map[string]cachedXpub
}

type cachedXpub struct {
	path []uint32
	xpub string
}

func newKeyCache() *keyCache {
	return &keyCache{byKey: make(map[string]cachedXpub)}
}

// lookup climbs from path toward the root, stopping at the first cache hit,
// the root, or the first hardened component it encounters while climbing
// (a hardened parent cannot be derived from a public key). It returns the
// found parent's path/xpub (parentPath/parentXpub, parentXpub == "" if
// nothing was cached) and the remaining suffix to derive from it.
func (c *keyCache) lookup(path []uint32) (parentPath []uint32, parentXpub string, suffix []uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parentPath = append([]uint32(nil), path...)
	for {
		if cached, ok := c.byKey[pathKey(parentPath)]; ok {
			return parentPath, cached.xpub, suffix
		}
		if len(parentPath) == 0 || isHardened(parentPath[len(parentPath)-1]) {
			return parentPath, "", suffix
		}
		suffix = append([]uint32{parentPath[len(parentPath)-1]}, suffix...)
		parentPath = parentPath[:len(parentPath)-1]
	}
}

// has reports whether path or any non-hardened prefix of it is cached.
func (c *keyCache) has(path []uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	parentPath := append([]uint32(nil), path...)
	for {
		if _, ok := c.byKey[pathKey(parentPath)]; ok {
			return true
		}
		if len(parentPath) == 0 || isHardened(parentPath[len(parentPath)-1]) {
			return false
		}
		parentPath = parentPath[:len(parentPath)-1]
	}
}

// insert caches xpub under path. Re-inserting an identical value is a
// no-op; re-inserting a distinct value under an existing path is a Fatal
// programming error and panics, matching
// GDK_RUNTIME_ASSERT(ret.second || ret.first->second == bip32_xpub).
func (c *keyCache) insert(path []uint32, xpub string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := pathKey(path)
	if existing, ok := c.byKey[key]; ok {
		if existing.xpub != xpub {
			panic(ErrKeyCacheConflict)
		}
		return
	}
	c.byKey[key] = cachedXpub{path: append([]uint32(nil), path...), xpub: xpub}
}

func pathKey(path []uint32) string {
	var sb strings.Builder
	for _, p := range path {
		fmt.Fprintf(&sb, "%d/", p)
	}
	return sb.String()
}

const hardenedBit = uint32(1) << 31

func isHardened(index uint32) bool {
	return index&hardenedBit != 0
}
