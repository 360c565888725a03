// Package dedupe detects item groups whose companion files are byte-identical
// to a group seen earlier in the same run.
package dedupe

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
)

// Digest returns the hex MD5 of parts concatenated in order.
func Digest(parts [][]byte) string {
	h := md5.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Index maps content digests to the first path that claimed them. It lives
// for one run only. All methods are goroutine-safe.
type Index struct {
	mu     sync.Mutex
	owners map[string]string // digest → first path
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{owners: make(map[string]string)}
}

// Claim registers path as the owner of digest if no owner exists yet.
// It returns the owning path and whether path is that owner. Lookup and
// insert happen under one lock, so concurrent claims of the same digest
// produce exactly one owner. Re-claiming with the owner's own path reports
// first=true.
func (x *Index) Claim(digest, path string) (owner string, first bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if owner, exists := x.owners[digest]; exists {
		return owner, owner == path
	}
	x.owners[digest] = path
	return path, true
}

// Len returns the number of distinct digests claimed.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.owners)
}
