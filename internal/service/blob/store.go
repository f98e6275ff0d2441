// Package blob keeps decoded binary payloads in memory behind object URLs of the form blob:<uuid>.
// A URL stays valid until it is revoked.
package blob

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const scheme = "blob:"

type Blob struct {
	Data        []byte
	ContentType string
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

func NewStore() *Store {
	return &Store{blobs: make(map[string]Blob)}
}

// Put stores data and returns its object URL.
func (s *Store) Put(data []byte, contentType string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.blobs[id] = Blob{Data: data, ContentType: contentType}
	s.mu.Unlock()
	return scheme + id
}

func (s *Store) Get(objectURL string) (Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[strings.TrimPrefix(objectURL, scheme)]
	return b, ok
}

// Revoke releases the blob. Revoking an unknown URL is a no-op.
func (s *Store) Revoke(objectURL string) {
	s.mu.Lock()
	delete(s.blobs, strings.TrimPrefix(objectURL, scheme))
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// ServeHTTP serves GET /<id>. Mount it with http.StripPrefix.
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	b, ok := s.Get(strings.TrimPrefix(r.URL.Path, "/"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", b.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.Data)))
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(b.Data)
}
