package preview

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Session holds the files downloaded during one run of the program. Files live
// in a private temporary directory that Close removes; nothing is kept for the
// next run.
type Session struct {
	dir    string
	client *http.Client

	mu    sync.Mutex
	files map[string]string
}

// NewSession creates the temporary directory for this run. A nil client means
// http.DefaultClient.
func NewSession(client *http.Client) (*Session, error) {
	dir, err := os.MkdirTemp("", "benotes-preview-*")
	if err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Session{dir: dir, client: client, files: make(map[string]string)}, nil
}

// Dir returns the session directory.
func (s *Session) Dir() string {
	return s.dir
}

// Close deletes the session directory and everything downloaded into it.
func (s *Session) Close() error {
	s.mu.Lock()
	s.files = make(map[string]string)
	s.mu.Unlock()
	return os.RemoveAll(s.dir)
}

// Fetch returns the local copy of link, downloading it the first time the link
// is asked for in this session. A failed download leaves nothing behind, so the
// next call tries again.
func (s *Session) Fetch(ctx context.Context, link string) (string, error) {
	s.mu.Lock()
	path, ok := s.files[link]
	s.mu.Unlock()
	if ok {
		return path, nil
	}

	path, err := s.download(ctx, link)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.files[link] = path
	s.mu.Unlock()
	return path, nil
}

func (s *Session) download(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(s.dir, "download-*.part")
	if err != nil {
		return "", err
	}
	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}

	path := filepath.Join(s.dir, uuid.NewString()+".bin")
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	log.Printf("[preview] downloaded %s (%d bytes)", link, n)
	return path, nil
}
