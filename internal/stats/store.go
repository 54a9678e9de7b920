// Package stats persists a short record of every shell session.
package stats

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spiffcs/gameshell/internal/log"
)

// maxRecords is the maximum number of sessions retained in the store.
const maxRecords = 500

// Session captures what happened during one run of the shell.
type Session struct {
	Timestamp    time.Time     `json:"ts"`
	Frames       uint64        `json:"frames"`
	LoadFrames   uint64        `json:"loadFrames"`
	LoadDuration time.Duration `json:"loadNs"`
	Uptime       time.Duration `json:"uptimeNs"`
	AssetsLoaded int           `json:"assetsLoaded"`
	AssetsFailed int           `json:"assetsFailed"`
	Reloads      int           `json:"reloads"`
	Host         string        `json:"host"`
}

// Store manages persistence of sessions as JSON Lines.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a new stats store at ~/.cache/gameshell/sessions.jsonl.
func NewStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(cacheDir, "gameshell")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Store{
		path: filepath.Join(dir, "sessions.jsonl"),
	}, nil
}

// NewStoreWithPath creates a store at the given path (for testing).
func NewStoreWithPath(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Append adds a session and prunes to the last maxRecords entries.
func (s *Store) Append(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		log.Debug("could not read sessions, starting fresh", "error", err)
		records = nil
	}

	records = append(records, sess)

	if len(records) > maxRecords {
		records = records[len(records)-maxRecords:]
	}

	return s.writeAll(records)
}

// Recent returns the last n sessions (or fewer if not enough exist).
func (s *Store) Recent(n int) []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil
	}

	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// readAll reads all sessions from disk.
func (s *Store) readAll() ([]Session, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var records []Session
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var sess Session
		if err := json.Unmarshal(line, &sess); err != nil {
			continue // skip malformed lines
		}
		records = append(records, sess)
	}
	return records, scanner.Err()
}

// writeAll writes all sessions to disk atomically.
func (s *Store) writeAll(records []Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, s.path)
}
