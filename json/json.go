// Package json persists the high score record as a versioned JSON file.
package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fwojciec/mindlab"
)

var _ mindlab.HighScoreStore = (*Store)(nil)

// envelope is the v1 wire format of the data file. Records are keyed so a
// file written by a newer version keeps entries this one does not know.
type envelope struct {
	Version int                        `json:"version"`
	Records map[string]json.RawMessage `json:"records"`
}

// highScoreDTO is the JSON representation of a HighScore.
type highScoreDTO struct {
	Score int       `json:"score"`
	Name  string    `json:"name"`
	Date  time.Time `json:"date"`
}

// MarshalHighScore serializes a HighScore record value.
func MarshalHighScore(h mindlab.HighScore) ([]byte, error) {
	return json.Marshal(highScoreDTO{Score: h.Score, Name: h.Name, Date: h.Date})
}

// UnmarshalHighScore deserializes a HighScore record value.
func UnmarshalHighScore(data []byte) (mindlab.HighScore, error) {
	var dto highScoreDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return mindlab.HighScore{}, fmt.Errorf("unmarshal high score: %w", err)
	}
	return mindlab.HighScore{Score: dto.Score, Name: dto.Name, Date: dto.Date}, nil
}

// Store keeps the high score in one JSON file. It is safe for concurrent
// use within one process.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store backed by the file at path. The file and its
// parent directories are created on first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the data file location.
func (s *Store) Path() string { return s.path }

// Load returns the saved record, or the zero HighScore when the file or
// the record does not exist.
func (s *Store) Load(ctx context.Context) (mindlab.HighScore, error) {
	if err := ctx.Err(); err != nil {
		return mindlab.HighScore{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.read()
	if err != nil {
		return mindlab.HighScore{}, err
	}
	raw, ok := env.Records[mindlab.HighScoreKey]
	if !ok {
		return mindlab.HighScore{}, nil
	}
	return UnmarshalHighScore(raw)
}

// Save validates h and writes it atomically.
func (s *Store) Save(ctx context.Context, h mindlab.HighScore) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.read()
	if err != nil {
		return err
	}
	value, err := MarshalHighScore(h)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	env.Records[mindlab.HighScoreKey] = value
	return s.write(env)
}

func (s *Store) read() (envelope, error) {
	env := envelope{Version: 1, Records: map[string]json.RawMessage{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return env, nil
	}
	if err != nil {
		return env, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return env, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	if env.Records == nil {
		env.Records = map[string]json.RawMessage{}
	}
	return env, nil
}

func (s *Store) write(env envelope) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
