// Package replay persists games, finished or not, as zstd-compressed JSON
// records under a flat directory. Persistence lives outside the engine core;
// a record is a game snapshot plus whatever move records the caller
// supplies. The HTTP layer stores the moves buffered in the current submit
// cycle; moves committed by earlier submits are not kept.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"multiverse_chess/internal/game"
)

const fileSuffix = ".json.zst"

var ErrNotFound = errors.New("replay not found")

// Record is the stored shape of one game.
type Record struct {
	Name    string            `json:"name"`
	Options game.Options      `json:"options"`
	State   game.GameState    `json:"state"`
	Moves   []game.MoveRecord `json:"moves"`
}

// Store reads and writes replay records under dir.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create replay dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) (string, error) {
	clean := filepath.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid replay name %q", name)
	}
	return filepath.Join(s.dir, clean+fileSuffix), nil
}

// Save writes rec, replacing any previous record of the same name.
func (s *Store) Save(rec Record) error {
	path, err := s.path(rec.Name)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(raw, nil)
	if err := enc.Close(); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("write replay: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads the record stored under name.
func (s *Store) Load(name string) (Record, error) {
	path, err := s.path(name)
	if err != nil {
		return Record{}, err
	}
	compressed, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Record{}, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return Record{}, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return Record{}, fmt.Errorf("decompress replay: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("decode replay: %w", err)
	}
	return rec, nil
}

// List names every stored replay, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), fileSuffix))
	}
	sort.Strings(names)
	return names, nil
}
