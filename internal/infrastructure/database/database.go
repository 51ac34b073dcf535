package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/scholarsync/core/internal/domain/entities"
	"github.com/scholarsync/core/internal/infrastructure/config"
)

// DB is the JSON data file backing the professor store.
//
// The file holds a single pretty-printed array of professors and is rewritten
// in full on every Save.
type DB struct {
	config config.StorageConfig

	mu        sync.Mutex
	saves     int64
	failures  int64
	lastSave  time.Time
	lastError error
}

// New creates a handle on the configured data file. It does not touch the disk.
func New(cfg config.StorageConfig) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = 0o644
	}
	return &DB{config: cfg}, nil
}

// Path returns the data file location.
func (db *DB) Path() string {
	return db.config.Path
}

// Load reads and validates the whole data file. Any error is fatal to startup.
func (db *DB) Load() ([]entities.Professor, error) {
	data, err := os.ReadFile(db.config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	return Decode(data)
}

// Decode parses a data file body into professors.
func Decode(data []byte) ([]entities.Professor, error) {
	var professors []entities.Professor
	if err := json.Unmarshal(data, &professors); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidDataset, err)
	}
	if err := validate(professors); err != nil {
		return nil, err
	}
	for i := range professors {
		if professors[i].Papers == nil {
			professors[i].Papers = []entities.Paper{}
		}
	}
	return professors, nil
}

// Encode renders professors in the data file layout.
func Encode(professors []entities.Professor) ([]byte, error) {
	if professors == nil {
		professors = []entities.Professor{}
	}
	data, err := json.MarshalIndent(professors, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode professors: %w", err)
	}
	return append(data, '\n'), nil
}

// Save overwrites the data file with the given professors.
func (db *DB) Save(professors []entities.Professor) error {
	data, err := Encode(professors)
	if err == nil {
		if db.config.AtomicWrite {
			err = writeAtomic(db.config.Path, data, fs.FileMode(db.config.FileMode))
		} else {
			err = os.WriteFile(db.config.Path, data, fs.FileMode(db.config.FileMode))
		}
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.lastError = err
	if err != nil {
		db.failures++
		return fmt.Errorf("failed to save data file: %w", err)
	}
	db.saves++
	db.lastSave = time.Now()
	return nil
}

// Init writes an empty collection if the data file does not exist yet.
// It reports whether a file was created.
func (db *DB) Init() (bool, error) {
	_, err := os.Stat(db.config.Path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat data file: %w", err)
	}
	if dir := filepath.Dir(db.config.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if err := db.Save(nil); err != nil {
		return false, err
	}
	return true, nil
}

// HealthCheck verifies the data file is present and the last save succeeded.
func (db *DB) HealthCheck() error {
	if _, err := os.Stat(db.config.Path); err != nil {
		return fmt.Errorf("data file health check failed: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if db.lastError != nil {
		return fmt.Errorf("last save failed: %w", db.lastError)
	}
	return nil
}

// GetFileInfo returns data file statistics
func (db *DB) GetFileInfo() map[string]interface{} {
	info := map[string]interface{}{
		"path":         db.config.Path,
		"atomic_write": db.config.AtomicWrite,
	}
	if st, err := os.Stat(db.config.Path); err == nil {
		info["size_bytes"] = st.Size()
		info["modified"] = st.ModTime().UTC().Format(time.RFC3339)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	info["saves"] = db.saves
	info["failed_saves"] = db.failures
	if !db.lastSave.IsZero() {
		info["last_save"] = db.lastSave.UTC().Format(time.RFC3339)
	}
	return info
}

func validate(professors []entities.Professor) error {
	seen := make(map[uint32]struct{}, len(professors))
	for _, p := range professors {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate professor id %d", entities.ErrInvalidDataset, p.ID)
		}
		seen[p.ID] = struct{}{}

		papers := make(map[uint32]struct{}, len(p.Papers))
		for _, paper := range p.Papers {
			if _, dup := papers[paper.ID]; dup {
				return fmt.Errorf("%w: duplicate paper id %d for professor %d",
					entities.ErrInvalidDataset, paper.ID, p.ID)
			}
			papers[paper.ID] = struct{}{}
		}
	}
	return nil
}

// writeAtomic writes to a temp file in the target directory, syncs it and
// renames it over path, so readers see either the old or the new file.
func writeAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}
