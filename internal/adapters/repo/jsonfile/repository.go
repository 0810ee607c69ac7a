package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/ports"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

const (
	StorePathKey    = "store.path"
	storeFileMode   = 0o600
	storeDirMode    = 0o700
	storeConfigDir  = ".config/acs"
	storeConfigFile = "uconfig.json"
	tempFilePattern = ".uconfig-*.json.tmp"
)

// Repository stores the linkage document as one JSON file. All instances
// pointing at the same path share a writer lock and a decoded cache.
type Repository struct {
	path  string
	state *pathState
}

type pathState struct {
	mu    sync.Mutex
	cache *domain.Config
}

var (
	stateRegistryMu sync.Mutex
	pathStateMap    = map[string]*pathState{}
)

var _ ports.ConfigStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(StorePathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, storeConfigDir, storeConfigFile)
	}

	path, err := normalizeStorePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, state: stateForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Load(ctx context.Context) (domain.Config, error) {
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	cfg, err := r.loadLocked()
	if err != nil {
		return domain.Config{}, err
	}

	return cfg.Clone(), nil
}

func (r *Repository) Save(ctx context.Context, cfg domain.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	return r.writeLocked(cfg.Clone())
}

func (r *Repository) Update(ctx context.Context, fn func(cfg *domain.Config) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	current, err := r.loadLocked()
	if err != nil {
		return err
	}

	working := current.Clone()
	if err := fn(&working); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeLocked(working)
}

func (r *Repository) loadLocked() (domain.Config, error) {
	if r.state.cache != nil {
		return *r.state.cache, nil
	}

	cfg, found, err := r.readFile()
	if err != nil {
		return domain.Config{}, err
	}
	if !found {
		if err := r.writeLocked(cfg); err != nil {
			return domain.Config{}, err
		}
		return cfg, nil
	}

	r.state.cache = &cfg
	return cfg, nil
}

func (r *Repository) readFile() (domain.Config, bool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewConfig(), false, nil
		}
		return domain.Config{}, false, fmt.Errorf("%w: read config file: %w", domain.ErrStoreUnavailable, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return domain.NewConfig(), false, nil
	}

	var file fileSchema
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return domain.Config{}, false, fmt.Errorf("%w: decode config file: %w", domain.ErrStoreUnavailable, err)
	}

	cfg := fromSchema(file)
	cfg.Normalize()
	return cfg, true, nil
}

func (r *Repository) writeLocked(cfg domain.Config) error {
	cfg.Normalize()
	if err := writeFileAtomic(r.path, toSchema(cfg)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	r.state.cache = &cfg
	return nil
}

func writeFileAtomic(path string, file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(buf.Bytes()); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}

	if err := tempFile.Chmod(storeFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}

	cleanup = false
	return nil
}

func normalizeStorePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func stateForPath(path string) *pathState {
	stateRegistryMu.Lock()
	defer stateRegistryMu.Unlock()

	if state, ok := pathStateMap[path]; ok {
		return state
	}

	state := &pathState{}
	pathStateMap[path] = state
	return state
}
