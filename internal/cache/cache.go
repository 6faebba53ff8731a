// Package cache persists command analyses in a version-keyed JSON file.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/basher/internal/types"
	"github.com/temirov/basher/internal/utils"
)

const (
	// FileName is the cache file stored inside the per-user basher directory.
	FileName = "command_cache.json"

	temporaryFilePattern = ".command_cache-*.tmp"
	directoryPermissions = 0o700
	filePermissions      = 0o600
)

var (
	// ErrUnavailableAnalysis is returned when a record for a missing tool is offered for caching.
	ErrUnavailableAnalysis = errors.New("only available analyses are cached")
	// ErrSymlinkRejected is returned when the cache path is a symbolic link.
	ErrSymlinkRejected = errors.New("cache file is a symlink")

	errMissingCommand = errors.New("cached entry has no command")
	errNullIndex      = errors.New("cache index is null")
)

// Fingerprinter reports the current version fingerprint of a command.
type Fingerprinter interface {
	Detect(ctx context.Context, command string) string
}

// Entry summarizes one cached record.
type Entry struct {
	Command      string             `json:"command"`
	Version      string             `json:"version"`
	SourceMethod types.SourceMethod `json:"source_method"`
	CachedAt     *time.Time         `json:"cached_at,omitempty"`
}

// Store is the single owner of the cache file for this process.
type Store struct {
	mutex         sync.Mutex
	path          string
	entries       map[string]json.RawMessage
	fingerprinter Fingerprinter
	now           func() time.Time
	logger        *zap.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the timestamp source used by Put.
func WithClock(now func() time.Time) Option {
	return func(store *Store) {
		if now != nil {
			store.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(store *Store) {
		if logger != nil {
			store.logger = logger
		}
	}
}

// DefaultPath returns ~/.basher/command_cache.json.
func DefaultPath() string {
	homeDirectory, err := os.UserHomeDir()
	if err != nil || homeDirectory == "" {
		return filepath.Join(utils.GlobalConfigDirectoryName, FileName)
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, FileName)
}

// Open loads the cache at path. An absent or malformed file yields an empty cache.
func Open(path string, fingerprinter Fingerprinter, options ...Option) *Store {
	store := &Store{
		path:          path,
		entries:       map[string]json.RawMessage{},
		fingerprinter: fingerprinter,
		now:           time.Now,
		logger:        zap.NewNop(),
	}
	for _, option := range options {
		option(store)
	}
	if loadErr := store.load(); loadErr != nil {
		store.logger.Debug("cache ignored", zap.String("path", path), zap.Error(loadErr))
		store.entries = map[string]json.RawMessage{}
	}
	return store
}

// Path returns the backing file path.
func (store *Store) Path() string {
	return store.path
}

func (store *Store) load() error {
	info, statErr := os.Lstat(store.path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("stat cache %s: %w", store.path, statErr)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %s", ErrSymlinkRejected, store.path)
	}
	data, readErr := os.ReadFile(store.path)
	if readErr != nil {
		return fmt.Errorf("read cache %s: %w", store.path, readErr)
	}
	var entries map[string]json.RawMessage
	if decodeErr := json.Unmarshal(data, &entries); decodeErr != nil {
		return fmt.Errorf("decode cache %s: %w", store.path, decodeErr)
	}
	if entries == nil {
		return fmt.Errorf("%w: %s", errNullIndex, store.path)
	}
	store.entries = entries
	return nil
}

// Get returns the cached analysis when the stored version matches the installed one.
// Stale or undecodable entries are evicted and the file is rewritten.
func (store *Store) Get(ctx context.Context, command string) (*types.CommandAnalysis, bool) {
	store.mutex.Lock()
	raw, found := store.entries[command]
	store.mutex.Unlock()
	if !found {
		return nil, false
	}

	var header struct {
		Version string `json:"version"`
	}
	if headerErr := json.Unmarshal(raw, &header); headerErr != nil {
		store.evict(command, raw, "undecodable entry", headerErr)
		return nil, false
	}
	currentVersion := store.fingerprinter.Detect(ctx, command)
	if header.Version != currentVersion {
		store.logger.Debug("cached version changed", zap.String("command", command), zap.String("cached", header.Version), zap.String("current", currentVersion))
		store.evict(command, raw, "version changed", nil)
		return nil, false
	}

	analysis, decodeErr := decodeEntry(raw)
	if decodeErr != nil {
		store.evict(command, raw, "schema mismatch", decodeErr)
		return nil, false
	}
	return analysis, true
}

func decodeEntry(raw json.RawMessage) (*types.CommandAnalysis, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	var analysis types.CommandAnalysis
	if err := decoder.Decode(&analysis); err != nil {
		return nil, err
	}
	if analysis.Command == "" {
		return nil, errMissingCommand
	}
	if !analysis.Available {
		return nil, ErrUnavailableAnalysis
	}
	return &analysis, nil
}

// evict removes command only while it still holds inspected, so a record
// written by a concurrent Put survives.
func (store *Store) evict(command string, inspected json.RawMessage, reason string, cause error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	if current, found := store.entries[command]; !found || !bytes.Equal(current, inspected) {
		store.logger.Debug("cache eviction skipped", zap.String("command", command), zap.String("reason", "entry replaced"))
		return
	}
	delete(store.entries, command)
	store.logger.Debug("cache entry evicted", zap.String("command", command), zap.String("reason", reason), zap.Error(cause))
	if saveErr := store.saveLocked(); saveErr != nil {
		store.logger.Warn("cache write failed", zap.String("path", store.path), zap.Error(saveErr))
	}
}

// Put stamps analysis.CachedAt and persists a snapshot of the record.
func (store *Store) Put(command string, analysis *types.CommandAnalysis) error {
	if analysis == nil || !analysis.Available {
		return ErrUnavailableAnalysis
	}
	stamp := store.now()
	analysis.CachedAt = &stamp
	raw, encodeErr := json.Marshal(analysis)
	if encodeErr != nil {
		return fmt.Errorf("encode analysis for %s: %w", command, encodeErr)
	}

	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.entries[command] = raw
	return store.saveLocked()
}

// Clear drops every entry and removes the cache file.
func (store *Store) Clear() error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.entries = map[string]json.RawMessage{}
	if removeErr := os.Remove(store.path); removeErr != nil && !os.IsNotExist(removeErr) {
		return fmt.Errorf("remove cache %s: %w", store.path, removeErr)
	}
	return nil
}

// Entries lists cached records sorted by command name.
func (store *Store) Entries() []Entry {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	entries := make([]Entry, 0, len(store.entries))
	for command, raw := range store.entries {
		entry := Entry{Command: command}
		if err := json.Unmarshal(raw, &entry); err != nil {
			entry.Version = types.UnknownVersion
		}
		entry.Command = command
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(left, right int) bool {
		return entries[left].Command < entries[right].Command
	})
	return entries
}

// saveLocked writes the index to a temporary file and renames it over the cache.
func (store *Store) saveLocked() error {
	if info, statErr := os.Lstat(store.path); statErr == nil && info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %s", ErrSymlinkRejected, store.path)
	}
	directory := filepath.Dir(store.path)
	if mkdirErr := os.MkdirAll(directory, directoryPermissions); mkdirErr != nil {
		return fmt.Errorf("create cache directory %s: %w", directory, mkdirErr)
	}
	data, encodeErr := json.MarshalIndent(store.entries, "", "  ")
	if encodeErr != nil {
		return fmt.Errorf("encode cache: %w", encodeErr)
	}

	temporaryFile, createErr := os.CreateTemp(directory, temporaryFilePattern)
	if createErr != nil {
		return fmt.Errorf("create temporary cache file: %w", createErr)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeErr := temporaryFile.Write(data); writeErr != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf("write temporary cache file: %w", writeErr)
	}
	if syncErr := temporaryFile.Sync(); syncErr != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf("sync temporary cache file: %w", syncErr)
	}
	if closeErr := temporaryFile.Close(); closeErr != nil {
		return fmt.Errorf("close temporary cache file: %w", closeErr)
	}
	if chmodErr := os.Chmod(temporaryPath, filePermissions); chmodErr != nil {
		return fmt.Errorf("chmod temporary cache file: %w", chmodErr)
	}
	if renameErr := os.Rename(temporaryPath, store.path); renameErr != nil {
		return fmt.Errorf("replace cache %s: %w", store.path, renameErr)
	}
	committed = true
	return nil
}
