// Package toml persists the local workspace file: the login profile
// and the ledger of catalog submissions. Writes go through a temp
// file plus rename so a crash never leaves a half-written workspace.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/ports"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName          = "config"
	configType          = "toml"
	workspacePathKey    = "workspace.path"
	workspaceFileMode   = 0o600
	workspaceDirMode    = 0o700
	workspaceConfigDir  = ".cdraft"
	workspaceConfigFile = "workspace.toml"
	tempFilePattern     = ".workspace-*.toml.tmp"
)

type Store struct {
	workspacePath string
	mu            *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.WorkspaceStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, workspaceConfigDir, workspaceConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, workspaceConfigDir))
	cfg.SetDefault(workspacePathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	workspacePath := cfg.GetString(workspacePathKey)
	if workspacePath == "" {
		return nil, errors.New("workspace path is empty")
	}
	workspacePath, err = normalizeWorkspacePath(workspacePath)
	if err != nil {
		return nil, err
	}

	return &Store{workspacePath: workspacePath, mu: lockForPath(workspacePath)}, nil
}

func (s *Store) Profile(ctx context.Context) (domain.UserContext, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserContext{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return domain.UserContext{}, false, err
	}

	if file.Profile == nil || file.Profile.UserID == "" {
		return domain.UserContext{}, false, nil
	}

	return domain.UserContext{
		UserID:     file.Profile.UserID,
		Department: file.Profile.Department,
		Role:       file.Profile.Role,
		Location:   file.Profile.Location,
		Language:   file.Profile.Language,
	}, true, nil
}

func (s *Store) SaveProfile(ctx context.Context, profile domain.UserContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if profile.Anonymous() {
		return domain.ErrNoProfile
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}

	file.Profile = &profileSchema{
		UserID:     profile.UserID,
		Department: profile.Department,
		Role:       profile.Role,
		Location:   profile.Location,
		Language:   profile.Language,
	}

	return s.writeSchema(file)
}

func (s *Store) ClearProfile(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}

	if file.Profile == nil {
		return nil
	}
	file.Profile = nil

	return s.writeSchema(file)
}

func (s *Store) HasSubmission(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return false, err
	}

	for _, entry := range file.Submissions {
		if entry.Key == key {
			return true, nil
		}
	}

	return false, nil
}

func (s *Store) RecordSubmission(ctx context.Context, key, title string, sections int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return "", err
	}

	entry := submissionSchema{
		ID:          uuid.NewString(),
		Key:         key,
		Title:       title,
		Sections:    sections,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}
	file.Submissions = append(file.Submissions, entry)

	if err := s.writeSchema(file); err != nil {
		return "", err
	}

	return entry.ID, nil
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.workspacePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read workspace file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode workspace file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.workspacePath), workspaceDirMode); err != nil {
		return fmt.Errorf("create workspace directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode workspace file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.workspacePath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp workspace file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp workspace file: %w", err)
	}

	if err := tempFile.Chmod(workspaceFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp workspace file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp workspace file: %w", err)
	}

	if err := os.Rename(tempName, s.workspacePath); err != nil {
		return fmt.Errorf("replace workspace file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.workspacePath, workspaceFileMode); err != nil {
		return fmt.Errorf("chmod workspace file: %w", err)
	}

	return nil
}

func normalizeWorkspacePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve workspace path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
