package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/thesavant42/timerange-clipboard/internal/models"
)

const (
	EnvConfig = "TRCLIP_CONFIG"
	EnvDB     = "TRCLIP_DB"
	EnvDebug  = "TRCLIP_DEBUG"

	appDir = ".trclip"
)

// Source tells where the effective configuration came from
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceStore   Source = "store"
	SourceDefault Source = "default"
)

// DocumentStore returns the config document saved in the database.
// An empty doc means nothing is stored.
type DocumentStore interface {
	LoadConfigDocument() (doc string, format string, err error)
}

// Loaded is the effective configuration and where it came from.
type Loaded struct {
	Config   models.Config
	Source   Source
	Path     string // set for file sources
	Format   Format
	Document []byte
}

// LoadEnv reads .env files into the process environment. Missing files are ignored.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load resolves the configuration: flagPath, then $TRCLIP_CONFIG, then the
// stored document, then the built-in default. store may be nil.
func Load(flagPath string, store DocumentStore) (*Loaded, error) {
	if flagPath != "" {
		return loadFile(flagPath, SourceFlag)
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return loadFile(p, SourceEnv)
	}
	if store != nil {
		doc, format, err := store.LoadConfigDocument()
		if err != nil {
			return nil, fmt.Errorf("failed to read stored config: %w", err)
		}
		if doc != "" {
			f, err := ParseFormat(format)
			if err != nil {
				return nil, err
			}
			return parseLoaded([]byte(doc), f, SourceStore, "")
		}
	}
	return parseLoaded(DefaultYAML, FormatYAML, SourceDefault, "")
}

func loadFile(path string, source Source) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return parseLoaded(data, FormatForPath(path), source, path)
}

func parseLoaded(data []byte, format Format, source Source, path string) (*Loaded, error) {
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Source: source, Path: path, Format: format, Document: data}, nil
}

// Dir returns ~/.trclip, or .trclip when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return appDir
	}
	return filepath.Join(home, appDir)
}

// DBPath returns $TRCLIP_DB or ~/.trclip/trclip.db.
func DBPath() string {
	if p := os.Getenv(EnvDB); p != "" {
		return p
	}
	return filepath.Join(Dir(), "trclip.db")
}

// DefaultPath is where `config init` writes a config file.
func DefaultPath(format Format) string {
	return filepath.Join(Dir(), "config."+string(format))
}

// Debug reports whether $TRCLIP_DEBUG asks for debug logging.
func Debug() bool {
	switch os.Getenv(EnvDebug) {
	case "", "0", "false", "no":
		return false
	}
	return true
}
