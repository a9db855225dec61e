// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory holds one secret: the filename is the key name
// and the trimmed file contents are the value.
//
// Supported key files: openai-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/citeside/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// OpenAIAPIKey names the file holding the key for the entailment and
// embedding API.
const OpenAIAPIKey = "openai-api-key"

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads all files in dir. A missing directory is not an error and
// yields no secrets. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (Secrets, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Lookup returns the value of key and whether it is set.
func (s Secrets) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Apply fills credentials in cfg that are still empty. Values already set
// by flags, environment or config file win.
func (s Secrets) Apply(cfg *types.Config) {
	if cfg.Entailment.APIKey == "" {
		if v, ok := s.Lookup(OpenAIAPIKey); ok {
			cfg.Entailment.APIKey = v
		}
	}
}
