package railsapp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

var (
	ErrRootNotFound  = errors.New("not inside a Rails application (no config/application.rb found)")
	ErrSchemaMissing = errors.New("db/schema.rb not found")
	ErrConfigMissing = errors.New("config/database.yml not found")
)

// Environments inspected by the connection-settings checks.
var Environments = []string{"development", "test", "production"}

// FindRoot walks upward from start until a directory containing
// config/application.rb is found.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "config", "application.rb")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

// Fixed locations inside a Rails application.

func SchemaPath(root string) string { return filepath.Join(root, "db", "schema.rb") }

func DatabaseConfigPath(root string) string {
	return filepath.Join(root, "config", "database.yml")
}

func ModelsDir(root string) string      { return filepath.Join(root, "app", "models") }
func ControllersDir(root string) string { return filepath.Join(root, "app", "controllers") }
func ViewsDir(root string) string       { return filepath.Join(root, "app", "views") }

// ReadSchema returns the content of db/schema.rb.
func ReadSchema(root string) (string, error) {
	data, err := os.ReadFile(SchemaPath(root))
	if os.IsNotExist(err) {
		return "", ErrSchemaMissing
	}
	if err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	return string(data), nil
}

// Settings is one environment's connection settings from database.yml.
// Values keep the types the YAML decoder produced.
type Settings map[string]any

// DatabaseConfig maps environment name to its settings.
type DatabaseConfig map[string]Settings

// LoadDatabaseConfig reads and parses config/database.yml.
func LoadDatabaseConfig(root string) (DatabaseConfig, error) {
	data, err := os.ReadFile(DatabaseConfigPath(root))
	if os.IsNotExist(err) {
		return nil, ErrConfigMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read database.yml: %w", err)
	}
	return ParseDatabaseConfig(data)
}

// ParseDatabaseConfig strips ERB tags and unmarshals the YAML mapping.
// ERB handling is deliberately crude: tags are removed, never evaluated,
// so `pool: <%= ENV["POOL"] %>` parses as an empty value.
func ParseDatabaseConfig(data []byte) (DatabaseConfig, error) {
	text := strings.ReplaceAll(string(data), "<%=", "")
	text = strings.ReplaceAll(text, "%>", "")

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse database.yml: %w", err)
	}

	cfg := make(DatabaseConfig, len(raw))
	for env, v := range raw {
		// Non-mapping entries (YAML anchors, scalars) are not environments.
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		cfg[env] = Settings(m)
	}
	return cfg, nil
}

// Has reports whether the setting is present at all, regardless of value.
func (s Settings) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Int returns the setting as an int. ok is false when the setting is
// absent or not numeric.
func (s Settings) Int(key string) (int, bool) {
	switch v := s[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Bool returns the setting as a bool. ok is false when absent or not a bool.
func (s Settings) Bool(key string) (bool, bool) {
	v, ok := s[key].(bool)
	return v, ok
}

// String returns the setting as a string. ok is false when absent or not
// a string.
func (s Settings) String(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok
}

// Section returns a nested mapping such as "variables", or nil.
func (s Settings) Section(key string) Settings {
	if m, ok := s[key].(map[string]any); ok {
		return Settings(m)
	}
	return nil
}
