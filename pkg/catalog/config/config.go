// Package config assembles a catalog.Service from declarative
// configuration: a document store URL and one or more storage backends.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
	"github.com/tokoternak/catalog-admin/pkg/catalog/objectkey"
	repomemory "github.com/tokoternak/catalog-admin/pkg/catalog/repo/memory"
	repopg "github.com/tokoternak/catalog-admin/pkg/catalog/repo/postgres"
	fsstorage "github.com/tokoternak/catalog-admin/pkg/catalog/storage/fs"
	memorystorage "github.com/tokoternak/catalog-admin/pkg/catalog/storage/memory"
	s3storage "github.com/tokoternak/catalog-admin/pkg/catalog/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:                  "8080",
		Environment:           "development",
		DatabaseType:          "memory",
		DefaultStorageBackend: "memory",
		StorageBackends: []StorageBackendConfig{
			{
				Name:   "memory",
				Type:   "memory",
				Config: map[string]interface{}{},
			},
		},
	}
}

// ServerConfig represents server configuration for the catalog admin service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	DefaultStorageBackend string
	StorageBackends       []StorageBackendConfig

	// ObjectKeyScheme selects the key layout: "random" (flat uuid.ext) or
	// "sharded"
	ObjectKeyScheme string
}

// StorageBackendConfig represents configuration for a storage backend
type StorageBackendConfig struct {
	Name   string
	Type   string // "memory", "fs", "s3"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	found := false
	for _, backend := range c.StorageBackends {
		if backend.Name == c.DefaultStorageBackend {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("default storage backend '%s' not found in configured backends", c.DefaultStorageBackend)
	}

	return nil
}

// BuildService creates a catalog.Service instance from the server configuration
func (c *ServerConfig) BuildService() (catalog.Service, error) {
	svc, _, err := c.Build()
	return svc, err
}

// Build creates the service plus the document store it runs on. The store
// is shared so settings resolvers reuse the same connection pool.
func (c *ServerConfig) Build() (catalog.Service, catalog.DocumentStore, error) {
	var options []catalog.Option

	docs, err := c.buildDocumentStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build document store: %w", err)
	}
	options = append(options, catalog.WithDocumentStore(docs))

	for _, backendConfig := range c.StorageBackends {
		store, err := buildStorageBackend(backendConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build storage backend %s: %w", backendConfig.Name, err)
		}
		options = append(options, catalog.WithBlobStore(backendConfig.Name, store))
	}
	options = append(options, catalog.WithDefaultBlobStore(c.DefaultStorageBackend))

	switch c.ObjectKeyScheme {
	case "", "random":
		options = append(options, catalog.WithObjectKeyGenerator(objectkey.NewRandomGenerator()))
	case "sharded":
		options = append(options, catalog.WithObjectKeyGenerator(objectkey.NewShardedGenerator()))
	default:
		return nil, nil, fmt.Errorf("unknown object key scheme %q", c.ObjectKeyScheme)
	}

	svc, err := catalog.New(options...)
	if err != nil {
		return nil, nil, err
	}
	return svc, docs, nil
}

func (c *ServerConfig) buildDocumentStore() (catalog.DocumentStore, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func buildStorageBackend(bc StorageBackendConfig) (catalog.BlobStore, error) {
	switch bc.Type {
	case "memory":
		if base := stringValue(bc.Config, "public_base_url"); base != "" {
			return memorystorage.New(memorystorage.WithBaseURL(base)), nil
		}
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:       stringValue(bc.Config, "base_dir"),
			PublicBaseURL: stringValue(bc.Config, "public_base_url"),
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 stringValue(bc.Config, "region"),
			Bucket:                 stringValue(bc.Config, "bucket"),
			AccessKeyID:            stringValue(bc.Config, "access_key_id"),
			SecretAccessKey:        stringValue(bc.Config, "secret_access_key"),
			Endpoint:               stringValue(bc.Config, "endpoint"),
			UsePathStyle:           boolValue(bc.Config, "use_path_style"),
			PublicBaseURL:          stringValue(bc.Config, "public_base_url"),
			CreateBucketIfNotExist: boolValue(bc.Config, "create_bucket_if_not_exist"),
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", bc.Type)
	}
}

func stringValue(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func boolValue(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}
