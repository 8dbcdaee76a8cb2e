package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Environment variable mapping:
//
//	PORT        - Server port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//
//	DATABASE_URL - Connection string. "postgres://..." selects the
//	               postgres document store; empty or "memory" selects the
//	               in-memory store.
//
//	STORAGE_URL - Storage backend (one of):
//	              - "memory://" in-memory storage (default)
//	              - "file:///path/to/data?public_base_url=https://cdn.example.com"
//	              - "s3://bucket?region=ap-southeast-1&endpoint=...&public_base_url=..."
//
//	S3_ACCESS_KEY / S3_SECRET_KEY - credentials for the s3 scheme
//	OBJECT_KEY_SCHEME             - "random" (default) or "sharded"
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}
		if v, ok := lookupEnv(prefix, "OBJECT_KEY_SCHEME"); ok && v != "" {
			c.ObjectKeyScheme = v
		}

		if err := applyDatabaseEnv(prefix, c); err != nil {
			return err
		}
		return applyStorageEnv(prefix, c)
	}
}

func applyDatabaseEnv(prefix string, c *ServerConfig) error {
	dbURL, hasURL := lookupEnv(prefix, "DATABASE_URL")

	if !hasURL || dbURL == "" || dbURL == "memory" {
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
		return nil
	}

	if strings.HasPrefix(dbURL, "postgresql://") || strings.HasPrefix(dbURL, "postgres://") {
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
		return nil
	}

	return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
}

func applyStorageEnv(prefix string, c *ServerConfig) error {
	storageURL, hasURL := lookupEnv(prefix, "STORAGE_URL")
	if !hasURL || storageURL == "" || storageURL == "memory://" {
		return nil // keep the memory default
	}

	u, err := url.Parse(storageURL)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "memory":
		return nil
	case "file":
		c.StorageBackends = []StorageBackendConfig{{
			Name: "fs",
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir":        u.Path,
				"public_base_url": u.Query().Get("public_base_url"),
			},
		}}
		c.DefaultStorageBackend = "fs"
		return nil
	case "s3":
		accessKey, _ := lookupEnv(prefix, "S3_ACCESS_KEY")
		secretKey, _ := lookupEnv(prefix, "S3_SECRET_KEY")
		c.StorageBackends = []StorageBackendConfig{{
			Name: "s3",
			Type: "s3",
			Config: map[string]interface{}{
				"bucket":                     u.Host,
				"region":                     u.Query().Get("region"),
				"endpoint":                   u.Query().Get("endpoint"),
				"public_base_url":            u.Query().Get("public_base_url"),
				"use_path_style":             u.Query().Get("use_path_style") == "true",
				"create_bucket_if_not_exist": u.Query().Get("create_bucket") == "true",
				"access_key_id":              accessKey,
				"secret_access_key":          secretKey,
			},
		}}
		c.DefaultStorageBackend = "s3"
		return nil
	default:
		return fmt.Errorf("unsupported STORAGE_URL scheme: %s", u.Scheme)
	}
}

func lookupEnv(prefix, key string) (string, bool) {
	if prefix != "" {
		if v, ok := os.LookupEnv(prefix + key); ok {
			return v, true
		}
	}
	return os.LookupEnv(key)
}
