// Package objectkey provides storage key generation strategies for
// uploaded assets. Keys are generated independently of the original
// filename so concurrent uploads of identically named files never collide;
// only the extension is carried over, for content-type hints on public
// buckets.
package objectkey

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Generator defines the interface for object key generation strategies
type Generator interface {
	// GenerateKey creates a collision-free storage key for an upload. The
	// original filename only contributes its extension.
	GenerateKey(originalFilename string) string
}

// RandomGenerator produces flat keys of the form <uuid>.<ext>, matching
// public buckets whose URLs are <base>/<key>.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) GenerateKey(originalFilename string) string {
	id := uuid.NewString()
	if ext := extension(originalFilename); ext != "" {
		return id + ext
	}
	return id
}

// ShardedGenerator produces Git-style sharded keys:
// assets/ab/cdef1234..._<ext>. Useful for filesystem backends where flat
// directories get large.
type ShardedGenerator struct {
	// ShardLength controls how many hex characters form the shard
	// directory (default: 2).
	ShardLength int
}

func NewShardedGenerator() *ShardedGenerator {
	return &ShardedGenerator{ShardLength: 2}
}

func (g *ShardedGenerator) GenerateKey(originalFilename string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")

	n := g.ShardLength
	if n <= 0 || n >= len(id) {
		n = 2
	}

	name := id[n:]
	if ext := extension(originalFilename); ext != "" {
		name += ext
	}
	return fmt.Sprintf("assets/%s/%s", id[:n], name)
}

// extension returns a sanitized lower-case extension including the dot, or
// "" when the filename has none.
func extension(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if ext == "." || ext == "" {
		return ""
	}
	// Extensions come from user-supplied filenames; keep keys clean.
	replacer := strings.NewReplacer(
		"/", "",
		"\\", "",
		":", "",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
		" ", "",
	)
	return replacer.Replace(ext)
}
