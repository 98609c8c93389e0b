package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/whoamihappyhacking/chatlens/internal/errors"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New(nil, 404, "cache entry not found")

// Store 缓存的字节存储后端
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, val []byte) error
	Close() error
}

const (
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultFileName bolt 后端在工作目录下的默认文件名
const DefaultFileName = "report_cache.db"

// Options 创建 Store 的参数
type Options struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisDB       int
	RedisPassword string
	Compress      bool
}

// OpenStore 按 backend 创建存储；bolt 的 path 为空时落在 workDir 下
func OpenStore(ctx context.Context, opts Options, workDir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendBolt:
		path := opts.Path
		if path == "" {
			path = filepath.Join(workDir, DefaultFileName)
		}
		store, err := NewBoltStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendRedis:
		store, err := NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.InvalidArg(fmt.Sprintf("cache backend %q", opts.Backend))
	}
}
