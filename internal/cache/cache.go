package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/cespare/xxhash"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/whoamihappyhacking/chatlens/internal/analysis"
	"github.com/whoamihappyhacking/chatlens/internal/errors"
)

// envelopeVersion 格式变化时递增，旧条目按未命中处理
const envelopeVersion = 1

// envelope 缓存条目：报告的键值形式经 JSON 编码、可选 zstd 压缩，附带校验和与数据版本
type envelope struct {
	Version    int    `json:"v"`
	Scope      string `json:"scope"`
	Token      int64  `json:"token"`
	Compressed bool   `json:"compressed"`
	Checksum   uint64 `json:"checksum"`
	SavedAt    int64  `json:"saved_at"`
	Payload    []byte `json:"payload"`
}

// Cache 按范围分槽的报告缓存；数据版本（freshness token）不一致即视为未命中
type Cache struct {
	store    Store
	compress bool
	enc      *zstd.Encoder
	dec      *zstd.Decoder
}

func New(store Store, compress bool) (*Cache, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Cache{store: store, compress: compress, enc: enc, dec: dec}, nil
}

func slotKey(scope analysis.Scope) string {
	return "report:" + scope.Key()
}

// Get 读取失败、格式错误、校验失败或 token 不一致都返回未命中
func (c *Cache) Get(ctx context.Context, scope analysis.Scope, token int64) (*analysis.Bundle, bool) {
	raw, err := c.store.Get(ctx, slotKey(scope))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			requestsTotal.WithLabelValues(resultMiss).Inc()
		} else {
			requestsTotal.WithLabelValues(resultError).Inc()
			log.Warn().Err(err).Str("scope", scope.Key()).Msg("read report cache failed")
		}
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Version != envelopeVersion || env.Scope != scope.Key() {
		requestsTotal.WithLabelValues(resultCorrupt).Inc()
		log.Debug().Err(err).Str("scope", scope.Key()).Msg("drop unreadable cache entry")
		return nil, false
	}
	if env.Token != token {
		requestsTotal.WithLabelValues(resultStale).Inc()
		log.Debug().Str("scope", scope.Key()).Int64("cached", env.Token).Int64("current", token).Msg("cache entry is stale")
		return nil, false
	}

	b, err := c.decode(&env)
	if err != nil {
		requestsTotal.WithLabelValues(resultCorrupt).Inc()
		log.Debug().Err(err).Str("scope", scope.Key()).Msg("drop corrupt cache entry")
		return nil, false
	}
	requestsTotal.WithLabelValues(resultHit).Inc()
	return b, true
}

func (c *Cache) decode(env *envelope) (*analysis.Bundle, error) {
	if xxhash.Sum64(env.Payload) != env.Checksum {
		return nil, errors.New(nil, 500, "cache checksum mismatch")
	}
	payload := env.Payload
	if env.Compressed {
		var err error
		if payload, err = c.dec.DecodeAll(env.Payload, nil); err != nil {
			return nil, err
		}
	}

	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return analysis.BundleFromMap(m)
}

// Put 覆盖该范围的缓存槽位；只应在一次计算完整结束后调用
func (c *Cache) Put(ctx context.Context, scope analysis.Scope, b *analysis.Bundle, token int64) error {
	if b == nil {
		return errors.InvalidArg("bundle")
	}
	m, err := b.ToMap()
	if err != nil {
		return errors.Wrap(err, "encode report failed", 0)
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encode report failed", 0)
	}
	if c.compress {
		payload = c.enc.EncodeAll(payload, nil)
	}
	raw, err := json.Marshal(envelope{
		Version:    envelopeVersion,
		Scope:      scope.Key(),
		Token:      token,
		Compressed: c.compress,
		Checksum:   xxhash.Sum64(payload),
		SavedAt:    time.Now().Unix(),
		Payload:    payload,
	})
	if err != nil {
		return errors.Wrap(err, "encode cache entry failed", 0)
	}
	if err := c.store.Put(ctx, slotKey(scope), raw); err != nil {
		return errors.Wrap(err, "write report cache failed", 0)
	}
	return nil
}

func (c *Cache) Close() error {
	c.enc.Close()
	c.dec.Close()
	return c.store.Close()
}
