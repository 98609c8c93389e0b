package chatlens

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/whoamihappyhacking/chatlens/internal/analysis"
	"github.com/whoamihappyhacking/chatlens/internal/cache"
	"github.com/whoamihappyhacking/chatlens/internal/chatlens/conf"
	"github.com/whoamihappyhacking/chatlens/internal/chatlens/http"
	"github.com/whoamihappyhacking/chatlens/internal/errors"
	"github.com/whoamihappyhacking/chatlens/internal/wechatdb"
	"github.com/whoamihappyhacking/chatlens/internal/wechatdb/datasource/sqlite"
)

// DefaultRefreshDebounce 归档库连续写入时，最后一次变更后等待多久再重算
const DefaultRefreshDebounce = 3 * time.Second

// Manager 串联归档库、计算引擎与结果缓存
type Manager struct {
	conf *conf.Config

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	db     *wechatdb.DB
	engine *analysis.Engine
	cache  *cache.Cache
	http   *http.Service

	// 同一时刻只做一次全量计算
	computeMu sync.Mutex

	warmMu sync.Mutex
	warmed map[string]analysis.Scope

	watcher  *fsnotify.Watcher
	debounce time.Duration
}

func New(cfg *conf.Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		conf:     cfg,
		ctx:      ctx,
		cancel:   cancel,
		warmed:   make(map[string]analysis.Scope),
		debounce: DefaultRefreshDebounce,
	}
}

// Open 打开归档库与缓存
func (m *Manager) Open(ctx context.Context) error {
	if m.conf.GetDataDir() == "" {
		return errors.InvalidArg("data_dir")
	}
	opts := m.conf.GetAnalysis().ToOptions()

	db, err := wechatdb.New(m.conf.GetDataDir(), opts.Location)
	if err != nil {
		return err
	}

	cacheOpts := m.conf.GetCache().ToOptions()
	store, err := cache.OpenStore(ctx, cacheOpts, m.conf.GetWorkDir())
	if err != nil {
		db.Close()
		return err
	}
	c, err := cache.New(store, cacheOpts.Compress)
	if err != nil {
		store.Close()
		db.Close()
		return err
	}

	m.mu.Lock()
	m.db = db
	m.engine = analysis.NewEngine(db.GetRepository(), opts)
	m.cache = c
	m.mu.Unlock()

	log.Info().Str("data_dir", m.conf.GetDataDir()).Str("cache", cacheOpts.Backend).Msg("archive opened")
	return nil
}

// Ready 归档库是否已打开
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db != nil
}

func (m *Manager) state() (*wechatdb.DB, *analysis.Engine, *cache.Cache, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.db == nil {
		return nil, nil, nil, errors.ErrNotConnected
	}
	return m.db, m.engine, m.cache, nil
}

// Report 返回 scope 的报告：数据版本未变时直接读缓存，否则重新计算并写回。
// refresh 为 true 时跳过缓存读取。
func (m *Manager) Report(ctx context.Context, scope analysis.Scope, refresh bool) (*analysis.Bundle, error) {
	db, engine, c, err := m.state()
	if err != nil {
		return nil, err
	}
	token, err := db.LastModified()
	if err != nil {
		return nil, errors.Wrap(err, "read archive version failed", errors.ErrNotConnected.Code)
	}

	if !refresh {
		if b, ok := c.Get(ctx, scope, token); ok {
			m.markWarm(scope)
			return b, nil
		}
	}

	m.computeMu.Lock()
	defer m.computeMu.Unlock()

	// 等锁期间可能已被 Close，也可能已由其他请求算好
	if _, engine, c, err = m.state(); err != nil {
		return nil, err
	}
	if !refresh {
		if b, ok := c.Get(ctx, scope, token); ok {
			m.markWarm(scope)
			return b, nil
		}
	}

	b, err := engine.Compute(ctx, scope)
	if err != nil {
		return nil, err
	}
	if ctx.Err() == nil {
		if err := c.Put(ctx, scope, b, token); err != nil {
			log.Warn().Err(err).Str("scope", scope.Key()).Msg("save report to cache failed")
		}
	}
	m.markWarm(scope)
	return b, nil
}

// ContactSegments 单个联系人的会话分段，不经过缓存
func (m *Manager) ContactSegments(ctx context.Context, scope analysis.Scope, contactID string) (*analysis.ConversationSegments, error) {
	_, engine, _, err := m.state()
	if err != nil {
		return nil, err
	}
	return engine.ContactSegments(ctx, scope, contactID)
}

func (m *Manager) Fingerprint() (string, error) {
	db, _, _, err := m.state()
	if err != nil {
		return "", err
	}
	return db.Fingerprint()
}

func (m *Manager) markWarm(scope analysis.Scope) {
	m.warmMu.Lock()
	m.warmed[scope.Key()] = scope
	m.warmMu.Unlock()
}

// WarmScopes 已计算过的范围，按 key 排序
func (m *Manager) WarmScopes() []analysis.Scope {
	m.warmMu.Lock()
	defer m.warmMu.Unlock()
	keys := make([]string, 0, len(m.warmed))
	for k := range m.warmed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]analysis.Scope, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.warmed[k])
	}
	return out
}

// StartAutoRefresh 监听数据目录，归档库变更后重算已计算过的范围
func (m *Manager) StartAutoRefresh() error {
	if m.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(m.conf.GetDataDir()); err != nil {
		watcher.Close()
		return err
	}
	m.watcher = watcher
	go m.watchLoop(watcher)
	log.Info().Str("dir", m.conf.GetDataDir()).Msg("auto refresh enabled")
	return nil
}

func (m *Manager) watchLoop(watcher *fsnotify.Watcher) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isArchiveEvent(event) {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("archive changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(m.debounce, m.refreshWarmed)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Err(err).Msg("watch archive failed")
		}
	}
}

// isArchiveEvent chatlog.db 及其 -wal/-shm/-journal 文件的内容变更
func isArchiveEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == sqlite.ArchiveFile || strings.HasPrefix(name, sqlite.ArchiveFile+"-")
}

func (m *Manager) refreshWarmed() {
	for _, scope := range m.WarmScopes() {
		if m.ctx.Err() != nil {
			return
		}
		if _, err := m.Report(m.ctx, scope, false); err != nil {
			log.Warn().Err(err).Str("scope", scope.Key()).Msg("auto refresh failed")
			continue
		}
		log.Debug().Str("scope", scope.Key()).Msg("report refreshed")
	}
}

// StartServer 后台启动 HTTP 服务
func (m *Manager) StartServer() error {
	m.mu.Lock()
	if m.http == nil {
		m.http = http.NewService(m.conf, m)
	}
	svc := m.http
	m.mu.Unlock()
	return svc.Start()
}

// Serve 前台运行 HTTP 服务直至出错或被 Close
func (m *Manager) Serve() error {
	m.mu.Lock()
	if m.http == nil {
		m.http = http.NewService(m.conf, m)
	}
	svc := m.http
	m.mu.Unlock()
	return svc.ListenAndServe()
}

func (m *Manager) Close() error {
	m.cancel()
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}

	m.mu.RLock()
	svc := m.http
	m.mu.RUnlock()
	if svc != nil {
		svc.Stop()
	}

	// 等进行中的计算写完缓存再释放
	m.computeMu.Lock()
	defer m.computeMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			firstErr = err
		}
		m.cache = nil
	}
	if m.db != nil {
		if err := m.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.db = nil
	}
	m.engine = nil
	return firstErr
}
