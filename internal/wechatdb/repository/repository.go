package repository

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/whoamihappyhacking/chatlens/internal/model"
	"github.com/whoamihappyhacking/chatlens/internal/wechatdb/datasource"
)

// Repository 在数据源之上补充显示名解析，供分析引擎使用
type Repository struct {
	datasource.DataSource

	mu           sync.RWMutex
	sessionNames map[string]string // 会话列表中的昵称，作为显示名的兜底
}

func New(ds datasource.DataSource) *Repository {
	return &Repository{
		DataSource:   ds,
		sessionNames: make(map[string]string),
	}
}

// ListSessions 同时记录会话昵称
func (r *Repository) ListSessions(ctx context.Context) ([]*model.Session, error) {
	sessions, err := r.DataSource.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(sessions))
	for _, s := range sessions {
		if s != nil && s.NickName != "" {
			names[s.UserName] = s.NickName
		}
	}
	r.mu.Lock()
	r.sessionNames = names
	r.mu.Unlock()
	return sessions, nil
}

// GetDisplayNames 备注 > 昵称 > 会话昵称 > ID
// 联系人表读取失败时仍返回可用的兜底名称
func (r *Repository) GetDisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	contacts, err := r.DataSource.GetContacts(ctx, ids)
	if err != nil {
		log.Debug().Err(err).Int("ids", len(ids)).Msg("GetContacts failed, fallback to session names")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range ids {
		name := contacts[id].DisplayName()
		if name == "" {
			name = r.sessionNames[id]
		}
		if name == "" {
			name = id
		}
		out[id] = name
	}
	return out, nil
}
