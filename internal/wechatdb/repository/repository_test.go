package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whoamihappyhacking/chatlens/internal/model"
	"github.com/whoamihappyhacking/chatlens/internal/wechatdb/datasource"
)

// stubSource 只实现显示名相关的方法，其余方法由嵌入的 nil 接口兜底
type stubSource struct {
	datasource.DataSource
	sessions    []*model.Session
	contacts    map[string]*model.Contact
	contactsErr error
}

func (s *stubSource) ListSessions(ctx context.Context) ([]*model.Session, error) {
	return s.sessions, nil
}

func (s *stubSource) GetContacts(ctx context.Context, ids []string) (map[string]*model.Contact, error) {
	if s.contactsErr != nil {
		return nil, s.contactsErr
	}
	out := make(map[string]*model.Contact)
	for _, id := range ids {
		if c, ok := s.contacts[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func TestGetDisplayNames(t *testing.T) {
	src := &stubSource{
		sessions: []*model.Session{
			{UserName: "wxid_a", NickName: "会话A"},
			{UserName: "wxid_b", NickName: "会话B"},
			{UserName: "wxid_c", NickName: "会话C"},
		},
		contacts: map[string]*model.Contact{
			"wxid_a": {UserName: "wxid_a", Remark: "备注A", NickName: "昵称A"},
			"wxid_b": {UserName: "wxid_b", NickName: "昵称B"},
		},
	}
	r := New(src)
	ctx := context.Background()

	_, err := r.ListSessions(ctx)
	require.NoError(t, err)

	names, err := r.GetDisplayNames(ctx, []string{"wxid_a", "wxid_b", "wxid_c", "wxid_d"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"wxid_a": "备注A",
		"wxid_b": "昵称B",
		"wxid_c": "会话C",
		"wxid_d": "wxid_d",
	}, names)

	empty, err := r.GetDisplayNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetDisplayNamesContactFailure(t *testing.T) {
	src := &stubSource{
		sessions:    []*model.Session{{UserName: "wxid_a", NickName: "会话A"}},
		contactsErr: fmt.Errorf("no contact table"),
	}
	r := New(src)
	ctx := context.Background()
	_, err := r.ListSessions(ctx)
	require.NoError(t, err)

	names, err := r.GetDisplayNames(ctx, []string{"wxid_a", "wxid_b"})
	require.NoError(t, err)
	assert.Equal(t, "会话A", names["wxid_a"])
	assert.Equal(t, "wxid_b", names["wxid_b"])
}
