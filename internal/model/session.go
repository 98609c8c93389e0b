package model

import "strings"

// Session 会话，一个联系人对应一个会话
type Session struct {
	UserName string `json:"userName"`
	IsGroup  bool   `json:"isGroup"`
	NickName string `json:"nickName,omitempty"`
}

// IsChatRoom 群聊判定：显式标记或 @chatroom 后缀
func (s *Session) IsChatRoom() bool {
	return s.IsGroup || strings.HasSuffix(s.UserName, "@chatroom")
}

// Contact 联系人信息，仅用于显示名解析
type Contact struct {
	UserName string `json:"userName"`
	Alias    string `json:"alias,omitempty"`
	Remark   string `json:"remark,omitempty"`
	NickName string `json:"nickName,omitempty"`
}

// DisplayName 备注优先，其次昵称
func (c *Contact) DisplayName() string {
	if c == nil {
		return ""
	}
	if r := strings.TrimSpace(c.Remark); r != "" {
		return r
	}
	return strings.TrimSpace(c.NickName)
}
