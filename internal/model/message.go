package model

import (
	"strings"
	"time"
)

// 消息类型，与微信 local_type 取值保持一致
const (
	MessageTypeText     int64 = 1
	MessageTypeImage    int64 = 3
	MessageTypeVoice    int64 = 34
	MessageTypeCard     int64 = 42
	MessageTypeVideo    int64 = 43
	MessageTypeEmoji    int64 = 47
	MessageTypeLocation int64 = 48
	MessageTypeShare    int64 = 49
	MessageTypeVOIP     int64 = 50
	MessageTypeSystem   int64 = 10000
	MessageTypeRevoke   int64 = 10002
)

// 撤回提示文本；系统消息中出现即视为撤回记录
var revokeMarkers = []string{"撤回了一条消息", "recalled a message"}

// Message 表示一条单聊消息，只读
type Message struct {
	Seq     int64     `json:"seq"`
	Talker  string    `json:"talker"` // 会话 ID（对方 username）
	IsSelf  bool      `json:"isSelf"`
	Time    time.Time `json:"time"`
	Type    int64     `json:"type"`
	SubType int64     `json:"subType"`
	Content string    `json:"content"`
}

// IsText 文本消息
func (m *Message) IsText() bool {
	return m.Type == MessageTypeText
}

// IsRevoked 撤回提示（系统消息）
func (m *Message) IsRevoked() bool {
	if m.Type == MessageTypeRevoke {
		return true
	}
	if m.Type != MessageTypeSystem {
		return false
	}
	for _, marker := range revokeMarkers {
		if strings.Contains(m.Content, marker) {
			return true
		}
	}
	return false
}

// PlainTextContent 返回文本内容；非文本消息返回占位符
func (m *Message) PlainTextContent() string {
	if m.IsText() {
		return m.Content
	}
	return TypePlaceholder(m.Type)
}

// TypePlaceholder 非文本消息的展示占位符
func TypePlaceholder(t int64) string {
	switch t {
	case MessageTypeImage:
		return "[图片]"
	case MessageTypeVoice:
		return "[语音]"
	case MessageTypeCard:
		return "[名片]"
	case MessageTypeVideo:
		return "[视频]"
	case MessageTypeEmoji:
		return "[动画表情]"
	case MessageTypeLocation:
		return "[位置]"
	case MessageTypeShare:
		return "[链接/文件]"
	case MessageTypeVOIP:
		return "[语音/视频通话]"
	case MessageTypeSystem, MessageTypeRevoke:
		return "[系统消息]"
	default:
		return "[消息]"
	}
}

// TypeName 消息类型的稳定英文标识，用于类型分布
func TypeName(t int64) string {
	switch t {
	case MessageTypeText:
		return "text"
	case MessageTypeImage:
		return "image"
	case MessageTypeVoice:
		return "voice"
	case MessageTypeCard:
		return "card"
	case MessageTypeVideo:
		return "video"
	case MessageTypeEmoji:
		return "emoji"
	case MessageTypeLocation:
		return "location"
	case MessageTypeShare:
		return "link"
	case MessageTypeVOIP:
		return "voip"
	case MessageTypeSystem, MessageTypeRevoke:
		return "system"
	default:
		return "other"
	}
}
