package analysis

import (
	"strings"

	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

// 系统账号、公众号、服务号、折叠群等非个人会话的特征串，大小写不敏感
var excludedMarkers = []string{
	"filehelper",
	"weixin",
	"fmessage",
	"medianote",
	"floatbottle",
	"qmessage",
	"qqmail",
	"tmessage",
	"newsapp",
	"notifymessage",
	"notification_messages",
	"brandsessionholder",
	"brandservicesessionholder",
	"officialaccounts",
	"mphelper",
	"qqsafe",
	"exmail_tool",
	"voipnotifymessage",
	"opencustomerservicemsg",
	"@placeholder",
	"holder",
	"foldgroup",
	"session",
	"placeholder",
}

// 公众号前缀
const officialAccountPrefix = "gh_"

// Classifier 判断一个会话 ID 是否为非个人账号
type Classifier struct {
	extra map[string]struct{}
}

var defaultClassifier = NewClassifier()

// NewClassifier 在内置规则之外额外排除 extra 中的 ID（精确匹配，大小写不敏感）
func NewClassifier(extra ...string) *Classifier {
	c := &Classifier{extra: make(map[string]struct{}, len(extra))}
	for _, id := range extra {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			c.extra[id] = struct{}{}
		}
	}
	return c
}

// IsExcluded 空 ID、纯数字 ID、公众号与系统账号均被排除
func (c *Classifier) IsExcluded(id string) bool {
	if id == "" || util.IsNumeric(id) {
		return true
	}
	lower := strings.ToLower(id)
	if strings.HasPrefix(lower, officialAccountPrefix) {
		return true
	}
	for _, marker := range excludedMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	_, ok := c.extra[lower]
	return ok
}

// IsExcluded 使用内置规则
func IsExcluded(id string) bool {
	return defaultClassifier.IsExcluded(id)
}
