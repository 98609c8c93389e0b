package analysis

import (
	"regexp"
	"strings"
	"sync"
)

// LaughterFamily 一类笑声写法
type LaughterFamily struct {
	Name string `json:"name" mapstructure:"name"`
	Expr string `json:"expr" mapstructure:"expr"`
}

// LaughterPatterns 按顺序合并为一个左优先的分支正则，匹配结果互不重叠
type LaughterPatterns struct {
	Families []LaughterFamily `json:"families" mapstructure:"families"`

	once sync.Once
	re   *regexp.Regexp
	err  error
}

// DefaultLaughterPatterns 中文/英文笑声、缩写，以及 hhh 式音译。
// ASCII 写法要求前后都是单词边界，withhold、lollipop、手机号里的 233 不算笑声；
// \b 只认 ASCII，所以 "哈哈hhh" 中的 hhh 仍会命中
func DefaultLaughterPatterns() *LaughterPatterns {
	return &LaughterPatterns{
		Families: []LaughterFamily{
			{Name: "token", Expr: `(?:[哈呵嘿嘻]|笑死)+|\b(?:xswl|lol|lmao|233+)+\b`},
			{Name: "transliteration", Expr: `\bh{2,}\b`},
		},
	}
}

// Regexp 编译一次后复用
func (p *LaughterPatterns) Regexp() (*regexp.Regexp, error) {
	p.once.Do(func() {
		parts := make([]string, 0, len(p.Families))
		for _, f := range p.Families {
			parts = append(parts, "(?:"+f.Expr+")")
		}
		p.re, p.err = regexp.Compile("(?i)" + strings.Join(parts, "|"))
	})
	return p.re, p.err
}

// EmojiCategory 表情人格分类及其包含的表情/贴纸
type EmojiCategory struct {
	Tag    string   `json:"tag" mapstructure:"tag"`
	Label  string   `json:"label" mapstructure:"label"`
	Tokens []string `json:"tokens" mapstructure:"tokens"`
}

// EmojiTable 表情匹配规则与人格分类表
type EmojiTable struct {
	Pattern    string          `json:"pattern" mapstructure:"pattern"`
	Categories []EmojiCategory `json:"categories" mapstructure:"categories"`

	// 没有任何命中 / 最高分并列时使用
	NoneTag   string `json:"none_tag" mapstructure:"none_tag"`
	NoneLabel string `json:"none_label" mapstructure:"none_label"`
	TieTag    string `json:"tie_tag" mapstructure:"tie_tag"`
	TieLabel  string `json:"tie_label" mapstructure:"tie_label"`

	once    sync.Once
	re      *regexp.Regexp
	err     error
	byToken map[string]int
}

// DefaultEmojiTable 微信内置贴纸 [xx] 与常见 Unicode 表情
func DefaultEmojiTable() *EmojiTable {
	return &EmojiTable{
		Pattern: `\[[^\[\]\s]{1,8}\]|[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}]`,
		Categories: []EmojiCategory{
			{Tag: "joyful", Label: "开心果", Tokens: []string{
				"[呲牙]", "[偷笑]", "[愉快]", "[憨笑]", "[破涕为笑]", "[笑脸]", "[Grin]", "[Chuckle]", "[Joyful]", "[Laugh]",
				"😂", "🤣", "😄", "😁", "😆", "😊",
			}},
			{Tag: "affectionate", Label: "暖心派", Tokens: []string{
				"[爱心]", "[拥抱]", "[玫瑰]", "[亲亲]", "[色]", "[Heart]", "[Hug]", "[Rose]",
				"❤", "🥰", "😘", "😍", "💕",
			}},
			{Tag: "sarcastic", Label: "阴阳师", Tokens: []string{
				"[旺柴]", "[捂脸]", "[机智]", "[奸笑]", "[白眼]", "[让我看看]", "[Facepalm]", "[Smirk]",
				"🙃", "😏", "🤡", "🐶",
			}},
			{Tag: "tearful", Label: "泪点低", Tokens: []string{
				"[流泪]", "[大哭]", "[可怜]", "[委屈]", "[难过]", "[Cry]",
				"😭", "😢", "🥺",
			}},
			{Tag: "fiery", Label: "暴躁派", Tokens: []string{
				"[发怒]", "[抓狂]", "[骷髅]", "[炸弹]", "[Angry]",
				"😡", "😤", "💢",
			}},
			{Tag: "polite", Label: "客气派", Tokens: []string{
				"[抱拳]", "[OK]", "[强]", "[握手]", "[合十]", "[Salute]", "[ThumbsUp]",
				"👍", "🙏", "👌", "🤝",
			}},
		},
		NoneTag:   "text_only",
		NoneLabel: "纯文字派",
		TieTag:    "versatile",
		TieLabel:  "百变派",
	}
}

func (t *EmojiTable) compile() {
	t.once.Do(func() {
		t.re, t.err = regexp.Compile(t.Pattern)
		t.byToken = make(map[string]int)
		for i, c := range t.Categories {
			for _, token := range c.Tokens {
				if _, ok := t.byToken[token]; !ok {
					t.byToken[token] = i
				}
			}
		}
	})
}

// Regexp 编译一次后复用
func (t *EmojiTable) Regexp() (*regexp.Regexp, error) {
	t.compile()
	return t.re, t.err
}

// CategoryOf 返回 token 所属分类下标；不属于任何分类返回 -1
func (t *EmojiTable) CategoryOf(token string) int {
	t.compile()
	if i, ok := t.byToken[token]; ok {
		return i
	}
	return -1
}
