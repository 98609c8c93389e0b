package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/whoamihappyhacking/chatlens/internal/model"
)

// Punctuation 统计的标点集合
var Punctuation = []string{"，", "。", "！", "？", "…", "～", "~", "、", "!", "?", ",", "."}

// 平均长度分档
const (
	terseBelow    = 6
	moderateBelow = 15
)

// 自己撤回时的系统提示
var selfRevokePrefixes = []string{"你撤回了", "You recalled"}

// IsSelfRevoke 自己撤回的消息；系统提示不一定标记为自己发出
func IsSelfRevoke(m *model.Message) bool {
	if !m.IsRevoked() {
		return false
	}
	if m.IsSelf {
		return true
	}
	for _, p := range selfRevokePrefixes {
		if strings.HasPrefix(m.Content, p) {
			return true
		}
	}
	return false
}

// StyleLabel 按平均字符数给出风格标签
func StyleLabel(avg float64) string {
	switch {
	case avg < terseBelow:
		return StyleTerse
	case avg < moderateBelow:
		return StyleModerate
	default:
		return StyleVerbose
	}
}

// AnalyzeLinguistic 只统计自己发出的文本消息；撤回提示单独计数
func AnalyzeLinguistic(msgs []*model.Message) LinguisticStyle {
	s := LinguisticStyle{Punctuation: make(map[string]int64, len(Punctuation))}
	for _, p := range Punctuation {
		s.Punctuation[p] = 0
	}
	for _, m := range msgs {
		if IsSelfRevoke(m) {
			s.RevokedCount++
			continue
		}
		if !m.IsSelf || !m.IsText() {
			continue
		}
		s.MessageCount++
		s.TotalChars += int64(utf8.RuneCountInString(m.Content))
		for _, p := range Punctuation {
			s.Punctuation[p] += int64(strings.Count(m.Content, p))
		}
	}
	if s.MessageCount > 0 {
		s.AverageLength = float64(s.TotalChars) / float64(s.MessageCount)
		s.Label = StyleLabel(s.AverageLength)
	}
	return s
}

// SelfTexts 自己发出的文本内容
func SelfTexts(msgs []*model.Message) []string {
	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.IsSelf && m.IsText() && m.Content != "" {
			texts = append(texts, m.Content)
		}
	}
	return texts
}
