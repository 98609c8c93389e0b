package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whoamihappyhacking/chatlens/internal/errors"
	"github.com/whoamihappyhacking/chatlens/internal/model"
)

func TestIsExcluded(t *testing.T) {
	excluded := []string{
		"", "12345678", "gh_abcdef", "GH_Upper", "filehelper", "weixin", "fmessage",
		"brandsessionholder", "notification_messages", "@placeholder_foldgroup", "MPHelper",
		"some_session_id", "qqmail",
	}
	for _, id := range excluded {
		assert.True(t, IsExcluded(id), id)
	}

	kept := []string{"wxid_alice", "alice2024", "bob_smith"}
	for _, id := range kept {
		assert.False(t, IsExcluded(id), id)
	}
}

func TestClassifierExtra(t *testing.T) {
	c := NewClassifier(" WXID_Bot ", "")
	assert.True(t, c.IsExcluded("wxid_bot"))
	assert.False(t, c.IsExcluded("wxid_alice"))
	assert.True(t, c.IsExcluded("gh_news"))
}

func TestScope(t *testing.T) {
	assert.Equal(t, "all", AllTime().Key())
	assert.Equal(t, "2024", YearScope(2024).Key())
	assert.Equal(t, "year", YearScope(2024).Kind())

	s, err := ParseScope("")
	require.NoError(t, err)
	assert.True(t, s.IsAll())
	s, err = ParseScope("2023")
	require.NoError(t, err)
	assert.Equal(t, 2023, s.Year)
	_, err = ParseScope("20x3")
	assert.True(t, errors.Is(err, errors.ErrInvalidScope))
}

func TestFilterByScope(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	msgs := []*model.Message{
		// 2023-12-31 17:00 UTC 在 +8 时区已是 2024 年
		{Talker: "a", Time: time.Date(2023, 12, 31, 17, 0, 0, 0, time.UTC)},
		{Talker: "a", Time: time.Date(2023, 12, 31, 15, 0, 0, 0, time.UTC)},
		{Talker: "a", Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	all := FilterByScope(AllTime(), msgs, shanghai)
	assert.Len(t, all, 3)
	assert.Same(t, msgs[0], all[0])

	year := FilterByScope(YearScope(2024), msgs, shanghai)
	require.Len(t, year, 2)
	assert.Same(t, msgs[0], year[0])
	assert.Same(t, msgs[2], year[1])

	assert.Len(t, FilterByScope(YearScope(2024), msgs, time.UTC), 1)
}
