package datasource

import (
	"context"
	"time"

	"github.com/whoamihappyhacking/chatlens/internal/model"
	"github.com/whoamihappyhacking/chatlens/internal/wechatdb/datasource/sqlite"
)

// DataSource 消息源。year 为 0 表示不限年份；talkers 限定聚合查询的联系人集合
// 日期均为 loc 下的 "2006-01-02"
type DataSource interface {
	ListSessions(ctx context.Context) ([]*model.Session, error)
	GetContacts(ctx context.Context, ids []string) (map[string]*model.Contact, error)
	GetMessages(ctx context.Context, talker string, year int) ([]*model.Message, error)

	// 聚合查询
	ContactCounts(ctx context.Context, year int, talkers []string) (map[string]*model.ContactCount, error)
	DailyBuckets(ctx context.Context, talker string, year int) (map[string]*model.DayBucket, error)
	HourWeekdayHistogram(ctx context.Context, year int, talkers []string) (*model.HourWeekdayGrid, error)
	TypeHistogram(ctx context.Context, year int, talkers []string) (map[int64]int64, error)
	TextLengthStats(ctx context.Context, year int, talkers []string) (*model.LengthStats, error)
	MidnightHistogram(ctx context.Context, year int, talkers []string, startHour, endHour int) (map[string]map[int]int64, error)
	ContactDates(ctx context.Context, year int, talkers []string) (map[string][]string, error)
	DailyCounts(ctx context.Context, year int, talkers []string) (map[string]map[string]int64, error)

	// LastModified 数据源最后修改时间（UnixNano），作为缓存新鲜度令牌
	LastModified() (int64, error)
	// Fingerprint 数据文件指纹，用于 HTTP ETag
	Fingerprint() (string, error)

	Close() error
}

// New 打开 dataDir 下的归档数据库
func New(dataDir string, loc *time.Location) (DataSource, error) {
	ds, err := sqlite.New(dataDir, loc)
	if err != nil {
		return nil, err
	}
	return ds, nil
}
