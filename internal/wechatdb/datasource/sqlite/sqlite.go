package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/whoamihappyhacking/chatlens/internal/errors"
	"github.com/whoamihappyhacking/chatlens/internal/model"
	"github.com/whoamihappyhacking/chatlens/internal/wechatdb/datasource/dbm"
	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

const (
	ArchiveGroup = "archive"
	ArchiveFile  = "chatlog.db"
)

// Schema 归档库结构；message.compress_content 为 zstd 压缩的正文，content 为空时使用
const Schema = `
CREATE TABLE IF NOT EXISTS session (
	username  TEXT PRIMARY KEY,
	is_group  INTEGER NOT NULL DEFAULT 0,
	nick_name TEXT
);
CREATE TABLE IF NOT EXISTS contact (
	username  TEXT PRIMARY KEY,
	alias     TEXT,
	remark    TEXT,
	nick_name TEXT
);
CREATE TABLE IF NOT EXISTS message (
	id               INTEGER PRIMARY KEY,
	talker           TEXT NOT NULL,
	is_self          INTEGER NOT NULL DEFAULT 0,
	create_time      INTEGER NOT NULL,
	type             INTEGER NOT NULL DEFAULT 1,
	sub_type         INTEGER NOT NULL DEFAULT 0,
	content          TEXT,
	compress_content BLOB
);
CREATE INDEX IF NOT EXISTS idx_message_talker_time ON message(talker, create_time);
`

var (
	driverMu    sync.Mutex
	driverNames = map[string]string{}
)

// textDecoder cl_text 共用的解码器，DecodeAll 可并发调用
var textDecoder, _ = zstd.NewReader(nil)

// driverFor 为每个时区注册一个带 cl_date / cl_hour / cl_weekday / cl_text 函数的驱动，
// 保证 SQL 侧与 Go 侧的日历换算、正文解码一致
func driverFor(loc *time.Location) string {
	driverMu.Lock()
	defer driverMu.Unlock()

	key := loc.String()
	if name, ok := driverNames[key]; ok {
		return name
	}
	name := fmt.Sprintf("sqlite3_chatlens_%d", len(driverNames))
	sql.Register(name, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := registerTimeFuncs(conn, loc); err != nil {
				return err
			}
			return registerTextFunc(conn)
		},
	})
	driverNames[key] = name
	return name
}

func registerTimeFuncs(conn *sqlite3.SQLiteConn, loc *time.Location) error {
	if err := conn.RegisterFunc("cl_date", func(ts int64) string {
		return time.Unix(ts, 0).In(loc).Format(util.DateLayout)
	}, true); err != nil {
		return err
	}
	if err := conn.RegisterFunc("cl_hour", func(ts int64) int64 {
		return int64(time.Unix(ts, 0).In(loc).Hour())
	}, true); err != nil {
		return err
	}
	return conn.RegisterFunc("cl_weekday", func(ts int64) int64 {
		return int64(time.Unix(ts, 0).In(loc).Weekday())
	}, true)
}

// registerTextFunc cl_text(content, compress_content)：content 为空时解压 compress_content
func registerTextFunc(conn *sqlite3.SQLiteConn) error {
	return conn.RegisterFunc("cl_text", func(content string, compressed []byte) (string, error) {
		if content != "" || len(compressed) == 0 {
			return content, nil
		}
		plain, err := textDecoder.DecodeAll(compressed, nil)
		if err != nil {
			return "", fmt.Errorf("decompress content: %w", err)
		}
		return string(plain), nil
	}, true)
}

// messageText 交给 cl_text 的参数，NULL 统一换成空值
const messageText = "cl_text(COALESCE(content, ''), COALESCE(compress_content, x''))"

// DataSource 基于单文件 SQLite 归档的消息源
type DataSource struct {
	path string
	loc  *time.Location
	dbm  *dbm.DBManager
	zr   *zstd.Decoder

	mu sync.RWMutex
	db *sql.DB
}

// New 以只读方式打开 dataDir/chatlog.db
func New(dataDir string, loc *time.Location) (*DataSource, error) {
	if loc == nil {
		loc = time.Local
	}
	path := filepath.Join(dataDir, ArchiveFile)
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "archive not found: "+path, errors.ErrNotConnected.Code)
	}

	db, err := sql.Open(driverFor(loc), "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "open archive", errors.ErrNotConnected.Code)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping archive", errors.ErrNotConnected.Code)
	}

	zr, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init zstd decoder: %w", err)
	}

	return &DataSource{
		path: path,
		loc:  loc,
		dbm:  dbm.NewDBManager(dataDir, map[string][]string{ArchiveGroup: {ArchiveFile}}),
		zr:   zr,
		db:   db,
	}, nil
}

// InitArchive 创建（或补齐）归档库结构并返回可写连接，供导入工具与测试使用
func InitArchive(dataDir string) (*sql.DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", filepath.Join(dataDir, ArchiveFile))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

func (ds *DataSource) conn() (*sql.DB, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.db == nil {
		return nil, errors.ErrNotConnected
	}
	return ds.db, nil
}

func (ds *DataSource) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.db == nil {
		return nil
	}
	err := ds.db.Close()
	ds.db = nil
	ds.zr.Close()
	return err
}

func (ds *DataSource) LastModified() (int64, error) {
	if _, err := ds.conn(); err != nil {
		return 0, err
	}
	return ds.dbm.LastModifiedForGroups(ArchiveGroup)
}

func (ds *DataSource) Fingerprint() (string, error) {
	return ds.dbm.FingerprintForGroups(ArchiveGroup)
}

func inPlaceholders(ids []string) (string, []any) {
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = "?"
		args[i] = id
	}
	return "(" + strings.Join(ph, ",") + ")", args
}

// where 拼接 talker 与年份条件
func (ds *DataSource) where(year int, talkers []string, extra ...string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if talkers != nil {
		ph, a := inPlaceholders(talkers)
		conds = append(conds, "talker IN "+ph)
		args = append(args, a...)
	}
	if year > 0 {
		start, end := util.YearRange(year, ds.loc)
		conds = append(conds, "create_time >= ? AND create_time < ?")
		args = append(args, start, end)
	}
	conds = append(conds, extra...)
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (ds *DataSource) ListSessions(ctx context.Context) ([]*model.Session, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT username, is_group, COALESCE(nick_name, '') FROM session ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*model.Session, 0)
	for rows.Next() {
		s := &model.Session{}
		if err := rows.Scan(&s.UserName, &s.IsGroup, &s.NickName); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (ds *DataSource) GetContacts(ctx context.Context, ids []string) (map[string]*model.Contact, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	result := make(map[string]*model.Contact, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	ph, args := inPlaceholders(ids)
	rows, err := db.QueryContext(ctx,
		"SELECT username, COALESCE(alias, ''), COALESCE(remark, ''), COALESCE(nick_name, '') FROM contact WHERE username IN "+ph, args...)
	if err != nil {
		return nil, fmt.Errorf("get contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.Contact{}
		if err := rows.Scan(&c.UserName, &c.Alias, &c.Remark, &c.NickName); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		result[c.UserName] = c
	}
	return result, rows.Err()
}

func (ds *DataSource) GetMessages(ctx context.Context, talker string, year int) ([]*model.Message, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	where, args := ds.where(year, []string{talker})
	rows, err := db.QueryContext(ctx,
		"SELECT id, is_self, create_time, type, sub_type, COALESCE(content, ''), compress_content FROM message"+where+" ORDER BY create_time, id", args...)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*model.Message, 0)
	for rows.Next() {
		var (
			createTime int64
			compressed []byte
		)
		m := &model.Message{Talker: talker}
		if err := rows.Scan(&m.Seq, &m.IsSelf, &createTime, &m.Type, &m.SubType, &m.Content, &compressed); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if m.Content == "" && len(compressed) > 0 {
			plain, err := ds.zr.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress message %d: %w", m.Seq, err)
			}
			m.Content = string(plain)
		}
		m.Time = time.Unix(createTime, 0).In(ds.loc)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (ds *DataSource) ContactCounts(ctx context.Context, year int, talkers []string) (map[string]*model.ContactCount, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	result := make(map[string]*model.ContactCount)
	if talkers != nil && len(talkers) == 0 {
		return result, nil
	}
	where, args := ds.where(year, talkers)
	rows, err := db.QueryContext(ctx, `SELECT talker,
		SUM(CASE WHEN is_self = 1 THEN 1 ELSE 0 END),
		SUM(CASE WHEN is_self = 1 THEN 0 ELSE 1 END)
		FROM message`+where+` GROUP BY talker`, args...)
	if err != nil {
		return nil, fmt.Errorf("contact counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.ContactCount{}
		if err := rows.Scan(&c.Talker, &c.Sent, &c.Received); err != nil {
			return nil, fmt.Errorf("scan contact count: %w", err)
		}
		result[c.Talker] = c
	}
	return result, rows.Err()
}

func (ds *DataSource) DailyBuckets(ctx context.Context, talker string, year int) (map[string]*model.DayBucket, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	where, args := ds.where(year, []string{talker})
	// 窗口函数取每天按 (create_time, id) 排序的第一条
	rows, err := db.QueryContext(ctx, `SELECT d, cnt, is_self FROM (
		SELECT cl_date(create_time) AS d, is_self,
			COUNT(*) OVER (PARTITION BY cl_date(create_time)) AS cnt,
			ROW_NUMBER() OVER (PARTITION BY cl_date(create_time) ORDER BY create_time, id) AS rn
		FROM message`+where+`) WHERE rn = 1`, args...)
	if err != nil {
		return nil, fmt.Errorf("daily buckets: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*model.DayBucket)
	for rows.Next() {
		var (
			date string
			b    model.DayBucket
		)
		if err := rows.Scan(&date, &b.Count, &b.FirstIsSelf); err != nil {
			return nil, fmt.Errorf("scan daily bucket: %w", err)
		}
		result[date] = &b
	}
	return result, rows.Err()
}

func (ds *DataSource) HourWeekdayHistogram(ctx context.Context, year int, talkers []string) (*model.HourWeekdayGrid, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	grid := &model.HourWeekdayGrid{}
	if talkers != nil && len(talkers) == 0 {
		return grid, nil
	}
	where, args := ds.where(year, talkers)
	rows, err := db.QueryContext(ctx,
		"SELECT cl_hour(create_time) AS h, cl_weekday(create_time) AS w, COUNT(*) FROM message"+where+" GROUP BY h, w", args...)
	if err != nil {
		return nil, fmt.Errorf("hour weekday histogram: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h, w, c int64
		if err := rows.Scan(&h, &w, &c); err != nil {
			return nil, fmt.Errorf("scan histogram: %w", err)
		}
		if h < 0 || h > 23 || w < 0 || w > 6 {
			log.Debug().Int64("hour", h).Int64("weekday", w).Msg("histogram cell out of range")
			continue
		}
		grid[h][w] += c
	}
	return grid, rows.Err()
}

func (ds *DataSource) TypeHistogram(ctx context.Context, year int, talkers []string) (map[int64]int64, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	result := make(map[int64]int64)
	if talkers != nil && len(talkers) == 0 {
		return result, nil
	}
	where, args := ds.where(year, talkers)
	rows, err := db.QueryContext(ctx, "SELECT type, COUNT(*) FROM message"+where+" GROUP BY type", args...)
	if err != nil {
		return nil, fmt.Errorf("type histogram: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t, c int64
		if err := rows.Scan(&t, &c); err != nil {
			return nil, fmt.Errorf("scan type histogram: %w", err)
		}
		result[t] += c
	}
	return result, rows.Err()
}

func (ds *DataSource) TextLengthStats(ctx context.Context, year int, talkers []string) (*model.LengthStats, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	stats := &model.LengthStats{}
	if talkers != nil && len(talkers) == 0 {
		return stats, nil
	}
	where, args := ds.where(year, talkers, "type = 1", "(content IS NOT NULL OR compress_content IS NOT NULL)")
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(length("+messageText+")), 0) FROM message"+where, args...).
		Scan(&stats.Count, &stats.TotalRunes); err != nil {
		return nil, fmt.Errorf("text length stats: %w", err)
	}
	if stats.Count == 0 {
		return stats, nil
	}

	err = db.QueryRowContext(ctx,
		"SELECT talker, is_self, create_time, text, length(text) AS n FROM (SELECT talker, is_self, create_time, id, "+
			messageText+" AS text FROM message"+where+") ORDER BY n DESC, create_time ASC, id ASC LIMIT 1", args...).
		Scan(&stats.LongestTalker, &stats.LongestIsSelf, &stats.LongestUnix, &stats.LongestText, &stats.LongestRunes)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("longest message: %w", err)
	}
	return stats, nil
}

// MidnightHistogram startHour > endHour 时窗口跨越零点，例如 23~3
func (ds *DataSource) MidnightHistogram(ctx context.Context, year int, talkers []string, startHour, endHour int) (map[string]map[int]int64, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	result := make(map[string]map[int]int64)
	if talkers != nil && len(talkers) == 0 {
		return result, nil
	}
	window := "cl_hour(create_time) >= ? AND cl_hour(create_time) < ?"
	if startHour > endHour {
		window = "(cl_hour(create_time) >= ? OR cl_hour(create_time) < ?)"
	}
	where, args := ds.where(year, talkers, window)
	args = append(args, startHour, endHour)
	rows, err := db.QueryContext(ctx,
		"SELECT talker, cl_hour(create_time) AS h, COUNT(*) FROM message"+where+" GROUP BY talker, h", args...)
	if err != nil {
		return nil, fmt.Errorf("midnight histogram: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			talker string
			h      int
			c      int64
		)
		if err := rows.Scan(&talker, &h, &c); err != nil {
			return nil, fmt.Errorf("scan midnight histogram: %w", err)
		}
		hours := result[talker]
		if hours == nil {
			hours = make(map[int]int64)
			result[talker] = hours
		}
		hours[h] += c
	}
	return result, rows.Err()
}

func (ds *DataSource) ContactDates(ctx context.Context, year int, talkers []string) (map[string][]string, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	result := make(map[string][]string)
	if talkers != nil && len(talkers) == 0 {
		return result, nil
	}
	where, args := ds.where(year, talkers)
	rows, err := db.QueryContext(ctx,
		"SELECT DISTINCT talker, cl_date(create_time) AS d FROM message"+where+" ORDER BY talker, d", args...)
	if err != nil {
		return nil, fmt.Errorf("contact dates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var talker, date string
		if err := rows.Scan(&talker, &date); err != nil {
			return nil, fmt.Errorf("scan contact date: %w", err)
		}
		result[talker] = append(result[talker], date)
	}
	return result, rows.Err()
}

func (ds *DataSource) DailyCounts(ctx context.Context, year int, talkers []string) (map[string]map[string]int64, error) {
	db, err := ds.conn()
	if err != nil {
		return nil, err
	}
	result := make(map[string]map[string]int64)
	if talkers != nil && len(talkers) == 0 {
		return result, nil
	}
	where, args := ds.where(year, talkers)
	rows, err := db.QueryContext(ctx,
		"SELECT cl_date(create_time) AS d, talker, COUNT(*) FROM message"+where+" GROUP BY d, talker", args...)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			date, talker string
			c            int64
		)
		if err := rows.Scan(&date, &talker, &c); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		day := result[date]
		if day == nil {
			day = make(map[string]int64)
			result[date] = day
		}
		day[talker] += c
	}
	return result, rows.Err()
}
