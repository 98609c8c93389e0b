package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/whoamihappyhacking/chatlens/internal/errors"
	"github.com/whoamihappyhacking/chatlens/internal/model"
)

// Source 引擎需要的数据访问能力，由 repository 实现
type Source interface {
	ListSessions(ctx context.Context) ([]*model.Session, error)
	GetDisplayNames(ctx context.Context, ids []string) (map[string]string, error)
	GetMessages(ctx context.Context, talker string, year int) ([]*model.Message, error)

	ContactCounts(ctx context.Context, year int, talkers []string) (map[string]*model.ContactCount, error)
	DailyBuckets(ctx context.Context, talker string, year int) (map[string]*model.DayBucket, error)
	HourWeekdayHistogram(ctx context.Context, year int, talkers []string) (*model.HourWeekdayGrid, error)
	TypeHistogram(ctx context.Context, year int, talkers []string) (map[int64]int64, error)
	TextLengthStats(ctx context.Context, year int, talkers []string) (*model.LengthStats, error)
	MidnightHistogram(ctx context.Context, year int, talkers []string, startHour, endHour int) (map[string]map[int]int64, error)
	ContactDates(ctx context.Context, year int, talkers []string) (map[string][]string, error)
	DailyCounts(ctx context.Context, year int, talkers []string) (map[string]map[string]int64, error)
}

// 失败阶段
const (
	StageMessages   = "messages"
	StageInitiative = "initiative"
)

// ContactResult 单个联系人的扫描结果，Err 非空时 Stats 无效
type ContactResult struct {
	ContactID string
	Stats     *ContactStats
	Err       error
}

// ContactStats 扫描一个联系人的消息后保留的中间结果
type ContactStats struct {
	Count    *model.ContactCount
	Segments ConversationSegments
	Self     []*model.Message // 自己发出的文本以及撤回提示
	First    *model.Message
	Last     *model.Message
}

// Engine 报告计算引擎；不持有可变状态，可并发计算不同范围
type Engine struct {
	src        Source
	opts       Options
	classifier *Classifier
}

func NewEngine(src Source, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		src:        src,
		opts:       opts,
		classifier: NewClassifier(opts.ExtraExcluded...),
	}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Contacts 经过分类后的私聊联系人，升序
func (e *Engine) Contacts(ctx context.Context) ([]string, error) {
	sessions, err := e.src.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(sessions))
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		if s == nil || s.IsChatRoom() || e.classifier.IsExcluded(s.UserName) {
			continue
		}
		if _, ok := seen[s.UserName]; ok {
			continue
		}
		seen[s.UserName] = struct{}{}
		ids = append(ids, s.UserName)
	}
	sort.Strings(ids)
	return ids, nil
}

// yield 每处理 YieldEvery 个联系人让出一次调度，并检查是否已取消
func (e *Engine) yield(ctx context.Context, i int) error {
	if i == 0 || i%e.opts.YieldEvery != 0 {
		return nil
	}
	runtime.Gosched()
	return ctx.Err()
}

// ScanContact 读取并统计单个联系人在范围内的消息
func (e *Engine) ScanContact(ctx context.Context, scope Scope, id string) (*ContactStats, error) {
	msgs, err := e.src.GetMessages(ctx, id, scope.Year)
	if err != nil {
		return nil, err
	}
	for i, m := range msgs {
		if m == nil || m.Time.IsZero() {
			return nil, fmt.Errorf("malformed message #%d of %s", i, id)
		}
	}
	msgs = FilterByScope(scope, msgs, e.opts.Location)

	stats := &ContactStats{
		Count:    CountMessages(id, msgs),
		Segments: Segment(msgs, e.opts.SegmentGap),
	}
	stats.Segments.ContactID = id
	for _, m := range msgs {
		if stats.First == nil || earlier(m, stats.First) {
			stats.First = m
		}
		if stats.Last == nil || lastBefore(stats.Last, m) {
			stats.Last = m
		}
		if (m.IsSelf && m.IsText()) || IsSelfRevoke(m) {
			stats.Self = append(stats.Self, m)
		}
	}
	return stats, nil
}

// scanContacts 逐个扫描联系人；单个联系人失败只记录，不中断整体
func (e *Engine) scanContacts(ctx context.Context, scope Scope, ids []string, logger zerolog.Logger) ([]ContactResult, error) {
	results := make([]ContactResult, 0, len(ids))
	for i, id := range ids {
		if err := e.yield(ctx, i); err != nil {
			return nil, err
		}
		stats, err := e.ScanContact(ctx, scope, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debug().Err(err).Str("contact", id).Str("analysis", StageMessages).Msg("skip contact")
		}
		results = append(results, ContactResult{ContactID: id, Stats: stats, Err: err})
	}
	return results, nil
}

// Compute 计算一个范围的完整报告
// 数据源不可用时返回错误；ctx 取消时返回 ctx.Err()，调用方不应缓存任何结果
func (e *Engine) Compute(ctx context.Context, scope Scope) (*Bundle, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := log.With().Str("run", runID).Str("scope", scope.Key()).Logger()
	logger.Debug().Msg("analysis started")

	ids, err := e.Contacts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list sessions failed", errors.ErrNotConnected.Code)
	}

	names, err := e.src.GetDisplayNames(ctx, ids)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Msg("display names unavailable, using contact ids")
		names = map[string]string{}
	}

	results, err := e.scanContacts(ctx, scope, ids, logger)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		Scope:       scope.Key(),
		Year:        scope.Year,
		RunID:       runID,
		GeneratedAt: start.Unix(),
		Skipped:     []ContactError{},
	}

	alive := make([]string, 0, len(results))
	scanned := make(map[string]*model.ContactCount, len(results))
	segments := make(map[string]ConversationSegments, len(results))
	var selfMsgs, edges []*model.Message
	for _, r := range results {
		if r.Err != nil {
			b.Skipped = append(b.Skipped, ContactError{ContactID: r.ContactID, Stage: StageMessages, Error: r.Err.Error()})
			continue
		}
		alive = append(alive, r.ContactID)
		scanned[r.ContactID] = r.Stats.Count
		segments[r.ContactID] = r.Stats.Segments
		selfMsgs = append(selfMsgs, r.Stats.Self...)
		if r.Stats.First != nil {
			edges = append(edges, r.Stats.First, r.Stats.Last)
		}
	}

	counts, err := e.src.ContactCounts(ctx, scope.Year, alive)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Msg("aggregate counts unavailable, using scanned counts")
		counts = scanned
	}

	b.Absolute = RankAbsolute(counts, names).Truncate(e.opts.TopN)
	b.Confidant = RankConfidant(counts, names).Truncate(e.opts.TopN)
	b.Listener = RankListener(counts, names).Truncate(e.opts.TopN)
	b.Balance = RankBalance(counts, names).Truncate(e.opts.TopN)
	attachSegments(&b.Balance, segments, e.opts.TopN)

	buckets := make(map[string]map[string]*model.DayBucket)
	for i, id := range InitiativeCandidates(counts) {
		if err := e.yield(ctx, i); err != nil {
			return nil, err
		}
		days, err := e.src.DailyBuckets(ctx, id, scope.Year)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debug().Err(err).Str("contact", id).Str("analysis", StageInitiative).Msg("skip contact")
			b.Skipped = append(b.Skipped, ContactError{ContactID: id, Stage: StageInitiative, Error: err.Error()})
			continue
		}
		buckets[id] = days
	}
	initiative := RankInitiative(buckets, counts, names)
	attachSegments(&initiative, segments, e.opts.TopN)
	b.Initiative = initiative.Truncate(e.opts.TopN)

	if err := e.computePatterns(ctx, scope, alive, counts, names, b); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	b.Linguistic = AnalyzeLinguistic(selfMsgs)
	texts := SelfTexts(selfMsgs)
	if b.Laughter, err = DetectLaughter(texts, e.opts.Laughter); err != nil {
		return nil, errors.Wrap(err, "laughter patterns", 0)
	}
	if b.Emoji, err = ClassifyEmoji(texts, e.opts.Emoji); err != nil {
		return nil, errors.Wrap(err, "emoji table", 0)
	}
	b.Boundaries = FindYearBoundaries(edges, names)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if n := len(b.Skipped); n > 0 {
		skippedContacts.Add(float64(n))
	}
	elapsed := time.Since(start)
	computeDuration.WithLabelValues(scope.Kind()).Observe(elapsed.Seconds())
	logger.Info().
		Int("contacts", len(alive)).
		Int("skipped", len(b.Skipped)).
		Dur("elapsed", elapsed).
		Msg("analysis finished")
	return b, nil
}

// computePatterns 基于聚合查询的分析；任一查询失败即视为数据源不可用
func (e *Engine) computePatterns(ctx context.Context, scope Scope, ids []string, counts map[string]*model.ContactCount, names map[string]string, b *Bundle) error {
	grid, err := e.src.HourWeekdayHistogram(ctx, scope.Year, ids)
	if err != nil {
		return errors.Wrap(err, "hour histogram", 0)
	}
	b.Heatmap = BuildHeatmap(grid)

	midnight, err := e.src.MidnightHistogram(ctx, scope.Year, ids, e.opts.MidnightStart, e.opts.MidnightEnd)
	if err != nil {
		return errors.Wrap(err, "midnight histogram", 0)
	}
	b.Midnight = RankMidnight(midnight, names, e.opts.MidnightStart, e.opts.MidnightEnd)
	b.Midnight.Ranking = b.Midnight.Ranking.Truncate(e.opts.TopN)

	dates, err := e.src.ContactDates(ctx, scope.Year, ids)
	if err != nil {
		return errors.Wrap(err, "contact dates", 0)
	}
	b.Streak = GlobalLongestStreak(dates, names)
	var all []string
	for _, ds := range dates {
		all = append(all, ds...)
	}
	b.SocialBattery = BuildSocialBattery(all)

	daily, err := e.src.DailyCounts(ctx, scope.Year, ids)
	if err != nil {
		return errors.Wrap(err, "daily counts", 0)
	}
	b.PeakDay = FindPeakDay(daily, names)

	types, err := e.src.TypeHistogram(ctx, scope.Year, ids)
	if err != nil {
		return errors.Wrap(err, "type histogram", 0)
	}
	b.Types = SummarizeTypes(types)

	length, err := e.src.TextLengthStats(ctx, scope.Year, ids)
	if err != nil {
		return errors.Wrap(err, "text length", 0)
	}
	b.Length = SummarizeLength(length, e.opts.MaxDisplayLength, names)

	b.Overview = BuildOverview(counts, all)
	return nil
}

// ContactSegments 单个联系人的会话分段
func (e *Engine) ContactSegments(ctx context.Context, scope Scope, id string) (*ConversationSegments, error) {
	if e.classifier.IsExcluded(id) {
		return nil, errors.ErrContactNotFound
	}
	msgs, err := e.src.GetMessages(ctx, id, scope.Year)
	if err != nil {
		return nil, err
	}
	msgs = FilterByScope(scope, msgs, e.opts.Location)
	if len(msgs) == 0 {
		return nil, errors.ErrContactNotFound
	}
	seg := Segment(msgs, e.opts.SegmentGap)
	seg.ContactID = id
	return &seg, nil
}
