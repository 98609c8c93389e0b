package conf

import (
	"github.com/rs/zerolog/log"

	"github.com/whoamihappyhacking/chatlens/internal/analysis"
	"github.com/whoamihappyhacking/chatlens/internal/cache"
	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

// AnalysisConfig 报告计算参数，零值字段使用默认值
type AnalysisConfig struct {
	TopN             int      `mapstructure:"top_n" json:"top_n"`
	YieldEvery       int      `mapstructure:"yield_every" json:"yield_every"`
	MidnightStart    int      `mapstructure:"midnight_start" json:"midnight_start"`
	MidnightEnd      int      `mapstructure:"midnight_end" json:"midnight_end"`
	MaxDisplayLength int      `mapstructure:"max_display_length" json:"max_display_length"`
	ExtraExcluded    []string `mapstructure:"extra_excluded" json:"extra_excluded"`
	Timezone         string   `mapstructure:"timezone" json:"timezone"`
}

// ToOptions 转换为引擎参数；时区无效时退回本地时区
func (c *AnalysisConfig) ToOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	if c == nil {
		return opts
	}

	if c.TopN > 0 {
		opts.TopN = c.TopN
	}
	if c.YieldEvery > 0 {
		opts.YieldEvery = c.YieldEvery
	}
	if c.MidnightStart != c.MidnightEnd {
		opts.MidnightStart = c.MidnightStart
		opts.MidnightEnd = c.MidnightEnd
	}
	if c.MaxDisplayLength > 0 {
		opts.MaxDisplayLength = c.MaxDisplayLength
	}
	if len(c.ExtraExcluded) > 0 {
		opts.ExtraExcluded = append([]string(nil), c.ExtraExcluded...)
	}
	loc, err := util.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.Timezone).Msg("invalid timezone, using local")
	} else {
		opts.Location = loc
	}

	return opts
}

// CacheConfig 报告缓存后端
type CacheConfig struct {
	Backend       string `mapstructure:"backend" json:"backend"`
	Path          string `mapstructure:"path" json:"path"`
	RedisAddr     string `mapstructure:"redis_addr" json:"redis_addr"`
	RedisDB       int    `mapstructure:"redis_db" json:"redis_db"`
	RedisPassword string `mapstructure:"redis_password" json:"-"`
	Compress      bool   `mapstructure:"compress" json:"compress"`
}

func (c *CacheConfig) ToOptions() cache.Options {
	if c == nil {
		return cache.Options{Backend: cache.BackendBolt, Compress: true}
	}
	return cache.Options{
		Backend:       c.Backend,
		Path:          c.Path,
		RedisAddr:     c.RedisAddr,
		RedisDB:       c.RedisDB,
		RedisPassword: c.RedisPassword,
		Compress:      c.Compress,
	}
}
