package conf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/whoamihappyhacking/chatlens/internal/errors"
)

const (
	EnvPrefix       = "CHATLENS"
	DefaultHTTPAddr = "127.0.0.1:5031"
	configName      = "chatlens"
)

// Config 全局配置
type Config struct {
	DataDir     string         `mapstructure:"data_dir" json:"data_dir"`
	WorkDir     string         `mapstructure:"work_dir" json:"work_dir"`
	HTTPAddr    string         `mapstructure:"http_addr" json:"http_addr"`
	AutoRefresh bool           `mapstructure:"auto_refresh" json:"auto_refresh"`
	Analysis    AnalysisConfig `mapstructure:"analysis" json:"analysis"`
	Cache       CacheConfig    `mapstructure:"cache" json:"cache"`
}

func (c *Config) GetDataDir() string  { return c.DataDir }
func (c *Config) GetWorkDir() string  { return c.WorkDir }
func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }

func (c *Config) SetHTTPAddr(addr string) { c.HTTPAddr = addr }

func (c *Config) GetAnalysis() *AnalysisConfig { return &c.Analysis }
func (c *Config) GetCache() *CacheConfig       { return &c.Cache }

func defaultWorkDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatlens"
	}
	return filepath.Join(home, ".chatlens")
}

// SetDefaults 在 v 上登记默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("work_dir", defaultWorkDir())
	v.SetDefault("http_addr", DefaultHTTPAddr)
	v.SetDefault("auto_refresh", false)

	v.SetDefault("analysis.top_n", 10)
	v.SetDefault("analysis.yield_every", 20)
	v.SetDefault("analysis.midnight_start", 0)
	v.SetDefault("analysis.midnight_end", 5)
	v.SetDefault("analysis.max_display_length", 100)
	v.SetDefault("analysis.timezone", "")

	v.SetDefault("cache.backend", "bolt")
	v.SetDefault("cache.redis_addr", "127.0.0.1:6379")
	v.SetDefault("cache.compress", true)
}

// Load 读取配置：显式指定的文件 > 工作目录下的 chatlens.{yaml,json,toml} > 默认值，
// 环境变量 CHATLENS_* 覆盖文件中的值
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		v.AddConfigPath(v.GetString("work_dir"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config failed", 0)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "parse config failed", 0)
	}
	if cfg.DataDir != "" {
		cfg.DataDir = filepath.Clean(cfg.DataDir)
	}
	return cfg, nil
}
