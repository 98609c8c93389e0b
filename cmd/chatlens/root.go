package chatlens

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/whoamihappyhacking/chatlens/internal/chatlens/conf"
	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

var (
	Debug      bool
	ConfigFile string
	Exclude    string

	v = viper.New()
)

func init() {
	// windows 下双击运行时不弹出 mousetrap 提示
	cobra.MousetrapHelpText = ""

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&Debug, "debug", false, "debug")
	flags.StringVarP(&ConfigFile, "config", "c", "", "config file (yaml/json/toml)")
	flags.StringP("data-dir", "d", "", "directory containing chatlog.db")
	flags.StringP("work-dir", "w", "", "work directory for the report cache")
	flags.String("timezone", "", "IANA timezone used for calendar days, default local")
	flags.StringVar(&Exclude, "exclude", "", "extra contact ids to leave out, comma separated")

	bindFlag("data_dir", "data-dir")
	bindFlag("work_dir", "work-dir")
	bindFlag("analysis.timezone", "timezone")

	rootCmd.PersistentPreRun = initLog
	rootCmd.AddCommand(reportCmd, serverCmd, versionCmd)
}

func bindFlag(key, name string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)); err != nil {
		log.Err(err).Str("flag", name).Msg("bind flag failed")
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command execution failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chatlens",
	Short: "chatlens",
	Long: `chatlens 基于本地聊天归档生成关系分析报告：
聊天排行、主动程度、深夜陪伴、作息热力图、语言风格与表情人格等。`,
	Example: `chatlens report --year 2024 -d ./data
chatlens server -d ./data --addr 0.0.0.0:5031`,
	Args: cobra.NoArgs,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func initLog(cmd *cobra.Command, args []string) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true, TimeFormat: time.RFC3339})
}

func loadConfig() (*conf.Config, error) {
	cfg, err := conf.Load(v, ConfigFile)
	if err != nil {
		return nil, err
	}
	if ids := util.Str2List(Exclude, ","); len(ids) > 0 {
		cfg.Analysis.ExtraExcluded = append(cfg.Analysis.ExtraExcluded, ids...)
	}
	return cfg, nil
}
