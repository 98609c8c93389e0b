package chatlens

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version 构建时通过 -ldflags "-X" 注入
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of chatlens",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chatlens %s %s/%s %s\n", Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}
