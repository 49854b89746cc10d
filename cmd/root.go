package cmd

import (
	"fmt"
	"os"

	"OfflinePlayer/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "offline_player",
	Short: "Offline Music Player: a song library API with a browser player.",
	Run: func(cmd *cobra.Command, args []string) {
		// 不带子命令时直接启动服务器
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
