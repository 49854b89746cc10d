package cmd

import (
	"OfflinePlayer/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动曲库服务器",
	Long:  `启动离线音乐播放器的HTTP服务器，提供曲库API、歌曲文件、播放器WebSocket和Web界面`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
