package cmd

import (
	"moodyo/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动MoodyO服务器",
	Long:  `启动MoodyO心情歌单系统的HTTP服务器，提供歌曲目录、歌单生成与播放API`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
