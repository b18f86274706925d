package cmd

import (
	"context"
	"fmt"
	"log"

	"moodyo/config"
	"moodyo/core/playlist"
	"moodyo/db"
	"moodyo/model"
	"moodyo/repository"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "将内置示例歌曲写入歌曲目录",
	Long:  `为四个固定心情各写入十首示例歌曲，方便本地开发时目录非空。已存在的数据不会被清除。`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("无法连接数据库: %v", err)
		}
		defer db.DB.Close()

		if err := db.InitDB(); err != nil {
			log.Fatalf("初始化数据库失败: %v", err)
		}

		repo := repository.NewMySQLSongRepository()
		ctx := context.Background()

		total := 0
		for _, mood := range model.PredefinedMoods {
			for _, track := range playlist.SampleTracks(mood) {
				_, err := repo.Create(ctx, model.SongInput{
					Title:   track.Title,
					Artist:  track.Artist,
					Src:     track.Src,
					Cover:   track.Cover,
					Emotion: mood,
				})
				if err != nil {
					log.Fatalf("写入示例歌曲失败 (%s / %s): %v", mood, track.Title, err)
				}
				total++
			}
		}

		fmt.Printf("示例歌曲写入完成，共 %d 首。\n", total)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
