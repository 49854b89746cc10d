package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"OfflinePlayer/cache"
	"OfflinePlayer/config"
	"OfflinePlayer/db"

	"github.com/spf13/cobra"
)

var redisFlush bool

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis连接测试",
	Long:  `测试Redis连接是否成功，并进行基本读写操作。使用 --flush 清除歌曲列表缓存。`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("开始测试Redis连接...")

		// 加载配置
		cfg := config.Load()
		fmt.Printf("Redis配置: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		// 连接Redis
		client, err := db.ConnectRedis(cfg)
		if err != nil {
			log.Fatalf("无法连接到Redis: %v", err)
		}
		defer func() {
			if err := db.CloseRedis(); err != nil {
				log.Printf("关闭Redis连接时发生错误: %v", err)
			}
		}()
		fmt.Println("Redis连接成功！")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// 测试Redis基本操作
		fmt.Println("开始测试Redis基本操作...")
		if err := db.CheckRedis(ctx, client); err != nil {
			log.Fatalf("Redis操作测试失败: %v", err)
		}
		fmt.Println("Redis基本操作测试成功！")

		if redisFlush {
			songs := cache.NewCachedSongRepository(nil, client, cfg.SongCacheTTL)
			if err := songs.Invalidate(ctx); err != nil {
				log.Fatalf("清除歌曲列表缓存失败: %v", err)
			}
			fmt.Printf("已清除缓存键 %s\n", cache.SongListKey)
		}

		fmt.Println("Redis测试完成。")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
	redisCmd.Flags().BoolVar(&redisFlush, "flush", false, "清除歌曲列表缓存")
}
