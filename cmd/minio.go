package cmd

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"OfflinePlayer/config"
	"OfflinePlayer/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix string
	minioStats  bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "MinIO存储桶管理",
	Long:  `查看MinIO中歌曲存储桶的文件，支持按前缀列出文件和查看统计信息。`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("开始连接MinIO服务器...")

		// 加载配置
		cfg := config.Load()
		fmt.Printf("MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		store, err := storage.NewMinioStore(cfg)
		if err != nil {
			log.Fatalf("无法连接到MinIO: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if minioStats {
			// 显示存储桶统计信息
			fmt.Println("\n获取存储桶统计信息...")
			stats, err := store.Stats(ctx, minioPrefix)
			if err != nil {
				log.Fatalf("获取存储桶统计信息失败: %v", err)
			}
			printBucketStats(stats)
		} else {
			// 列出文件
			fmt.Printf("\n列出存储桶中的文件 (前缀: %s)...\n", minioPrefix)
			names, err := store.List(ctx, minioPrefix)
			if err != nil {
				log.Fatalf("列出文件失败: %v", err)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			fmt.Printf("\n共 %d 个文件\n", len(names))
		}

		fmt.Println("\nMinIO操作完成！")
	},
}

func printBucketStats(stats *storage.BucketStats) {
	fmt.Printf("存储桶: %s\n", stats.Bucket)
	fmt.Printf("文件总数: %d\n", stats.TotalObjects)
	fmt.Printf("总大小: %s\n", storage.FormatSize(stats.TotalSize))
	if !stats.LastModified.IsZero() {
		fmt.Printf("最后修改: %s\n", stats.LastModified.Format("2006-01-02 15:04:05"))
	}

	exts := make([]string, 0, len(stats.TypeStats))
	for ext := range stats.TypeStats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	fmt.Println("文件类型分布:")
	for _, ext := range exts {
		fmt.Printf("  %-8s %d\n", ext, stats.TypeStats[ext])
	}
}

func init() {
	rootCmd.AddCommand(minioCmd)

	// 添加命令行参数
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "按前缀过滤文件")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "显示存储桶统计信息")

	minioCmd.Example = `  # 列出所有文件
  offline_player minio

  # 按前缀过滤文件
  offline_player minio -p "albums/"

  # 显示存储桶统计信息
  offline_player minio -s`
}
