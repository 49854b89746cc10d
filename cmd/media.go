package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"OfflinePlayer/config"
	"OfflinePlayer/storage"

	"github.com/spf13/cobra"
)

var mediaKey string

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "歌曲文件管理",
}

var mediaUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "上传歌曲文件到媒体存储",
	Long:  `把本地文件写入当前配置的媒体存储（MEDIA_BACKEND），写入后的键可以作为歌曲的 FilePath。`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		store, err := storage.NewMediaStore(cfg)
		if err != nil {
			log.Fatalf("初始化媒体存储失败: %v", err)
		}

		f, err := os.Open(args[0])
		if err != nil {
			log.Fatalf("打开文件失败: %v", err)
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			log.Fatalf("读取文件信息失败: %v", err)
		}

		key := mediaKey
		if key == "" {
			key = filepath.Base(args[0])
		}
		key, err = storage.CleanKey(key)
		if err != nil {
			log.Fatalf("无效的存储键 %q: %v", mediaKey, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if ms, ok := store.(*storage.MinioStore); ok {
			if err := ms.EnsureBucket(ctx); err != nil {
				log.Fatalf("初始化存储桶失败: %v", err)
			}
		}

		if err := store.Put(ctx, key, f, info.Size(), storage.DetectContentType(key)); err != nil {
			log.Fatalf("上传失败: %v", err)
		}
		fmt.Printf("已上传 %s (%s) -> %s\n", args[0], storage.FormatSize(info.Size()), key)
	},
}

func init() {
	rootCmd.AddCommand(mediaCmd)
	mediaCmd.AddCommand(mediaUploadCmd)
	mediaUploadCmd.Flags().StringVar(&mediaKey, "key", "", "存储键，默认使用文件名")
}
