package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"OfflinePlayer/config"
	"OfflinePlayer/core/library"
	"OfflinePlayer/model"

	"github.com/spf13/cobra"
)

var (
	songsAPI   string
	songTitle  string
	songArtist string
	songAlbum  string
	songFile   string
	songID     int64
)

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "通过API管理曲库",
	Long:  `通过HTTP API列出、搜索、添加、修改和删除歌曲。默认访问 API_URL。`,
}

func newLibraryClient() *library.Client {
	base := songsAPI
	if base == "" {
		base = config.Load().APIURL
	}
	return library.NewClient(base)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

func printSongs(songs []model.Song) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SongID\tTitle\tArtist\tAlbum\tFilePath")
	for _, s := range songs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.SongID, s.Title, s.Artist, s.Album, s.FilePath)
	}
	w.Flush()
	fmt.Printf("\n共 %d 首歌曲\n", len(songs))
}

func parseIDArg(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Fatalf("无效的 SongID %q", arg)
	}
	return id
}

var songsListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出全部歌曲",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := requestContext()
		defer cancel()
		songs, err := newLibraryClient().GetSongs(ctx)
		if err != nil {
			log.Fatalf("获取歌曲列表失败: %v", err)
		}
		printSongs(songs)
	},
}

var songsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "按标题或 SongID 搜索歌曲",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := requestContext()
		defer cancel()
		client := newLibraryClient()

		var songs []model.Song
		var err error
		if songID > 0 {
			songs, err = client.SearchByID(ctx, songID)
		} else {
			songs, err = client.SearchSongs(ctx, songTitle)
		}
		if err != nil {
			log.Fatalf("搜索失败: %v", err)
		}
		printSongs(songs)
	},
}

var songsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "添加歌曲",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := requestContext()
		defer cancel()
		song := model.Song{SongID: songID, Title: songTitle, Artist: songArtist, Album: songAlbum, FilePath: songFile}
		if err := newLibraryClient().AddSong(ctx, song); err != nil {
			log.Fatalf("添加歌曲失败: %v", err)
		}
		fmt.Printf("已添加歌曲 %d: %s - %s\n", song.SongID, song.Title, song.Artist)
	},
}

var songsUpdateCmd = &cobra.Command{
	Use:   "update <SongID>",
	Short: "修改歌曲信息",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseIDArg(args[0])
		ctx, cancel := requestContext()
		defer cancel()
		update := model.SongUpdate{Title: songTitle, Artist: songArtist, Album: songAlbum, FilePath: songFile}
		if err := newLibraryClient().UpdateSong(ctx, id, update); err != nil {
			log.Fatalf("修改歌曲失败: %v", err)
		}
		fmt.Printf("已修改歌曲 %d\n", id)
	},
}

var songsDeleteCmd = &cobra.Command{
	Use:   "delete <SongID>",
	Short: "删除歌曲",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseIDArg(args[0])
		ctx, cancel := requestContext()
		defer cancel()
		if err := newLibraryClient().DeleteSong(ctx, id); err != nil {
			log.Fatalf("删除歌曲失败: %v", err)
		}
		fmt.Printf("已删除歌曲 %d\n", id)
	},
}

func addSongFields(c *cobra.Command) {
	c.Flags().StringVar(&songTitle, "title", "", "标题")
	c.Flags().StringVar(&songArtist, "artist", "", "歌手")
	c.Flags().StringVar(&songAlbum, "album", "", "专辑")
	c.Flags().StringVar(&songFile, "file", "", "文件路径（相对于媒体存储）")
}

func init() {
	rootCmd.AddCommand(songsCmd)
	songsCmd.PersistentFlags().StringVar(&songsAPI, "api", "", "API 地址，默认读取 API_URL")

	songsSearchCmd.Flags().StringVarP(&songTitle, "title", "t", "", "标题关键字")
	songsSearchCmd.Flags().Int64Var(&songID, "id", 0, "SongID")

	addSongFields(songsAddCmd)
	songsAddCmd.Flags().Int64Var(&songID, "id", 0, "SongID（必须大于 0）")
	_ = songsAddCmd.MarkFlagRequired("id")

	addSongFields(songsUpdateCmd)

	songsCmd.AddCommand(songsListCmd, songsSearchCmd, songsAddCmd, songsUpdateCmd, songsDeleteCmd)
}
