package main

import (
	"context"
	"os"

	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/game/app"

	"github.com/spf13/cobra"
)

var opts app.Options

var rootCmd = &cobra.Command{
	Use:   "game",
	Short: "game 立直麻将对局引擎",
	Long:  `game 立直麻将对局引擎，按配置开若干局电脑自对战，牌桌投影推送到 nats，记录写入 mongodb`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := app.Run(context.Background(), opts); err != nil {
			log.Fatal("发生异常: %v", err)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&opts.ConfigFile, "configFile", "resource/application.yml", "resource file")
	rootCmd.Flags().IntVar(&opts.Games, "games", 1, "number of self-play games")
	rootCmd.Flags().Int64Var(&opts.Seed, "seed", 0, "wall shuffle seed, 0 uses time")
	rootCmd.MarkFlagRequired("configFile")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %#v", err)
		os.Exit(1)
	}
}
