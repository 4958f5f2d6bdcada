package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"declscan/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many units have cached results",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cachePath())
		if err != nil {
			return err
		}
		defer store.Close()

		count, err := store.Count()
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d cached unit(s)\n", store.Path(), count)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached result",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cachePath())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("cache cleared")
		return nil
	},
}

func cachePath() string {
	return resolvePath(cfg.Workspace, cfg.Cache.Path)
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
