package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yoonbae81/ytcapt/internal/cache"
	"github.com/yoonbae81/ytcapt/internal/service"
)

func newCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the refinement cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cacheCmd.AddCommand(newCachePurgeCommand())
	cacheCmd.AddCommand(newCacheInvalidateCommand())

	return cacheCmd
}

func newCachePurgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove all expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := cache.NewStore(cfg.Cache.DBPath, cfg.Cache.TTL)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.PurgeExpired(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", n)
			return nil
		},
	}
}

func newCacheInvalidateCommand() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "invalidate <url>",
		Short: "Remove the cache entry for a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, store, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := svc.Invalidate(cmd.Context(), args[0], lang); err != nil {
				return errors.New(service.UserMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Entry removed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", `Language code of the cached entry (e.g. "ko", "en")`)

	return cmd
}
