package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yoonbae81/ytcapt/internal/service"
)

func newProcessCommand() *cobra.Command {
	var lang string
	var forceDL bool

	cmd := &cobra.Command{
		Use:   "process <url>",
		Short: "Refine the auto-generated captions of a video into paragraph text",
		Long: `Process downloads the auto-generated caption track of a video, merges the
fragmented cues into readable paragraphs, and prints the result. Results are
cached; a playlist URL prints its selectable entries instead.`,
		Args: cobra.ExactArgs(1),
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

			result, err := svc.Process(cmd.Context(), args[0], lang, forceDL)
			if err != nil {
				return errors.New(service.UserMessage(err))
			}

			out := cmd.OutOrStdout()
			if result.Playlist != nil {
				fmt.Fprintln(out, "Playlist detected. Re-run process with one of:")
				for _, entry := range result.Playlist {
					fmt.Fprintf(out, "  %s\t%s\n", entry.Title, entry.URL)
				}
				return nil
			}

			fmt.Fprint(out, service.Artifact(result.Document))
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", `Language code for the captions (e.g. "ko", "en")`)
	cmd.Flags().BoolVarP(&forceDL, "force-dl", "f", false, "Force download, ignoring any existing cache entry")

	return cmd
}
