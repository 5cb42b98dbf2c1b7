package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/killallgit/backscroll/pkg/backfill"
	"github.com/killallgit/backscroll/pkg/config"
	"github.com/killallgit/backscroll/pkg/history"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var seedCmd = &cobra.Command{
	Use:   "seed <server/target>...",
	Short: "Fill conversations with generated history",
	Long: `Write generated chat lines ending now into one or more conversations.
Conversations that already hold messages are left alone unless --force is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]history.Key, 0, len(args))
		for _, arg := range args {
			key, err := history.ParseKey(arg)
			if err != nil {
				return err
			}
			keys = append(keys, key)
		}

		count, _ := cmd.Flags().GetInt("count")
		unread, _ := cmd.Flags().GetInt("unread")
		force, _ := cmd.Flags().GetBool("force")
		if unread > count {
			return fmt.Errorf("--unread (%d) cannot exceed --count (%d)", unread, count)
		}

		store, err := history.OpenSQLite(config.Get().History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		g, ctx := errgroup.WithContext(cmd.Context())
		for _, key := range keys {
			key := key
			g.Go(func() error {
				var n int
				var err error
				if force {
					n, err = seedConversation(ctx, store, key, count, unread)
				} else {
					n, err = seedIfEmpty(ctx, store, key, count, unread)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", key, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d messages\n", key, n)
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	seedCmd.Flags().IntP("count", "n", 500, "number of messages to generate")
	seedCmd.Flags().Int("unread", 0, "leave this many of the newest messages unread")
	seedCmd.Flags().Bool("force", false, "seed even if the conversation has history")
	rootCmd.AddCommand(seedCmd)
}

// seedIfEmpty seeds a conversation only when it holds no messages yet
func seedIfEmpty(ctx context.Context, store *history.SQLiteStore, key history.Key, count, unread int) (int, error) {
	if err := store.Load(ctx, key); err != nil {
		return 0, err
	}
	existing, err := store.Count(ctx, key)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}
	return seedConversation(ctx, store, key, count, unread)
}

// seedConversation appends count generated messages ending now and marks all
// but the newest unread of them as read.
func seedConversation(ctx context.Context, store history.ReadWriter, key history.Key, count, unread int) (int, error) {
	if err := store.Load(ctx, key); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	source := backfill.NewGeneratedSource(now)
	source.Floor = now.Add(-time.Duration(count+1) * source.Interval)
	msgs, err := source.Before(ctx, key, now, count)
	if err != nil {
		return 0, err
	}
	if err := store.Append(ctx, key, msgs...); err != nil {
		return 0, fmt.Errorf("failed to store generated history: %w", err)
	}

	if read := len(msgs) - unread; read > 0 {
		if err := store.MarkRead(ctx, key, msgs[read-1].ServerTime); err != nil {
			return 0, err
		}
	}
	return len(msgs), nil
}
