package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/killallgit/backscroll/pkg/config"
	"github.com/killallgit/backscroll/pkg/history"
	"github.com/spf13/cobra"
)

var windowCmd = &cobra.Command{
	Use:   "window <server/target>",
	Short: "Print one window of a conversation",
	Long: `Query the history store the way the viewer does and print the result.
Limits are written as bottom:N, top:N, around:N:<hash> or since:<RFC3339>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := history.ParseKey(args[0])
		if err != nil {
			return err
		}
		rawLimit, _ := cmd.Flags().GetString("limit")
		limit, err := history.ParseLimit(rawLimit)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg := config.Get()
		store, err := history.OpenSQLite(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if err := store.Load(ctx, key); err != nil {
			return err
		}
		w, err := store.Window(ctx, key, limit, history.Options{HideServer: cfg.History.HideServer, Peek: true})
		if err != nil {
			return err
		}

		if asJSON {
			return writeWindowJSON(cmd.OutOrStdout(), w)
		}
		return writeWindow(cmd.OutOrStdout(), w)
	},
}

func init() {
	windowCmd.Flags().String("limit", "bottom:50", "window limit")
	windowCmd.Flags().Bool("json", false, "print the window as JSON")
	rootCmd.AddCommand(windowCmd)
}

func writeWindow(out io.Writer, w *history.Window) error {
	if w.HasMoreOlder {
		fmt.Fprintln(out, "... older messages not loaded")
	}
	divider := w.DividerIndex()
	for i, m := range w.Messages() {
		if i == divider {
			fmt.Fprintln(out, "--- new messages ---")
		}
		fmt.Fprintf(out, "%s %s <%s> %s\n", m.Hash.Short(), m.ServerTime.Format("2006-01-02 15:04:05"), m.Sender, m.Text)
	}
	if w.HasMoreNewer {
		fmt.Fprintln(out, "... newer messages not loaded")
	}
	return nil
}

func writeWindowJSON(out io.Writer, w *history.Window) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Old          []*history.Message `json:"old"`
		New          []*history.Message `json:"new"`
		HasMoreOlder bool               `json:"has_more_older"`
		HasMoreNewer bool               `json:"has_more_newer"`
	}{w.Old, w.New, w.HasMoreOlder, w.HasMoreNewer})
}
