package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/clipgen/pkg/cli"
	"github.com/haivivi/clipgen/pkg/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openHistoryApp()
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.history.List(context.Background(), historyLimit)
		if err != nil {
			return err
		}
		if outputJSON || query != "" || outputFile != "" {
			return outputResult(records)
		}
		if len(records) == 0 {
			fmt.Println("No runs recorded")
			return nil
		}
		printRecords(records)
		return nil
	},
}

var historyGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openHistoryApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.history.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		return outputResult(rec)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Forget a run and remove its saved assets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openHistoryApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		rec, err := a.history.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if rec.Assets != nil {
			for _, p := range []string{rec.Assets.Video, rec.Assets.Audio} {
				if p == "" {
					continue
				}
				if err := a.store.Delete(ctx, p); err != nil {
					cli.PrintWarning("could not delete %s: %v", p, err)
				}
			}
		}
		if err := a.history.Delete(ctx, rec.ID); err != nil {
			return err
		}
		cli.PrintSuccess("Run %s deleted", rec.ID)
		return nil
	},
}

func openHistoryApp() (*app, error) {
	c, err := getContext()
	if err != nil {
		return nil, err
	}
	return buildApp(context.Background(), c, appOptions{})
}

func printRecords(records []history.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCREATED\tTOOK\tAUDIO\tPROMPT")
	for _, r := range records {
		took := "-"
		if d := r.Duration(); d > 0 {
			took = cli.FormatDuration(d)
		}
		audio := ""
		if r.HasAudio {
			audio = "yes"
		}
		status := string(r.Status)
		if r.ErrorKind != "" {
			status += " (" + r.ErrorKind + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, status, cli.FormatTime(r.CreatedAt), took, audio, cli.Truncate(r.Request.Prompt, 40))
	}
	w.Flush()
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum runs to show (0 for all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyGetCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}
