package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/narvanalabs/signing-vault/web/api"
	"github.com/spf13/cobra"
)

func newListCmd(root *rootOptions) *cobra.Command {
	var fromID int
	var all bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List signing log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, log, err := root.setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cursor := api.CursorFromID(fromID)

			var logs []api.SigningLog
			if all {
				logs, err = api.NewPager(client).From(cursor).All(ctx)
			} else {
				resp, lerr := client.List(ctx, cursor)
				if lerr != nil {
					err = lerr
				} else {
					logs, err = api.DecodeSigningLogs(resp)
				}
			}
			if err != nil {
				return fmt.Errorf("listing signing logs: %w", err)
			}
			log.Debug("listed signing logs", "count", len(logs), "from_id", cursor, "all", all)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), logs)
			}
			return writeTable(cmd.OutOrStdout(), logs)
		},
	}

	cmd.Flags().IntVar(&fromID, "from", 0, "only list entries older than this id")
	cmd.Flags().BoolVar(&all, "all", false, "follow the cursor until every entry is listed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	return cmd
}

func writeJSON(w io.Writer, logs []api.SigningLog) error {
	if logs == nil {
		logs = []api.SigningLog{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(logs)
}

func writeTable(w io.Writer, logs []api.SigningLog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMAKE\tMODEL\tSERIAL\tREVISION\tFINGERPRINT\tCREATED")
	for _, l := range logs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			l.ID, l.Make, l.Model, l.SerialNumber, l.Revision, l.Fingerprint, l.Created.Format(time.RFC3339))
	}
	return tw.Flush()
}
