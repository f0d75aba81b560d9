package main

import (
	"errors"
	"fmt"

	"github.com/narvanalabs/signing-vault/web/api"
	"github.com/spf13/cobra"
)

func newDeleteCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete signing log entries by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, log, err := root.setup(cmd)
			if err != nil {
				return err
			}

			var errs []error
			for _, id := range args {
				resp, err := client.Delete(cmd.Context(), api.EntryID(id))
				if err == nil {
					_, err = api.DecodeResponse(resp)
				}
				if err != nil {
					log.Error("failed to delete signing log", "id", id, "error", err)
					errs = append(errs, fmt.Errorf("deleting %s: %w", id, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted signing log %s\n", id)
			}
			return errors.Join(errs...)
		},
	}

	return cmd
}
