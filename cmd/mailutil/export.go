package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panhunt/mailcore/pkg/mailbox"
)

var exportAttachmentsCmd = &cobra.Command{
	Use:   "export-attachments FILE OUTDIR",
	Short: "Export every attachment reachable from a mail container into OUTDIR",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := mailbox.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer c.Close()
		if !c.Valid() {
			return fmt.Errorf("%s: %s", args[0], c.Status())
		}

		root, err := c.RootFolder()
		if err != nil {
			return err
		}
		return mailbox.ExportAttachments(args[1], root, log)
	},
}

var exportFoldersCmd = &cobra.Command{
	Use:   "export-folders FILE OUTDIR",
	Short: "Export one summary text file per folder of a mail container into OUTDIR",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := mailbox.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer c.Close()
		if !c.Valid() {
			return fmt.Errorf("%s: %s", args[0], c.Status())
		}

		root, err := c.RootFolder()
		if err != nil {
			return err
		}
		return mailbox.ExportFolders(args[1], root, log)
	},
}
