package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panhunt/mailcore/pkg/mailbox"
)

var messagesCmd = &cobra.Command{
	Use:   "messages FILE",
	Short: "List every message reachable from a mail container, one line each",
	Args:  cobra.ExactArgs(1),
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
		return walkAndPrint(root)
	},
}

func walkAndPrint(f mailbox.Folder) error {
	msgs, err := f.Messages()
	if err != nil {
		return err
	}
	for _, m := range msgs {
		attach := ""
		if m.HasAttachments() {
			attach = " [attachments]"
		}
		fmt.Printf("%s\t%s\t%s%s\n", f.Path(), m.SenderName(), m.Subject(), attach)
	}

	subs, err := f.Subfolders()
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := walkAndPrint(sub); err != nil {
			return err
		}
	}
	return nil
}
