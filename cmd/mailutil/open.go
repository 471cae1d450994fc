package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panhunt/mailcore/pkg/mailbox"
)

var openCmd = &cobra.Command{
	Use:   "open FILE",
	Short: "Open a .msg or PST file and report its status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := mailbox.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer c.Close()

		fmt.Println(c.Status())
		if !c.Valid() {
			return nil
		}

		root, err := c.RootFolder()
		if err != nil {
			return err
		}
		total, err := mailbox.TotalMessageCount(root)
		if err != nil {
			return err
		}
		fmt.Printf("total messages: %d\n", total)
		return nil
	},
}
