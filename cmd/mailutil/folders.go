package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/panhunt/mailcore/pkg/mailbox"
)

var foldersCmd = &cobra.Command{
	Use:   "folders FILE",
	Short: "List the folder tree of a mail container",
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
		return printFolderTree(root, 0)
	},
}

func printFolderTree(f mailbox.Folder, depth int) error {
	fmt.Printf("%s%s (%d messages)\n", strings.Repeat("  ", depth), folderLabel(f), f.ContentCount())

	subs, err := f.Subfolders()
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := printFolderTree(sub, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func folderLabel(f mailbox.Folder) string {
	if f.Name() == "" {
		return "(root)"
	}
	return f.Name()
}
