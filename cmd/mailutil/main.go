// Command mailutil is a small introspection CLI over pkg/mailbox: open
// a .msg or PST file, list its folders and messages, dump a message's
// properties, or export attachments/folders to disk. It exercises the
// reader library the way vorteil's cmd/vorteil/imageutil subcommands
// exercise vdecompiler; it is not a sensitive-data scanner.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	commandInit()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	logrus.SetLevel(logrus.InfoLevel)
}
