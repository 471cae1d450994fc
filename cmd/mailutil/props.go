package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/panhunt/mailcore/pkg/mailbox"
)

var flagPropsSubject string

var propsCmd = &cobra.Command{
	Use:   "props FILE",
	Short: "Dump the properties of the first message whose subject contains --subject",
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
		m, err := findMessage(root, flagPropsSubject)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("no message found with subject containing %q", flagPropsSubject)
		}
		return printProps(m)
	},
}

func init() {
	propsCmd.Flags().StringVar(&flagPropsSubject, "subject", "", "substring to match against message subjects")
}

func findMessage(f mailbox.Folder, subject string) (mailbox.Message, error) {
	msgs, err := f.Messages()
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		if strings.Contains(m.Subject(), subject) {
			return m, nil
		}
	}

	subs, err := f.Subfolders()
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		m, err := findMessage(sub, subject)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, nil
}

func printProps(m mailbox.Message) error {
	fmt.Printf("Subject: %s\n", m.Subject())
	fmt.Printf("SenderName: %s\n", m.SenderName())
	fmt.Printf("SenderSmtpAddress: %s\n", m.SenderSmtpAddress())
	fmt.Printf("SentRepresentingName: %s\n", m.SentRepresentingName())
	fmt.Printf("DisplayTo: %s\n", m.DisplayTo())
	if t := m.ClientSubmitTime(); t != nil {
		fmt.Printf("ClientSubmitTime: %s\n", t.Time())
	}
	fmt.Printf("Body: %s\n", m.Body())

	recips, err := m.Recipients()
	if err != nil {
		return err
	}
	for _, r := range recips {
		fmt.Printf("Recipient: %s <%s>\n", r.DisplayName(), r.EmailAddress())
	}

	atts, err := m.Attachments()
	if err != nil {
		return err
	}
	for _, a := range atts {
		fmt.Printf("Attachment: %s\n", a.Filename())
	}
	return nil
}
