package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/retroshell/internal/contact"
)

func runContact(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	to := fs.String("to", "", "Recipient (default: contact.recipient from config)")
	from := fs.String("from", "", "Your email address")
	subject := fs.String("subject", "", "Message subject")
	body := fs.String("body", "", "Message body")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: retroshell contact --from ADDR --subject TEXT --body TEXT [--to ADDR]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print a mailto: link for the contact form.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	recipient := *to
	if recipient == "" {
		recipient = loadConfigOrDefault().Contact.Recipient
	}

	link, err := contact.Compose(recipient, contact.Message{
		From:    *from,
		Subject: *subject,
		Body:    *body,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	fmt.Fprintln(out, link)
	return 0
}
