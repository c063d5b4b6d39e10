// Command contacts is a terminal client for the contact book API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"contactbook/internal/client"
	"contactbook/internal/model"
)

const usage = `usage: contacts [-server URL] [-session FILE] <command> [args]

commands:
  register -email EMAIL        create an account and log in
  login -email EMAIL           log in
  logout                       revoke the stored token
  whoami                       show the logged in user
  list [-page N] [-limit N]    list contacts, newest first
  add -name N -email E -phone P [-company C] [-title T]
  show ID                      show one contact
  edit ID [-name N] [-email E] [-phone P] [-company C] [-title T]
  rm ID                        delete a contact
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "contacts:", err)
		if errors.Is(err, client.ErrNotLoggedIn) || errors.Is(err, client.ErrUnauthenticated) {
			fmt.Fprintln(os.Stderr, "run `contacts login -email EMAIL` first")
		}
		os.Exit(1)
	}
}

type app struct {
	api   *client.Client
	in    io.Reader
	out   io.Writer
	lines *bufio.Reader
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	global := flag.NewFlagSet("contacts", flag.ContinueOnError)
	global.SetOutput(out)
	global.Usage = func() { fmt.Fprint(out, usage) }

	server := global.String("server", envOr("CONTACTBOOK_URL", "http://localhost:8000"), "API base URL")
	sessionPath := global.String("session", os.Getenv("CONTACTBOOK_SESSION"), "token file")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	path := *sessionPath
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return err
		}
	}
	session, err := client.OpenSession(path)
	if err != nil {
		return err
	}

	a := &app{api: client.New(*server, session), in: in, out: out, lines: bufio.NewReader(in)}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "register":
		return a.authenticate(ctx, cmd, rest, a.api.Register)
	case "login":
		return a.authenticate(ctx, cmd, rest, a.api.Login)
	case "logout":
		if err := a.api.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Logged out")
		return nil
	case "whoami":
		me, err := a.api.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s)\n", me.Email, me.UserID)
		return nil
	case "list":
		return a.list(ctx, rest)
	case "add":
		return a.add(ctx, rest)
	case "show":
		return a.show(ctx, rest)
	case "edit":
		return a.edit(ctx, rest)
	case "rm":
		return a.remove(ctx, rest)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) authenticate(ctx context.Context, name string, args []string, call func(context.Context, string, string) error) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	password, err := a.readPassword()
	if err != nil {
		return err
	}
	if err := call(ctx, *email, password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", *email)
	return nil
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func (a *app) readPassword() (string, error) {
	fmt.Fprint(a.out, "Password: ")
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := a.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "contacts per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.api.ListContacts(ctx, *page, *limit)
	if err != nil {
		return err
	}
	if len(result.Contacts) == 0 {
		fmt.Fprintln(a.out, "No contacts.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY\tADDED")
	for _, c := range result.Contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.Company, humanize.Time(c.CreatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d, %d contacts\n", result.CurrentPage, result.TotalPages, result.TotalContacts)
	return nil
}

// fieldFlags registers the editable contact fields on fs, defaulting to current.
func fieldFlags(fs *flag.FlagSet, current model.ContactFields) *model.ContactFields {
	f := current
	fs.StringVar(&f.Name, "name", current.Name, "name")
	fs.StringVar(&f.Email, "email", current.Email, "email")
	fs.StringVar(&f.Phone, "phone", current.Phone, "phone")
	fs.StringVar(&f.Company, "company", current.Company, "company")
	fs.StringVar(&f.JobTitle, "title", current.JobTitle, "job title")
	return &f
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fields := fieldFlags(fs, model.ContactFields{})
	if err := fs.Parse(args); err != nil {
		return err
	}

	contact, err := a.api.CreateContact(ctx, *fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Contact created successfully (%s)\n", contact.ID)
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: contacts show ID")
	}
	contact, err := a.api.GetContact(ctx, args[0])
	if err != nil {
		return err
	}
	printContact(a.out, contact)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: contacts edit ID [flags]")
	}
	id := args[0]

	current, err := a.api.GetContact(ctx, id)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fields := fieldFlags(fs, current.Fields())
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	updated, err := a.api.UpdateContact(ctx, id, *fields)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Contact updated successfully")
	printContact(a.out, updated)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: contacts rm ID")
	}
	if err := a.api.DeleteContact(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Contact deleted successfully")
	return nil
}

func printContact(w io.Writer, c *model.Contact) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", c.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", c.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", c.Phone)
	fmt.Fprintf(tw, "Company:\t%s\n", c.Company)
	fmt.Fprintf(tw, "Job title:\t%s\n", c.JobTitle)
	fmt.Fprintf(tw, "Added:\t%s\n", humanize.Time(c.CreatedAt))
	_ = tw.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
