// Command bulkctl runs bulk actions against a registry of the back office
// from a terminal: list a page, export rows as CSV, bulk delete, bulk edit.
//
//	bulkctl -resource registrations -page 2 export > roster.csv
//	bulkctl -resource courses -ids a,b -set status=Completed edit
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/braiinybear/backoffice-service/internal/bulk"
	"github.com/braiinybear/backoffice-service/internal/models"
)

var resources = map[string]string{
	"courses":       "/api/courses",
	"registrations": "/api/users",
}

type options struct {
	search string
	page   int
	limit  int
	ids    []string
	sets   map[string]string
	yes    bool
	out    io.Writer
	in     io.Reader
}

func main() {
	var (
		baseURL  = flag.String("base-url", "http://localhost:8080", "Back office base URL")
		resource = flag.String("resource", "registrations", "Registry: courses or registrations")
		token    = flag.String("token", os.Getenv("BACKOFFICE_TOKEN"), "Session token (default $BACKOFFICE_TOKEN)")
		search   = flag.String("search", "", "Search filter")
		page     = flag.Int("page", 1, "Page to load")
		limit    = flag.Int("limit", 50, "Page size")
		ids      = flag.String("ids", "", "Comma separated ids to select; empty selects nothing")
		set      = flag.String("set", "", "Comma separated field=value pairs for edit")
		yes      = flag.Bool("yes", false, "Skip the delete confirmation")
		timeout  = flag.Duration("timeout", 30*time.Second, "Overall timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	path, ok := resources[*resource]
	if !ok {
		logger.Error("Unknown resource", "resource", *resource)
		os.Exit(2)
	}
	command := flag.Arg(0)
	if command == "" {
		command = "list"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	opts := options{
		search: *search,
		page:   *page,
		limit:  *limit,
		ids:    splitList(*ids),
		sets:   parseSets(*set),
		yes:    *yes,
		out:    os.Stdout,
		in:     os.Stdin,
	}
	cfg := bulk.ClientConfig{BaseURL: *baseURL, Resource: path, Token: *token, Logger: logger}

	var err error
	switch *resource {
	case "courses":
		err = run(ctx, bulk.NewClient[models.Course](cfg), bulk.CourseColumns, command, opts)
	default:
		err = run(ctx, bulk.NewClient[models.Registration](cfg), bulk.RegistrationColumns, command, opts)
	}
	if err != nil {
		logger.Error("bulkctl failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func run[T bulk.Record](ctx context.Context, client *bulk.Client[T], columns []bulk.Column[T], command string, opts options) error {
	if _, err := client.List(ctx, bulk.Query{Search: opts.search, Page: opts.page, Limit: opts.limit}); err != nil {
		return fmt.Errorf("load page: %w", err)
	}

	sel := bulk.NewSelection[T]()
	for _, id := range opts.ids {
		found := false
		for _, r := range client.Rows {
			if r.RecordID() == id {
				sel.Add(r)
				found = true
				break
			}
		}
		if !found {
			fmt.Fprintf(os.Stderr, "skipping %s: not on page %d\n", id, opts.page)
		}
	}

	switch command {
	case "list":
		p := client.Pagination
		fmt.Fprintf(opts.out, "page %d/%d, %d total\n", p.Page, p.TotalPages, p.Total)
		return bulk.ExportCSV(opts.out, columns, nil, client.Rows)

	case "export":
		return bulk.ExportCSV(opts.out, columns, sel, client.Rows)

	case "delete":
		confirm := bulk.ConfirmFunc(func(prompt string, _ int) bool {
			if opts.yes {
				return true
			}
			fmt.Fprint(os.Stderr, prompt+" [y/N] ")
			answer, _ := bufio.NewReader(opts.in).ReadString('\n')
			return strings.EqualFold(strings.TrimSpace(answer), "y")
		})
		n, err := client.BulkDelete(ctx, sel, confirm)
		if err != nil {
			return err
		}
		fmt.Fprintf(opts.out, "deleted %d, %d rows left on page\n", n, len(client.Rows))
		return nil

	case "edit":
		form := &bulk.EditForm{}
		for field, value := range opts.sets {
			form.Set(field, value, true)
		}
		n, err := client.BulkEdit(ctx, sel, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(opts.out, "updated %d\n", n)
		return nil
	}
	return errors.New("unknown command " + command + " (want list, export, delete or edit)")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseSets(raw string) map[string]string {
	sets := make(map[string]string)
	for _, pair := range splitList(raw) {
		field, value, ok := strings.Cut(pair, "=")
		if ok {
			sets[strings.TrimSpace(field)] = value
		}
	}
	return sets
}
