package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"

	"github.com/bunchhieng/sqid/internal/app"
	"github.com/bunchhieng/sqid/internal/model"
	"github.com/bunchhieng/sqid/internal/storage"
)

var (
	green  = text.Colors{text.FgGreen}
	yellow = text.Colors{text.FgYellow}
	red    = text.Colors{text.FgRed}
	cyan   = text.Colors{text.FgCyan}
	bold   = text.Colors{text.Bold}
)

// Commands handles all CLI command execution.
type Commands struct {
	storage storage.Storage
	ids     *app.IDs
	out     io.Writer
	log     *zap.Logger

	// openURL is swapped out in tests.
	openURL func(url string) error
}

// NewCommands creates a new Commands instance writing to out.
func NewCommands(a *app.App, out io.Writer) *Commands {
	return &Commands{
		storage: a.Storage,
		ids:     a.IDs,
		out:     out,
		log:     a.Log,
		openURL: openInBrowser,
	}
}

// ParseNumbers parses non-negative integers separated by spaces or commas.
func ParseNumbers(args []string) ([]uint64, error) {
	var numbers []uint64
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			n, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q: must be a non-negative integer", field)
			}
			numbers = append(numbers, n)
		}
	}
	return numbers, nil
}

// Encode prints the ID of numbers.
func (c *Commands) Encode(args []string) error {
	numbers, err := ParseNumbers(args)
	if err != nil {
		return err
	}
	if len(numbers) == 0 {
		return fmt.Errorf("at least one number required")
	}
	id, err := c.ids.Codec().Encode(numbers)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	c.log.Debug("encoded", zap.Uint64s("numbers", numbers), zap.String("id", id))
	fmt.Fprintln(c.out, id)
	return nil
}

// Decode prints the numbers behind id.
func (c *Commands) Decode(id string) error {
	numbers := c.ids.Codec().Decode(id)
	if len(numbers) == 0 {
		return fmt.Errorf("%q does not decode to any numbers", id)
	}
	fmt.Fprintln(c.out, formatNumbers(numbers))
	return nil
}

// Check reports whether id would be rejected by the blocklist.
func (c *Commands) Check(id string) error {
	if c.ids.Codec().IsBlocked(id) {
		fmt.Fprintf(c.out, "%s is %s\n", bold.Sprint(id), red.Sprint("blocked"))
		return nil
	}
	fmt.Fprintf(c.out, "%s is %s\n", bold.Sprint(id), green.Sprint("allowed"))
	return nil
}

func formatNumbers(numbers []uint64) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(parts, " ")
}

// resolve turns a public ID into a link key.
func (c *Commands) resolve(id string) (uint64, error) {
	key, err := c.ids.Decode(id)
	if err != nil {
		return 0, c.handleNotFound(model.ErrNotFound, id, "resolve ID")
	}
	return key, nil
}

// Add adds a new link or updates the existing one with the same URL.
func (c *Commands) Add(ctx context.Context, url, title, note, tags string) error {
	link := &model.Link{URL: url, Title: title, Note: note, Tags: tags}
	if err := link.Validate(); err != nil {
		return fmt.Errorf("%w: %s", err, url)
	}

	created, merged, err := c.storage.Add(ctx, link)
	if err != nil {
		return fmt.Errorf("add link: %w", err)
	}
	if err := c.ids.Fill(created); err != nil {
		return err
	}

	verb := green.Sprint("Added")
	if merged {
		verb = yellow.Sprint("Updated")
	}
	fmt.Fprintf(c.out, "%s link %s: %s\n", verb, bold.Sprint(created.ID), cyan.Sprint(created.URL))
	return nil
}

// List lists links with optional filters.
func (c *Commands) List(ctx context.Context, opts storage.ListOptions) error {
	links, err := c.storage.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("list links: %w", err)
	}
	return c.printLinks(links)
}

// Search performs a full-text search.
func (c *Commands) Search(ctx context.Context, query string) error {
	links, err := c.storage.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search links: %w", err)
	}
	return c.printLinks(links)
}

func (c *Commands) printLinks(links []*model.Link) error {
	if len(links) == 0 {
		fmt.Fprintln(c.out, "No links found.")
		return nil
	}
	if err := c.ids.Fill(links...); err != nil {
		return err
	}
	printLinksTable(c.out, links)
	return nil
}

// Open opens a link in the default browser.
func (c *Commands) Open(ctx context.Context, id string) error {
	key, err := c.resolve(id)
	if err != nil {
		return err
	}
	link, err := c.storage.Get(ctx, key)
	if err != nil {
		return c.handleNotFound(err, id, "get link")
	}
	if err := c.openURL(link.URL); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	fmt.Fprintf(c.out, "%s %s\n", green.Sprint("Opened:"), cyan.Sprint(link.URL))
	return nil
}

func openInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
	return cmd.Run()
}

// Done marks a link as read.
func (c *Commands) Done(ctx context.Context, id string) error {
	key, err := c.resolve(id)
	if err != nil {
		return err
	}
	if err := c.storage.MarkRead(ctx, key); err != nil {
		return c.handleNotFound(err, id, "mark read")
	}
	fmt.Fprintf(c.out, "%s link %s as read.\n", green.Sprint("Marked"), bold.Sprint(id))
	return nil
}

// Undo marks a link as unread.
func (c *Commands) Undo(ctx context.Context, id string) error {
	key, err := c.resolve(id)
	if err != nil {
		return err
	}
	if err := c.storage.MarkUnread(ctx, key); err != nil {
		return c.handleNotFound(err, id, "mark unread")
	}
	fmt.Fprintf(c.out, "%s link %s as unread.\n", yellow.Sprint("Marked"), bold.Sprint(id))
	return nil
}

// Remove deletes one or more links. Every ID is attempted; failures are
// reported together.
func (c *Commands) Remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return fmt.Errorf("at least one ID required")
	}

	var deleted, failed []string
	for _, id := range ids {
		key, err := c.resolve(id)
		if err == nil {
			err = c.storage.Delete(ctx, key)
			if err != nil {
				err = c.handleNotFound(err, id, "delete link")
			}
		}
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}
		deleted = append(deleted, id)
	}

	switch len(deleted) {
	case 0:
	case 1:
		fmt.Fprintf(c.out, "%s link %s.\n", red.Sprint("Deleted"), bold.Sprint(deleted[0]))
	default:
		fmt.Fprintf(c.out, "%s %d links: %s\n", red.Sprint("Deleted"), len(deleted), bold.Sprint(strings.Join(deleted, ", ")))
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to delete: %s", strings.Join(failed, "; "))
	}
	return nil
}

func (c *Commands) handleNotFound(err error, id string, action string) error {
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("%s: %w", action, err)
	}
	msg := fmt.Sprintf("link %s not found", id)
	if suggestion := c.suggestID(id); suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return fmt.Errorf("%s: %w", msg, model.ErrNotFound)
}
