package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bunchhieng/sqid/internal/app"
	"github.com/bunchhieng/sqid/internal/model"
)

const (
	maxURLLen   = 60
	maxTitleLen = 40
	maxTagsLen  = 30
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatUpper
	return t
}

func printLinksTable(w io.Writer, links []*model.Link) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "URL", "Title", "Created", "Tags"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", Colors: text.Colors{text.Bold, text.FgCyan}},
		{Name: "URL", WidthMax: maxURLLen, WidthMaxEnforcer: text.Trim, Colors: text.Colors{text.FgCyan}},
		{Name: "Title", WidthMax: maxTitleLen, WidthMaxEnforcer: text.Trim},
		{Name: "Created", Colors: text.Colors{text.Faint}},
		{Name: "Tags", WidthMax: maxTagsLen, WidthMaxEnforcer: text.Trim, Colors: text.Colors{text.FgYellow}},
	})

	for _, link := range links {
		title := link.Title
		if link.IsRead() {
			title = "✓ " + title
		}
		t.AppendRow(table.Row{link.ID, link.URL, title, formatTime(link.CreatedAt), link.Tags})
	}
	t.Render()
	fmt.Fprintf(w, "%d link(s)\n", len(links))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// Info prints the active codec configuration.
func (c *Commands) Info() error {
	codec := c.ids.Codec()

	t := newTable(c.out)
	t.AppendRows([]table.Row{
		{"Alphabet", codec.Alphabet()},
		{"Alphabet size", len(codec.Alphabet())},
		{"Min length", codec.MinLength()},
		{"Max value", codec.MaxValue()},
		{"Blocklist words", len(codec.Blocklist())},
		{"Fingerprint", app.Fingerprint(codec)},
	})
	t.Render()
	return nil
}
