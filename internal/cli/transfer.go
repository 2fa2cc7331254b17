package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/bunchhieng/sqid/internal/model"
)

// Format is an export/import encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatMsgpack:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or msgpack)", s)
	}
}

func formatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// Export writes all links, with their public IDs, to w.
func (c *Commands) Export(ctx context.Context, w io.Writer, format Format) error {
	links, err := c.storage.Export(ctx)
	if err != nil {
		return fmt.Errorf("export links: %w", err)
	}
	if err := c.ids.Fill(links...); err != nil {
		return err
	}

	switch format {
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(links); err != nil {
			return fmt.Errorf("encode msgpack: %w", err)
		}
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(links); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	}
	return nil
}

// Import reads links from filename. The format follows the file extension
// unless format is set. Links carrying an ID but no key get the key the ID
// decodes to.
func (c *Commands) Import(ctx context.Context, filename string, format Format) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	if format == "" {
		format = formatFromPath(filename)
	}

	var links []*model.Link
	switch format {
	case FormatMsgpack:
		err = msgpack.NewDecoder(file).Decode(&links)
	default:
		err = json.NewDecoder(file).Decode(&links)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", format, err)
	}

	for _, link := range links {
		if link.Key != 0 || link.ID == "" {
			continue
		}
		if key, err := c.ids.Decode(link.ID); err == nil {
			link.Key = key
		}
	}

	res, err := c.storage.Import(ctx, links)
	if err != nil {
		return fmt.Errorf("import links: %w", err)
	}

	fmt.Fprintf(c.out, "%s %d link(s): %d new, %d merged", green.Sprint("Imported"), len(links), res.Inserted, res.Merged)
	if res.Rekeyed > 0 {
		fmt.Fprintf(c.out, ", %s", yellow.Sprintf("%d with new IDs", res.Rekeyed))
	}
	fmt.Fprintln(c.out)
	return nil
}
