package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxBatchLine is the longest input line Batch accepts, in bytes.
const MaxBatchLine = 16 << 20

// BatchOptions controls Batch.
type BatchOptions struct {
	Decode  bool
	Workers int
}

// Batch reads one job per line from r and writes one result per line to w,
// in input order. In encode mode a line holds numbers separated by spaces or
// commas; in decode mode it holds an ID. Blank lines map to blank lines.
func (c *Commands) Batch(ctx context.Context, r io.Reader, w io.Writer, opts BatchOptions) error {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxBatchLine)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("read input: line %d longer than %d bytes: %w", len(lines)+1, MaxBatchLine, err)
		}
		return fmt.Errorf("read input: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	c.log.Debug("batch started", zap.Int("lines", len(lines)), zap.Int("workers", workers), zap.Bool("decode", opts.Decode))

	codec := c.ids.Codec()
	results := make([]string, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		if line == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if opts.Decode {
				results[i] = formatNumbers(codec.Decode(line))
				return nil
			}
			numbers, err := ParseNumbers([]string{line})
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			id, err := codec.Encode(numbers)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			results[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, result := range results {
		if _, err := fmt.Fprintln(bw, result); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return bw.Flush()
}
