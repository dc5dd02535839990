// Package batch drives date-added operations over a list of paths collected
// from direct arguments, a list file, or standard input. Failures are
// reported per path and never abort the batch.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"dateadded/pkg/timestamp"
)

// Ops is the core surface the driver calls once per path.
type Ops interface {
	GetDateAdded(path string) (time.Time, bool, error)
	SetDateAdded(path string, v timestamp.Value) error
}

// Runner sequences get/set operations over a batch of paths.
type Runner struct {
	ops    Ops
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a batch runner writing results to stdout and per-path
// failures to stderr.
func NewRunner(ops Ops, logger *slog.Logger, stdout, stderr io.Writer) *Runner {
	return &Runner{
		ops:    ops,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}
}

// Get reads the date-added timestamp of every collected path and prints one
// "<timestamp>,<path>" line per value. Arguments containing glob
// metacharacters are expanded. A path whose attribute is not tracked, or
// whose read fails, produces a stderr line and the batch continues.
func (r *Runner) Get(args []string, listFile string) error {
	paths, err := r.collect(args, listFile, true)
	if err != nil {
		return err
	}

	for _, path := range paths {
		t, ok, err := r.ops.GetDateAdded(path)
		if err != nil {
			r.logger.Warn("get failed", "path", path, "error", err)
			fmt.Fprintln(r.stderr, err)
			continue
		}
		if !ok {
			fmt.Fprintf(r.stderr, "date added not tracked: %s\n", path)
			continue
		}
		fmt.Fprintf(r.stdout, "%s,%s\n", timestamp.Format(t), path)
	}
	return nil
}

// Set writes date-added timestamps from "timestamp,path" entries and prints
// one "Setting: <timestamp>,<path>" line per success. Entries are split on
// the first comma and never glob-expanded, since the comma-joined argument is
// not a bare path. A malformed or failing entry produces a stderr line and
// the batch continues.
func (r *Runner) Set(args []string, listFile string) error {
	entries, err := r.collect(args, listFile, false)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		ts, path, err := splitEntry(entry)
		if err != nil {
			r.logger.Warn("malformed entry", "entry", entry)
			fmt.Fprintln(r.stderr, err)
			continue
		}
		if err := r.ops.SetDateAdded(path, timestamp.Text(ts)); err != nil {
			r.logger.Warn("set failed", "path", path, "error", err)
			fmt.Fprintln(r.stderr, err)
			continue
		}
		fmt.Fprintf(r.stdout, "Setting: %s,%s\n", ts, path)
	}
	return nil
}

// collect gathers entries from the list file (stdin when "-") followed by the
// direct arguments. List lines are trimmed; blank lines and "#" comments are
// skipped. When expand is true, arguments containing glob metacharacters are
// expanded; a pattern matching nothing is kept literally.
func (r *Runner) collect(args []string, listFile string, expand bool) ([]string, error) {
	var entries []string

	if listFile != "" {
		var in io.Reader
		if listFile == "-" {
			in = os.Stdin
		} else {
			f, err := os.Open(listFile)
			if err != nil {
				return nil, fmt.Errorf("failed to open list file: %w", err)
			}
			defer f.Close()
			in = f
		}

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			entries = append(entries, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read list file: %w", err)
		}
	}

	for _, arg := range args {
		if expand && strings.ContainsAny(arg, "*?[{") {
			matches, err := doublestar.FilepathGlob(arg)
			if err == nil && len(matches) > 0 {
				entries = append(entries, matches...)
				continue
			}
			r.logger.Debug("glob matched nothing, keeping literal", "pattern", arg)
		}
		entries = append(entries, arg)
	}

	return entries, nil
}

// splitEntry splits a "timestamp,path" entry on its first comma.
func splitEntry(entry string) (ts, path string, err error) {
	parts := strings.SplitN(entry, ",", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid entry %q: expected \"timestamp,path\"", entry)
	}
	return parts[0], parts[1], nil
}
