package stats

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

// File keeps the counters as three integers (wins, losses, incompletes),
// one per line, in a plain text file. Every Record is a full
// read-modify-write; a missing file reads as all zeros.
//
// The mutex only serializes callers within this process; the file has no
// multi-writer contract.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a Recorder backed by the file at path. The file is not
// touched until the first Record or Counters call.
func NewFile(path string) *File { return &File{path: path} }

func (f *File) Record(ctx context.Context, o Outcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, err := f.read()
	if err != nil {
		return err
	}
	if err := c.add(o); err != nil {
		return err
	}
	if err := f.write(c); err != nil {
		return err
	}
	log.Debug().Str("file", f.path).Stringer("outcome", o).Msg("stats recorded")
	return nil
}

func (f *File) Counters(ctx context.Context) (Counters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *File) read() (Counters, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Counters{}, nil
	}
	if err != nil {
		return Counters{}, fmt.Errorf("read %s: %w", f.path, err)
	}
	return parseCounters(b)
}

// parseCounters expects exactly three whitespace-separated non-negative
// integers.
func parseCounters(b []byte) (Counters, error) {
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Split(bufio.ScanWords)

	var vals []int
	for sc.Scan() {
		n, err := strconv.Atoi(sc.Text())
		if err != nil || n < 0 {
			return Counters{}, fmt.Errorf("%w: value %q is not a non-negative integer", ErrMalformed, sc.Text())
		}
		vals = append(vals, n)
	}
	if err := sc.Err(); err != nil {
		return Counters{}, err
	}
	if len(vals) != len(Outcomes) {
		return Counters{}, fmt.Errorf("%w: found %d values, want %d", ErrMalformed, len(vals), len(Outcomes))
	}
	return Counters{Wins: vals[0], Losses: vals[1], Incompletes: vals[2]}, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (f *File) write(c Counters) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".stats-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := fmt.Fprintf(tmp, "%d\n%d\n%d\n", c.Wins, c.Losses, c.Incompletes); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
