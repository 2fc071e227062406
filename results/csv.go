package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStamp is the timestamp layout prefixed to data file names.
const FileStamp = "2006-01-02_15-04-05"

// FileName is <dataDir>/<UTC stamp>_<subject><suffix>.
func FileName(dataDir, subject, suffix string, at time.Time) string {
	return filepath.Join(dataDir, at.UTC().Format(FileStamp)+"_"+subject+suffix)
}

// CSVWriter appends one flushed line per trial so that a crash loses at
// most the trial in progress.
type CSVWriter struct {
	Path string
	f    *os.File
	w    *csv.Writer
}

func CreateCSV(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	c := &CSVWriter{Path: path, f: f, w: csv.NewWriter(f)}
	if err := c.write(Header); err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func (c *CSVWriter) write(record []string) error {
	if err := c.w.Write(record); err != nil {
		return err
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return err
	}
	return c.f.Sync()
}

func (c *CSVWriter) Record(t Trial) error {
	if err := c.write(t.Row()); err != nil {
		return fmt.Errorf("write trial %d: %w", t.Index, err)
	}
	return nil
}

func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}
