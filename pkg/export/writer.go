// Package export holds the encoders used for downloadable reports.
package export

import (
	"bufio"
	"io"
	"strings"
)

// QuotedWriter writes CSV records with every field wrapped in double quotes
// and embedded quotes doubled. Records end with "\n". It satisfies the
// gocsv.CSVWriter interface so it can be handed to gocsv.MarshalCSV.
type QuotedWriter struct {
	w   *bufio.Writer
	err error
}

// NewQuotedWriter creates a writer that buffers into w
func NewQuotedWriter(w io.Writer) *QuotedWriter {
	return &QuotedWriter{w: bufio.NewWriter(w)}
}

// Write encodes a single record. After the first failure every call is a
// no-op returning the same error.
func (q *QuotedWriter) Write(record []string) error {
	if q.err != nil {
		return q.err
	}
	for i, field := range record {
		if i > 0 {
			if q.err = q.w.WriteByte(','); q.err != nil {
				return q.err
			}
		}
		if _, q.err = q.w.WriteString(Quote(field)); q.err != nil {
			return q.err
		}
	}
	q.err = q.w.WriteByte('\n')
	return q.err
}

// WriteAll writes every record and flushes
func (q *QuotedWriter) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := q.Write(record); err != nil {
			return err
		}
	}
	q.Flush()
	return q.Error()
}

func (q *QuotedWriter) Flush() {
	if q.err != nil {
		return
	}
	q.err = q.w.Flush()
}

// Error reports the first error seen by Write or Flush
func (q *QuotedWriter) Error() error {
	return q.err
}

// Quote wraps field in double quotes, doubling any quote inside it
func Quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Collector keeps records in memory. It satisfies gocsv.CSVWriter and is used
// to reuse the CSV projection for other report formats.
type Collector struct {
	Records [][]string
}

func (c *Collector) Write(record []string) error {
	c.Records = append(c.Records, append([]string(nil), record...))
	return nil
}

func (c *Collector) Flush() {}

func (c *Collector) Error() error { return nil }
