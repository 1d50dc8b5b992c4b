package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/aluiziolira/go-game-deals/config"
	"github.com/aluiziolira/go-game-deals/models"
)

// Header is the column order of every tabular export.
var Header = []string{
	"name",
	"g2a_price", "g2a_sale", "g2a_link",
	"kinguin_price", "kinguin_sale", "kinguin_link",
	"cdkeys_price", "cdkeys_sale", "cdkeys_link",
}

// TimestampedPath names an export file after the moment the run finished.
func TimestampedPath(dir, ext string, now time.Time) string {
	return filepath.Join(dir, "scrape-"+now.Format("20060102-150405")+"."+ext)
}

// NewWriter opens the writer for format inside dir and returns the files it creates.
func NewWriter(format, dir string, now time.Time) (OutputWriter, []string, error) {
	var (
		w     OutputWriter
		paths []string
		err   error
	)
	switch format {
	case config.FormatCSV:
		paths = []string{TimestampedPath(dir, "csv", now)}
		w, err = asWriter(NewCSVWriter(paths[0]))
	case config.FormatJSON:
		paths = []string{TimestampedPath(dir, "jsonl", now)}
		w, err = asWriter(NewJSONWriter(paths[0]))
	case config.FormatDual:
		paths = []string{TimestampedPath(dir, "csv", now), TimestampedPath(dir, "jsonl", now)}
		w, err = asWriter(NewDualWriter(paths[0], paths[1]))
	case config.FormatSQLite:
		paths = []string{TimestampedPath(dir, "db", now)}
		w, err = asWriter(NewSQLiteWriter(paths[0]))
	default:
		return nil, nil, fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return nil, nil, err
	}
	return w, paths, nil
}

func asWriter[W OutputWriter](w W, err error) (OutputWriter, error) {
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Row renders a record in Header order.
func Row(r *models.GameRecord) []string {
	return []string{
		r.Name,
		formatPrice(r.G2APrice), strconv.Itoa(r.G2ASale), r.G2ALink,
		formatPrice(r.KinguinPrice), strconv.Itoa(r.KinguinSale), r.KinguinLink,
		formatPrice(r.CDKeysPrice), strconv.Itoa(r.CDKeysSale), r.CDKeysLink,
	}
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// CSVWriter writes records to CSV.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends games to the CSV output.
func (cw *CSVWriter) Write(records []*models.GameRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, r := range records {
		if err := cw.writer.Write(Row(r)); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file holds the header row. A run that kept no
// games still produces a valid, header-only file.
func (cw *CSVWriter) Validate() error {
	info, err := os.Stat(cw.file.Name())
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONWriter writes newline-delimited JSON records.
type JSONWriter struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONWriter{
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}, nil
}

// Write appends games in JSONL format.
func (jw *JSONWriter) Write(records []*models.GameRecord) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	for _, r := range records {
		if err := jw.encoder.Encode(r); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
	}

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}

	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSON file exists. Zero lines is a valid empty export.
func (jw *JSONWriter) Validate() error {
	if _, err := os.Stat(jw.file.Name()); err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
