package grades

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrSourceStatus is returned when a remote source answers with a non-200 status.
var ErrSourceStatus = errors.New("unexpected source status")

// Source yields the raw rows of a grade table.
type Source interface {
	// Name identifies the source in logs and health output.
	Name() string
	Rows(ctx context.Context) ([][]string, error)
}

// FileSource reads a CSV file from disk.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s *FileSource) Name() string { return s.Path }

// Rows reads and returns every CSV row of the file.
func (s *FileSource) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grades file: %w", err)
	}
	defer f.Close()
	return readCSV(f)
}

// HTTPSource downloads a CSV over HTTP(S).
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates an HTTP source with a bounded client timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

// Name returns the URL.
func (s *HTTPSource) Name() string { return s.URL }

// Rows fetches the URL and parses the body as CSV.
func (s *HTTPSource) Rows(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grades: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrSourceStatus, s.URL, resp.StatusCode)
	}
	return readCSV(resp.Body)
}

// IsRemote reports whether location looks like an HTTP(S) URL.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// NewSource picks a file or HTTP source based on location.
func NewSource(location string, timeout time.Duration) Source {
	if IsRemote(location) {
		return NewHTTPSource(location, timeout)
	}
	return &FileSource{Path: location}
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}
