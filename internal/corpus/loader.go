package corpus

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"faqbot/internal/domain"
)

// DataLoadError reports a missing or malformed corpus source.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load corpus %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrUnsupportedFormat = errors.New("unsupported corpus format")
)

// Column aliases after header normalization. The Spanish names come from the
// spreadsheet export the corpus is usually produced from.
var columnAliases = map[string]string{
	"question":  "question",
	"pregunta":  "question",
	"answer":    "answer",
	"respuesta": "answer",
	"category":  "category",
	"categoria": "category",
}

// Load reads a corpus file. The format is picked from the extension:
// .csv, .yaml/.yml or .json.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	var records []domain.FAQRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = ParseCSV(bytes.NewReader(data))
	case ".yaml", ".yml":
		records, err = parseStructured(data, yaml.Unmarshal)
	case ".json":
		records, err = parseStructured(data, json.Unmarshal)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	return NewStore(records), nil
}

// ParseCSV reads records from CSV with a header row. question and answer
// columns are required; category is optional.
func ParseCSV(r io.Reader) ([]domain.FAQRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, err
	}
	cols := map[string]int{}
	for i, h := range header {
		if field, ok := columnAliases[NormalizeHeader(h)]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	for _, required := range []string{"question", "answer"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	var out []domain.FAQRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := domain.FAQRecord{
			Question: cell(row, cols["question"]),
			Answer:   cell(row, cols["answer"]),
		}
		if idx, ok := cols["category"]; ok {
			rec.Category = cell(row, idx)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseStructured(data []byte, unmarshal func([]byte, any) error) ([]domain.FAQRecord, error) {
	var records []domain.FAQRecord
	if err := unmarshal(data, &records); err != nil {
		return nil, err
	}
	for i, r := range records {
		if strings.TrimSpace(r.Question) == "" || strings.TrimSpace(r.Answer) == "" {
			return nil, fmt.Errorf("%w: record %d needs question and answer", ErrMissingColumn, i)
		}
	}
	return records, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// NormalizeHeader lowercases a column name, replaces spaces with underscores
// and strips accents, so "Categoría" becomes "categoria".
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, h)
	if err != nil {
		return h
	}
	return out
}
