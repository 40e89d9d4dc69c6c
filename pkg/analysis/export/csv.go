package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/athapong/docinsight/pkg/analysis"
)

// Header is the two-column layout shared by every tabular export
var Header = []string{"Item", "Contagem"}

// WriteEntries writes the header and one row per entry
func WriteEntries(w io.Writer, entries []analysis.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Feature, strconv.Itoa(e.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV exports the full frequency map of category c, in first-occurrence
// order, to dir. It returns the written path.
func WriteCSV(dir string, c analysis.Category, m *analysis.FrequencyMap) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", analysis.WriteError("create output dir", err)
	}

	var buf bytes.Buffer
	if err := WriteEntries(&buf, m.Entries()); err != nil {
		return "", analysis.WriteError("encode "+c.CSVFile(), err)
	}

	path := filepath.Join(dir, c.CSVFile())
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", analysis.WriteError("write "+c.CSVFile(), err)
	}
	return path, nil
}

// WriteAllCSV exports every category present in features
func WriteAllCSV(dir string, features analysis.Features) ([]string, error) {
	paths := make([]string, 0, len(analysis.Categories))
	for _, c := range analysis.Categories {
		m, ok := features[c]
		if !ok {
			m = analysis.NewFrequencyMap()
		}
		path, err := WriteCSV(dir, c, m)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
