package dataframe

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Decode parses CSV bytes into a frame, transparently handling gzip
// (nflverse release assets ship as .csv.gz). Empty cells become nil so
// numeric accessors report them as absent rather than zero.
func Decode(data []byte) (*Frame, error) {
	var reader io.Reader = bytes.NewReader(data)
	if bytes.HasPrefix(data, gzipMagic) {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		reader = gz
	}
	return ReadCSV(reader)
}

// ReadCSV parses CSV from r, taking the first record as the header.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	frame := New(header...)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv record: %w", err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i >= len(record) || record[i] == "" {
				row[col] = nil
				continue
			}
			row[col] = record[i]
		}
		frame.Append(row)
	}
	return frame, nil
}

// WriteCSV serializes the frame as CSV with a header row. Nil cells are
// written empty so a decode round-trip preserves absence.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns()); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	record := make([]string, len(f.Columns()))
	for _, row := range f.Rows() {
		for i, col := range f.Columns() {
			record[i] = row.String(col)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
