package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const utf8BOM = "\uFEFF"

// ReadCSV decodes a comma separated stream whose first record is the header.
// source names the stream in errors.
func ReadCSV(r io.Reader, source string) (*Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DecodeError{Source: source, Err: errors.New("no header row")}
	}
	if err != nil {
		return nil, csvDecodeError(source, err)
	}
	names := UniqueNames(header)

	var rows [][]Value
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvDecodeError(source, err)
		}
		row := make([]Value, len(rec))
		for i, cell := range rec {
			row[i] = Infer(cell)
		}
		rows = append(rows, row)
	}
	t, err := New(names, rows)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	return t, nil
}

// ReadCSVFile opens path and decodes it with ReadCSV.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, path)
}

func csvDecodeError(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &DecodeError{Source: source, Row: pe.Line, Err: pe.Err}
	}
	return &DecodeError{Source: source, Err: err}
}

// UniqueNames fills blank headers and disambiguates repeats the way
// dataframe readers do: "Unnamed: 3", "rainfall.1".
func UniqueNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]int, len(header))
	for i, h := range header {
		n := strings.TrimSpace(h)
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		if k, dup := used[n]; dup {
			base := n
			for {
				k++
				n = fmt.Sprintf("%s.%d", base, k)
				if _, taken := used[n]; !taken {
					break
				}
			}
			used[base] = k
		}
		used[n] = 0
		names[i] = n
	}
	return names
}
