package route

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoSystemColumn indicates the CSV header has no recognizable
// system-name column.
var ErrNoSystemColumn = errors.New("no system name column in header")

// ParseError reports a route file that could not be loaded. The previous
// route is never touched when one of these is returned.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("route file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Header names produced by the common route-export tools. Matched
// case-insensitively after trimming.
var systemColumnNames = []string{"system name", "system", "star system"}

// LoadCSV parses a route-export CSV into a Route. The first row must be a
// header containing a system-name column; every other column on a row is
// joined into the entry's Note. The whole file is parsed before anything
// is returned, so a failure never yields a partial route.
func LoadCSV(path string) (Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &ParseError{Path: path, Err: errors.New("file is empty")}
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	systemCol := findSystemColumn(header)
	if systemCol < 0 {
		return nil, &ParseError{Path: path, Err: ErrNoSystemColumn}
	}

	var result Route
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		if systemCol >= len(record) {
			continue
		}
		system := strings.Trim(record[systemCol], `" `)
		if system == "" {
			continue
		}

		var rest []string
		for i, field := range record {
			if i == systemCol {
				continue
			}
			if field = strings.TrimSpace(field); field != "" {
				rest = append(rest, field)
			}
		}
		result = append(result, Entry{
			System: system,
			Note:   strings.Join(rest, ", "),
		})
	}
	return result, nil
}

func findSystemColumn(header []string) int {
	for i, cell := range header {
		cell = strings.ToLower(strings.Trim(cell, `" `))
		for _, name := range systemColumnNames {
			if cell == name {
				return i
			}
		}
	}
	return -1
}
