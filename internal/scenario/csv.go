// Package scenario loads batches of simulation parameters from CSV files.
//
// Expected columns, header optional:
//
//	name,current_price,atr,range_price,days,iterations
//
// Lines starting with '#' are comments.
package scenario

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/contactkeval/range-touch/internal/simulation"
)

// Scenario is one named parameter set of a batch.
type Scenario struct {
	Name   string            `json:"name"`
	Params simulation.Params `json:"params"`
}

var columns = []string{"name", "current_price", "atr", "range_price", "days", "iterations"}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LoadCSV reads scenarios from the file at path.
func LoadCSV(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenarios file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses scenarios from r. Every row is validated; the first bad
// row aborts the load with its line number.
func ReadCSV(r io.Reader) ([]Scenario, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []Scenario
	seen := make(map[string]int)
	first := true
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if first {
			first = false
			if isHeader(row) {
				continue
			}
		}

		sc, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if prev, ok := seen[sc.Name]; ok {
			return nil, fmt.Errorf("line %d: scenario %q already defined on line %d", line, sc.Name, prev)
		}
		seen[sc.Name] = line
		out = append(out, sc)
	}
	return out, nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), columns[0])
}

func parseRow(row []string) (Scenario, error) {
	if len(row) != len(columns) {
		return Scenario{}, fmt.Errorf("expected %d columns (%s), got %d", len(columns), strings.Join(columns, ","), len(row))
	}

	name := unsafeName.ReplaceAllString(strings.TrimSpace(row[0]), "_")
	if name == "" || name == "_" {
		return Scenario{}, fmt.Errorf("scenario name is empty")
	}
	if strings.Trim(name, ".") == "" {
		return Scenario{}, fmt.Errorf("scenario name %q is not a usable directory name", name)
	}

	floats := make([]float64, 3)
	for i := range floats {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Scenario{}, fmt.Errorf("%s: %w", columns[i+1], err)
		}
		floats[i] = v
	}
	ints := make([]int, 2)
	for i := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(row[i+4]))
		if err != nil {
			return Scenario{}, fmt.Errorf("%s: %w", columns[i+4], err)
		}
		ints[i] = v
	}

	p := simulation.Params{
		CurrentPrice: floats[0],
		ATR:          floats[1],
		RangePrice:   floats[2],
		Days:         ints[0],
		Iterations:   ints[1],
	}
	if err := p.Validate(); err != nil {
		return Scenario{}, err
	}
	return Scenario{Name: name, Params: p}, nil
}
