package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/contactkeval/range-touch/internal/simulation"
)

const (
	SummaryFile = "summary.json"
	PathsFile   = "paths.csv"
	TargetsFile = "targets.csv"
)

// WriteAll writes the summary, the first samplePaths paths (0 = all) and
// the days-to-target lists into outdir, creating it if needed.
func WriteAll(res *simulation.Result, s *Summary, outdir string, samplePaths int) error {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return fmt.Errorf("create report dir %s: %w", outdir, err)
	}
	if err := WriteJSON(s, outdir); err != nil {
		return err
	}
	if err := WritePathsCSV(res.SamplePaths(samplePaths), outdir); err != nil {
		return err
	}
	return WriteTargetsCSV(res, outdir)
}

func WriteJSON(s *Summary, outdir string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return os.WriteFile(filepath.Join(outdir, SummaryFile), b, 0644)
}

// WritePathsCSV writes one row per simulated day: path index, day, price.
func WritePathsCSV(paths []simulation.Path, outdir string) error {
	return writeCSV(filepath.Join(outdir, PathsFile), []string{"path", "day", "price"}, func(w *csv.Writer) error {
		for i, path := range paths {
			for day, price := range path {
				row := []string{strconv.Itoa(i), strconv.Itoa(day), strconv.FormatFloat(price, 'f', 4, 64)}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteTargetsCSV writes the days-to-target lists, upper bound first.
func WriteTargetsCSV(res *simulation.Result, outdir string) error {
	return writeCSV(filepath.Join(outdir, TargetsFile), []string{"bound", "days"}, func(w *csv.Writer) error {
		for _, d := range res.DaysToTargetUpper {
			if err := w.Write([]string{"upper", strconv.Itoa(d)}); err != nil {
				return err
			}
		}
		for _, d := range res.DaysToTargetLower {
			if err := w.Write([]string{"lower", strconv.Itoa(d)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, headers []string, rows func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
