// Package selector drives the interactive choice of the metric column.
//
// The loop alternates between two states: Prompt shows the columns each file
// offers and reads one candidate name, Validate checks it. A candidate is
// Confirmed only when it is not a grouping column and every input file has a
// column matching it case-insensitively. Anything else goes back to Prompt.
package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/KaramelBytes/metricmean-cli/internal/dataset"
)

// Categorical lists the grouping columns that are never valid metrics.
var Categorical = []string{"country", "year", "continent"}

// IsCategorical reports whether name is a grouping column, ignoring case.
func IsCategorical(name string) bool {
	for _, c := range Categorical {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// State is a step of the selection loop.
type State int

const (
	Prompt State = iota
	Validate
	Confirmed
)

func (s State) String() string {
	switch s {
	case Prompt:
		return "prompt"
	case Validate:
		return "validate"
	case Confirmed:
		return "confirmed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Reason explains why a candidate was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonCategorical
	ReasonNotFound
)

// Verdict is the outcome of validating one candidate.
type Verdict struct {
	// State is Confirmed or, for a rejection, Prompt.
	State State
	// Metric is the candidate exactly as typed; set only when Confirmed.
	Metric string
	Reason Reason
	// Missing holds the files lacking the candidate, in input order.
	Missing []string
}

// FileColumns is the catalog of one input file.
type FileColumns struct {
	Path    string
	Columns []string
}

// CatalogFunc returns the column names of the file at path.
type CatalogFunc func(path string) ([]string, error)

// ErrInputExhausted is returned by Run when input ends before a metric is
// confirmed.
var ErrInputExhausted = errors.New("input ended before a metric column was selected")

// Check validates candidate against the catalogs of every input file.
func Check(candidate string, files []FileColumns) Verdict {
	if IsCategorical(candidate) {
		return Verdict{State: Prompt, Reason: ReasonCategorical}
	}
	var missing []string
	for _, f := range files {
		if _, ok := dataset.Resolve(f.Columns, candidate); !ok {
			missing = append(missing, f.Path)
		}
	}
	if len(missing) > 0 {
		return Verdict{State: Prompt, Reason: ReasonNotFound, Missing: missing}
	}
	return Verdict{State: Confirmed, Metric: candidate}
}

// Selector runs the prompt loop over a fixed set of files.
type Selector struct {
	files   []string
	catalog CatalogFunc
	out     io.Writer
}

// New returns a Selector that reads file catalogs through catalog and writes
// prompts and diagnostics to out.
func New(files []string, catalog CatalogFunc, out io.Writer) *Selector {
	return &Selector{files: files, catalog: catalog, out: out}
}

// Run prompts on the selector's output and reads candidates from in, one per
// line, until one is confirmed. Catalog errors and the end of input are fatal.
func (s *Selector) Run(in io.Reader) (string, error) {
	br := bufio.NewReader(in)
	for attempt := 1; ; attempt++ {
		files, err := s.load()
		if err != nil {
			return "", err
		}
		s.showColumns(files)
		fmt.Fprint(s.out, "Enter the metric column to aggregate: ")
		line, err := br.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(s.out)
			if errors.Is(err, io.EOF) {
				return "", ErrInputExhausted
			}
			return "", fmt.Errorf("read input: %w", err)
		}
		candidate := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

		v := Check(candidate, files)
		slog.Debug("metric candidate checked",
			slog.Int("attempt", attempt),
			slog.String("candidate", candidate),
			slog.String("state", v.State.String()))
		switch v.Reason {
		case ReasonCategorical:
			fmt.Fprintf(s.out, "✗ %q is a grouping column (%s); choose a metric column.\n",
				candidate, strings.Join(Categorical, ", "))
		case ReasonNotFound:
			for _, p := range v.Missing {
				fmt.Fprintf(s.out, "✗ Column %q not found in %s\n", candidate, p)
			}
		}
		if v.State == Confirmed {
			return v.Metric, nil
		}
	}
}

func (s *Selector) load() ([]FileColumns, error) {
	out := make([]FileColumns, 0, len(s.files))
	for _, p := range s.files {
		cols, err := s.catalog(p)
		if err != nil {
			return nil, err
		}
		out = append(out, FileColumns{Path: p, Columns: cols})
	}
	return out, nil
}

func (s *Selector) showColumns(files []FileColumns) {
	all := Union(files)
	list := "(none)"
	if len(all) > 0 {
		list = strings.Join(all, ", ")
	}
	fmt.Fprintf(s.out, "Available columns: %s\n", list)
	for _, f := range files {
		names := Metrics(f.Columns)
		list = "(none)"
		if len(names) > 0 {
			list = strings.Join(names, ", ")
		}
		fmt.Fprintf(s.out, "Available columns in %s: %s\n", f.Path, list)
	}
}

// Union returns the non-categorical columns of all files, sorted
// case-insensitively. Case variants of one name appear once, with the casing
// of the first file that has it.
func Union(files []FileColumns) []string {
	seen := map[string]bool{}
	var all []string
	for _, f := range files {
		for _, c := range f.Columns {
			k := strings.ToLower(c)
			if seen[k] {
				continue
			}
			seen[k] = true
			all = append(all, c)
		}
	}
	return Metrics(all)
}

// Metrics returns the non-categorical columns sorted case-insensitively.
func Metrics(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !IsCategorical(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
