package segment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"voxtract/internal/services"
)

var requiredColumns = []string{"Path", "Start", "End", "Task"}

// Row is one segment of a plan.
type Row struct {
	// Line is the 1-based line number in the plan file.
	Line  int
	Path  string
	Start float64
	End   float64
	Task  string
}

// Duration returns the segment length in seconds.
func (r Row) Duration() float64 {
	return r.End - r.Start
}

// RowError describes a plan row that could not be parsed.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Plan is a parsed segment plan.
type Plan struct {
	Rows    []Row
	Invalid []RowError
}

// Format describes the plan's delimiters.
type Format struct {
	Separator rune
	Decimal   rune
}

// DefaultFormat is semicolon separated with decimal commas.
var DefaultFormat = Format{Separator: ';', Decimal: ','}

// ParseFormat builds a Format from single-character strings.
func ParseFormat(separator, decimal string) (Format, error) {
	sep, err := singleRune("separator", separator)
	if err != nil {
		return Format{}, err
	}
	dec, err := singleRune("decimal", decimal)
	if err != nil {
		return Format{}, err
	}
	if sep == dec {
		return Format{}, services.Wrap(services.ErrValidation, "", "segment plan", "separator and decimal must differ", nil)
	}
	return Format{Separator: sep, Decimal: dec}, nil
}

// LoadPlan reads and parses the plan at path.
func LoadPlan(path string, format Format) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, services.Wrap(services.ErrIO, "", "segment plan", "open "+path, err)
	}
	defer f.Close()
	return ParsePlan(f, format)
}

// ParsePlan parses a plan. A missing header column fails the whole plan; a
// row with unparseable fields is collected in Plan.Invalid and skipped.
func ParsePlan(r io.Reader, format Format) (Plan, error) {
	reader := csv.NewReader(r)
	reader.Comma = format.Separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Plan{}, services.Wrap(services.ErrValidation, "", "segment plan", "plan is empty", nil)
	}
	if err != nil {
		return Plan{}, services.Wrap(services.ErrValidation, "", "segment plan", "read header", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				plan.Invalid = append(plan.Invalid, RowError{Line: parseErr.StartLine, Err: parseErr.Err})
				continue
			}
			return plan, services.Wrap(services.ErrIO, "", "segment plan", "read row", err)
		}
		if blankRecord(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		row, err := parseRow(record, index, format.Decimal)
		if err != nil {
			plan.Invalid = append(plan.Invalid, RowError{Line: line, Err: err})
			continue
		}
		row.Line = line
		plan.Rows = append(plan.Rows, row)
	}
	return plan, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	var missing []string
	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrValidation, "", "segment plan",
			"missing columns "+strings.Join(missing, ", "), nil)
	}
	return index, nil
}

func parseRow(record []string, index map[string]int, decimal rune) (Row, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := Row{Path: field("Path"), Task: field("Task")}
	if row.Path == "" {
		return Row{}, errors.New("empty Path")
	}
	if len(strings.Fields(row.Task)) == 0 {
		return Row{}, errors.New("empty Task")
	}
	var err error
	if row.Start, err = parseNumber(field("Start"), decimal); err != nil {
		return Row{}, fmt.Errorf("Start: %w", err)
	}
	if row.End, err = parseNumber(field("End"), decimal); err != nil {
		return Row{}, fmt.Errorf("End: %w", err)
	}
	if row.Start < 0 {
		return Row{}, fmt.Errorf("negative Start %g", row.Start)
	}
	if row.End <= row.Start {
		return Row{}, fmt.Errorf("End %g is not after Start %g", row.End, row.Start)
	}
	return row, nil
}

func parseNumber(value string, decimal rune) (float64, error) {
	if value == "" {
		return 0, errors.New("empty value")
	}
	if decimal != '.' {
		if strings.ContainsRune(value, '.') {
			return 0, fmt.Errorf("unexpected '.' in %q", value)
		}
		value = strings.ReplaceAll(value, string(decimal), ".")
	}
	return strconv.ParseFloat(value, 64)
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func singleRune(name, value string) (rune, error) {
	runes := []rune(value)
	if len(runes) != 1 {
		return 0, services.Wrap(services.ErrValidation, "", "segment plan",
			fmt.Sprintf("%s must be a single character, got %q", name, value), nil)
	}
	return runes[0], nil
}
