package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/gworkspace-mcp/internal/toolerr"
)

// TimeValue is a coerced ParamTime argument.
type TimeValue struct {
	Time time.Time
	// DateOnly is set for a bare date such as 2025-10-20.
	DateOnly bool
	// Floating is set for a timestamp without offset. Time then holds the
	// wall clock in UTC; In re-anchors it to a location.
	Floating bool
}

// IsZero reports whether the argument was absent.
func (v TimeValue) IsZero() bool {
	return v.Time.IsZero()
}

// In returns the time with a floating wall clock interpreted in loc.
func (v TimeValue) In(loc *time.Location) time.Time {
	if !v.Floating || loc == nil {
		return v.Time
	}
	t := v.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

var floatingLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var dateLayouts = []string{"2006-01-02", "2006/01/02"}

// Args holds coerced arguments. Getters return the zero value for absent
// optional arguments.
type Args struct {
	values map[string]any
}

// NewArgs wraps already coerced values.
func NewArgs(values map[string]any) Args {
	return Args{values: values}
}

// Has reports whether the argument was supplied or defaulted.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

func (a Args) String(name string) string {
	s, _ := a.values[name].(string)
	return s
}

func (a Args) Int(name string) int {
	n, _ := a.values[name].(int)
	return n
}

func (a Args) Bool(name string) bool {
	b, _ := a.values[name].(bool)
	return b
}

func (a Args) StringList(name string) []string {
	l, _ := a.values[name].([]string)
	return l
}

func (a Args) Grid(name string) [][]any {
	g, _ := a.values[name].([][]any)
	return g
}

func (a Args) Time(name string) TimeValue {
	t, _ := a.values[name].(TimeValue)
	return t
}

func (a Args) Date(name string) time.Time {
	t, _ := a.values[name].(time.Time)
	return t
}

// ParseArgs validates raw against params. Unknown arguments are ignored.
// A missing required argument or a value that cannot be coerced is an
// invalid_arguments error naming the parameter.
func ParseArgs(params []Param, raw map[string]any) (Args, error) {
	values := make(map[string]any, len(params))
	for _, p := range params {
		v, present := raw[p.Name]
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			present = false
		}
		if v == nil {
			present = false
		}

		if !present {
			if p.Required {
				return Args{}, toolerr.InvalidArgument(p.Name, "%s is required", p.Name)
			}
			if p.Default != nil {
				values[p.Name] = p.Default
			}
			continue
		}

		coerced, err := coerce(p, v)
		if err != nil {
			return Args{}, toolerr.InvalidArgument(p.Name, "%s: %v", p.Name, err)
		}
		values[p.Name] = coerced
	}
	return Args{values: values}, nil
}

func coerce(p Param, v any) (any, error) {
	switch p.Type {
	case ParamString:
		return coerceString(v)
	case ParamInt:
		n, err := coerceInt(v)
		if err != nil {
			return nil, err
		}
		if p.Min > 0 && n < p.Min {
			return nil, fmt.Errorf("must be at least %d, got %d", p.Min, n)
		}
		if p.NonNegative && n < 0 {
			return nil, fmt.Errorf("must not be negative, got %d", n)
		}
		return n, nil
	case ParamBool:
		return coerceBool(v)
	case ParamStringList:
		return coerceStringList(v)
	case ParamGrid:
		return coerceGrid(v)
	case ParamTime:
		return coerceTime(v)
	case ParamDate:
		return coerceDate(v)
	}
	return nil, fmt.Errorf("unsupported parameter type %s", p.Type)
}

func coerceString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case float64, int, int64, json.Number, bool:
		return fmt.Sprint(s), nil
	}
	return "", fmt.Errorf("expected a string, got %T", v)
}

func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %s", n)
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", n)
		}
		return i, nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}

func coerceBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("expected a boolean, got %q", b)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("expected a boolean, got %T", v)
}

func coerceStringList(v any) ([]string, error) {
	var items []string
	switch l := v.(type) {
	case string:
		items = strings.Split(l, ",")
	case []string:
		items = l
	case []any:
		for i, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d: expected a string, got %T", i, item)
			}
			items = append(items, s)
		}
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}

	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

var errEmptyGrid = errors.New("must contain at least one row")

func coerceGrid(v any) ([][]any, error) {
	if s, ok := v.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, fmt.Errorf("expected a JSON array of rows: %w", err)
		}
		v = decoded
	}

	var rows []any
	switch g := v.(type) {
	case [][]any:
		if len(g) == 0 {
			return nil, errEmptyGrid
		}
		for _, r := range g {
			rows = append(rows, r)
		}
	case [][]string:
		for _, r := range g {
			row := make([]any, len(r))
			for i, c := range r {
				row[i] = c
			}
			rows = append(rows, row)
		}
	case []any:
		rows = g
	default:
		return nil, fmt.Errorf("expected an array of rows, got %T", v)
	}
	if len(rows) == 0 {
		return nil, errEmptyGrid
	}

	out := make([][]any, 0, len(rows))
	for i, r := range rows {
		cells, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("row %d: expected an array of cells, got %T", i, r)
		}
		row := make([]any, len(cells))
		for j, c := range cells {
			switch c.(type) {
			case nil:
				row[j] = ""
			case string, float64, int, int64, bool, json.Number:
				row[j] = c
			default:
				return nil, fmt.Errorf("row %d, cell %d: unsupported value %T", i, j, c)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func coerceTime(v any) (TimeValue, error) {
	s, ok := v.(string)
	if !ok {
		return TimeValue{}, fmt.Errorf("expected a time string, got %T", v)
	}
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return TimeValue{Time: t}, nil
	}
	for _, layout := range floatingLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeValue{Time: t, Floating: true}, nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeValue{Time: t, DateOnly: true}, nil
		}
	}
	return TimeValue{}, fmt.Errorf("expected RFC3339 (2025-10-20T15:04:05Z) or a date (2025-10-20), got %q", s)
}

func coerceDate(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("expected a date string, got %T", v)
	}
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("expected a date as YYYY-MM-DD or YYYY/MM/DD, got %q", s)
}
