package timing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errUnterminatedQuote = errors.New("unterminated quoted string")

// Metric is one entry of a Server-Timing header.
type Metric struct {
	Name        string
	Duration    float64
	Description string
}

// ParseServerTiming decodes Server-Timing header values. Several values are
// treated like a single comma separated list. Unknown parameters are ignored.
func ParseServerTiming(values ...string) ([]Metric, error) {
	var metrics []Metric
	for _, value := range values {
		entries, err := splitUnquoted(value, ',')
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			m, err := parseMetric(entry)
			if err != nil {
				return nil, err
			}
			metrics = append(metrics, m)
		}
	}
	return metrics, nil
}

func parseMetric(entry string) (Metric, error) {
	params, err := splitUnquoted(entry, ';')
	if err != nil {
		return Metric{}, err
	}

	m := Metric{Name: strings.TrimSpace(params[0])}
	if m.Name == "" {
		return Metric{}, fmt.Errorf("metric %q has no name", entry)
	}

	for _, param := range params[1:] {
		key, value, _ := strings.Cut(param, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "dur":
			d, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Metric{}, fmt.Errorf("metric %q: parsing dur %q: %w", m.Name, value, err)
			}
			m.Duration = d
		case "desc":
			m.Description = unquote(value)
		}
	}
	return m, nil
}

// splitUnquoted splits s on sep, ignoring separators inside double quotes.
func splitUnquoted(s string, sep byte) ([]string, error) {
	var (
		parts   []string
		quoted  bool
		escaped bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case !quoted && c == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if quoted {
		return nil, fmt.Errorf("%q: %w", s, errUnterminatedQuote)
	}
	return append(parts, s[start:]), nil
}

func unquote(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	v = v[1 : len(v)-1]
	if !strings.Contains(v, `\`) {
		return v
	}

	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}
		b.WriteByte(v[i])
	}
	return b.String()
}
