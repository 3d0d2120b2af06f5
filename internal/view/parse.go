package view

import (
	"fmt"
	"strings"
)

// ParseSort reads a comma separated list of columns, e.g. "status,title:desc".
// A ":desc" suffix or a leading "-" sorts that column descending; ":asc" or
// a leading "+" is the default ascending order.
func ParseSort(s string) (Sort, error) {
	var sort Sort
	seen := make(map[Column]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc, err := sortDirection(&part)
		if err != nil {
			return nil, err
		}
		col, err := ParseColumn(part)
		if err != nil {
			return nil, err
		}
		if seen[col] {
			return nil, fmt.Errorf("column sorted twice: %s", col)
		}
		seen[col] = true
		sort = append(sort, SortKey{Column: col, Desc: desc})
	}
	return sort, nil
}

// sortDirection strips the direction marker from part.
func sortDirection(part *string) (desc bool, err error) {
	if name, dir, ok := strings.Cut(*part, ":"); ok {
		*part = name
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "asc":
			return false, nil
		case "desc":
			return true, nil
		}
		return false, fmt.Errorf("invalid sort direction (want asc or desc): %s", dir)
	}
	switch (*part)[0] {
	case '-':
		*part = (*part)[1:]
		return true, nil
	case '+':
		*part = (*part)[1:]
	}
	return false, nil
}

// String renders s in the syntax accepted by ParseSort. Descending keys use
// the ":desc" form, which needs no quoting on a command line.
func (s Sort) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		if k.Desc {
			parts[i] = string(k.Column) + ":desc"
		} else {
			parts[i] = string(k.Column)
		}
	}
	return strings.Join(parts, ",")
}

// ParseFilter reads a "column=substring" expression.
func ParseFilter(s string) (Column, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid filter (want column=value): %s", s)
	}
	col, err := ParseColumn(key)
	if err != nil {
		return "", "", err
	}
	return col, value, nil
}
