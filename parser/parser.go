// Package parser implements the transaction line grammar.
//
// A line is a comma separated sequence of fields. The first field carries
// the amount and the description; later fields either extend the
// description or carry a cat= or dest= directive:
//
//	23.12 Coffee, milk, sugar, cat=Food, dest=Edeka
//
// Directive text normally holds keywords for fuzzy resolution; a leading
// "+" instead names a new entity to create verbatim.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Query asks for a category or destination account by fuzzy keywords, or
// names a new entity when Create is set.
type Query struct {
	Keywords []string
	Create   bool
	Name     string
}

// Line is a parsed transaction line awaiting entity resolution.
type Line struct {
	Amount      decimal.Decimal
	Description string
	Category    *Query
	Destination *Query
}

// defaultDescription fills in when a line carries an amount but no
// description text.
const defaultDescription = "Unknown"

var (
	amountPattern = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?`)

	// decimalCommaPattern spots an amount written with a decimal comma at
	// the start of a line, like "23,12 Coffee".
	decimalCommaPattern = regexp.MustCompile(`^([+-]?\d+),(\d+)`)
)

// ParseLine parses one free-form transaction line. Directives may appear in
// any order and a repeated directive overwrites the earlier one. Fields
// that are not directives extend the description, so descriptions may
// themselves contain commas.
func ParseLine(text string) (*Line, error) {
	text = strings.TrimSpace(text)
	// An amount written with a decimal comma would otherwise be split
	// apart at the comma below.
	text = decimalCommaPattern.ReplaceAllString(text, "$1.$2")

	fields := strings.Split(text, ",")
	line, err := parseFirst(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, err
	}

	var desc []string
	if line.Description != "" {
		desc = append(desc, line.Description)
	}
	for _, field := range fields[1:] {
		field = strings.TrimSpace(field)
		lower := strings.ToLower(field)
		switch {
		case strings.HasPrefix(lower, "cat="):
			q, err := parseQuery(field[len("cat="):])
			if err != nil {
				return nil, err
			}
			line.Category = q
		case strings.HasPrefix(lower, "dest="):
			q, err := parseQuery(field[len("dest="):])
			if err != nil {
				return nil, err
			}
			line.Destination = q
		case field != "":
			desc = append(desc, field)
		}
	}

	line.Description = strings.Join(desc, ", ")
	if line.Description == "" {
		line.Description = defaultDescription
	}
	return line, nil
}

// parseFirst splits the leading field into the amount and the start of the
// description. Anything glued to the number ("12€") is dropped; the
// description begins at the first whitespace run.
func parseFirst(field string) (*Line, error) {
	if field == "" {
		return nil, ErrEmptyDescription
	}
	number := amountPattern.FindString(field)
	if number == "" {
		return nil, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(number)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, number)
	}

	description := ""
	rest := field[len(number):]
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		description = strings.TrimSpace(rest[i:])
	}
	return &Line{Amount: amount, Description: description}, nil
}

func parseQuery(text string) (*Query, error) {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, "+"); ok {
		name := strings.TrimSpace(after)
		if name == "" {
			return nil, ErrEmptyEntityName
		}
		return &Query{Create: true, Name: name}, nil
	}
	return &Query{Keywords: strings.Fields(text)}, nil
}
