package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/flipset/internal/flashcard"
)

// orderFlag is the --order flag of card listings.
type orderFlag flashcard.SortDirection

// Set implements pflag.Value.
func (o *orderFlag) Set(v string) error {
	switch flashcard.SortDirection(strings.ToLower(v)) {
	case flashcard.SortAscending:
		*o = orderFlag(flashcard.SortAscending)
	case flashcard.SortDescending:
		*o = orderFlag(flashcard.SortDescending)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, flashcard.SortAscending, flashcard.SortDescending)
	}
	return nil
}

// String implements pflag.Value.
func (o *orderFlag) String() string {
	if o == nil {
		return ""
	}
	return string(*o)
}

// Type implements pflag.Value.
func (o *orderFlag) Type() string {
	return "order"
}

var (
	_ pflag.Value = (*orderFlag)(nil)
)
