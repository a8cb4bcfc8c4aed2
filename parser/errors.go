package parser

import "errors"

var (
	// ErrInvalidAmount reports a first field that does not begin with a
	// number.
	ErrInvalidAmount = errors.New("line does not start with an amount")

	// ErrEmptyDescription reports a line with nothing before the first
	// comma.
	ErrEmptyDescription = errors.New("line is empty before the first comma")

	// ErrEmptyEntityName reports a create directive without a name, such
	// as "cat=+".
	ErrEmptyEntityName = errors.New("entity name after + is empty")
)
