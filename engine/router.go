package engine

import (
	"strings"
	"unicode"
)

// Kind identifies what an incoming message asks the bot to do.
type Kind int

const (
	// Unrecognized covers messages with no actionable content.
	Unrecognized Kind = iota
	// Start greets the user.
	Start
	// Help prints the line grammar and command list.
	Help
	// Last reports the most recently recorded transaction.
	Last
	// Undo deletes the most recently recorded transaction.
	Undo
	// FindCategory resolves keywords against the category list.
	FindCategory
	// FindDestination resolves keywords against the expense accounts.
	FindDestination
	// CreateTransaction records a withdrawal from free-form text.
	CreateTransaction
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Help:
		return "help"
	case Last:
		return "last"
	case Undo:
		return "undo"
	case FindCategory:
		return "find-category"
	case FindDestination:
		return "find-destination"
	case CreateTransaction:
		return "create-transaction"
	default:
		return "unrecognized"
	}
}

// Command is a routed message. Keywords carries the arguments of the
// lookup commands, Line the raw text of a transaction request.
type Command struct {
	Kind     Kind
	Keywords []string
	Line     string
}

// Route classifies a single chat message. Slash commands are matched
// case-sensitively on their first token, with an optional @botname
// suffix stripped. Anything else that is not blank is treated as a
// transaction line.
func Route(text string) Command {
	text = strings.TrimSpace(text)
	if text == "" {
		return Command{Kind: Unrecognized}
	}

	token, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		token, rest = text[:i], strings.TrimSpace(text[i:])
	}

	if strings.HasPrefix(token, "/") {
		// Telegram appends the bot name in group-style mentions.
		if at := strings.IndexByte(token, '@'); at >= 0 {
			token = token[:at]
		}
		switch token {
		case "/start":
			return Command{Kind: Start}
		case "/help":
			return Command{Kind: Help}
		case "/last":
			return Command{Kind: Last}
		case "/undo":
			return Command{Kind: Undo}
		case "/cat":
			return Command{Kind: FindCategory, Keywords: strings.Fields(rest)}
		case "/dest":
			return Command{Kind: FindDestination, Keywords: strings.Fields(rest)}
		}
	}

	return Command{Kind: CreateTransaction, Line: text}
}
