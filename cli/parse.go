package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/jwiebalk/fireflybot/ledger"
	"github.com/jwiebalk/fireflybot/parser"
	"github.com/jwiebalk/fireflybot/resolver"
)

// ParseCmd parses a transaction line locally and previews how its
// directives would resolve, without touching Firefly III or Telegram.
type ParseCmd struct {
	Line []string `help:"Transaction line, e.g. '23.12 Coffee, cat=Food'." arg:""`

	Categories   []string `help:"Category names to resolve cat= against." placeholder:"NAME,..."`
	Destinations []string `help:"Expense account names to resolve dest= against." placeholder:"NAME,..."`
}

func (cmd *ParseCmd) Run(kctx *kong.Context, globals *Globals) error {
	line, err := parser.ParseLine(strings.Join(cmd.Line, " "))
	if err != nil {
		printError(kctx.Stderr, err.Error())
		return NewCommandError(1)
	}

	repr.Println(line)

	preview(kctx, "category", line.Category, cmd.Categories, globals.Threshold)
	preview(kctx, "destination", line.Destination, cmd.Destinations, globals.Threshold)

	return nil
}

// preview scores a directive against the names given on the command
// line, mirroring what the engine would do against live candidates.
func preview(kctx *kong.Context, noun string, q *parser.Query, names []string, threshold int) {
	if q == nil || len(names) == 0 {
		return
	}
	if q.Create {
		printInfof(kctx.Stdout, "%s will be created as %s", noun, nameStyle.Render(q.Name))
		return
	}

	candidates := make([]ledger.Candidate, len(names))
	for i, name := range names {
		candidates[i] = ledger.Candidate{ID: fmt.Sprint(i + 1), Name: name}
	}

	best, score, ok := resolver.Best(q.Keywords, candidates, threshold)
	if !ok {
		printInfof(kctx.Stdout, "no %s above %d%% (best %d%%)", noun, threshold, score)
		return
	}
	printInfof(kctx.Stdout, "%s resolves to %s (%d%%)", noun, nameStyle.Render(best.Name), score)
}
