package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"
	"golang.org/x/exp/slices"

	"github.com/jwiebalk/fireflybot/firefly"
	"github.com/jwiebalk/fireflybot/ledger"
)

// sampleSize caps how many names each doctor listing shows.
const sampleSize = 10

// DoctorCmd verifies that Firefly III is reachable, the source account
// exists, and shows a sample of the candidates fuzzy matching sees.
type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(kctx *kong.Context, globals *Globals) error {
	if err := requireLedgerConfig(globals); err != nil {
		return err
	}

	ctx := context.Background()
	client := firefly.New(globals.FireflyURL, globals.FireflyToken)

	assets, err := client.ListAssetAccounts(ctx)
	if err != nil {
		printError(kctx.Stderr, fmt.Sprintf("Cannot reach %s: %v", globals.FireflyURL, err))
		return NewCommandError(1)
	}
	printSuccess(kctx.Stdout, fmt.Sprintf("Connected to %s (%d asset accounts)", globals.FireflyURL, len(assets)))

	source, err := client.FindAssetAccount(ctx, globals.SourceAccount)
	if err != nil {
		if errors.Is(err, firefly.ErrAccountNotFound) {
			printError(kctx.Stderr, fmt.Sprintf("No asset account named %q", globals.SourceAccount))
			name, ok, perr := promptSelect("Which account should withdrawals draw from?", names(assets))
			if perr != nil {
				return perr
			}
			if ok {
				printInfof(kctx.Stdout, "Set FIREFLY_SOURCE_ACCOUNT=%s", nameStyle.Render(name))
			}
			return NewCommandError(1)
		}
		printError(kctx.Stderr, err.Error())
		return NewCommandError(1)
	}
	printSuccess(kctx.Stdout, fmt.Sprintf("Source account %s (id=%s)", nameStyle.Render(source.Name), source.ID))

	categories, err := client.ListCategories(ctx)
	if err != nil {
		printError(kctx.Stderr, err.Error())
		return NewCommandError(1)
	}
	printSample(kctx.Stdout, fmt.Sprintf("%d categories", len(categories)), categories)

	expenses, err := client.ListExpenseAccounts(ctx)
	if err != nil {
		printError(kctx.Stderr, err.Error())
		return NewCommandError(1)
	}
	printSample(kctx.Stdout, fmt.Sprintf("%d expense accounts", len(expenses)), expenses)

	printInfof(kctx.Stdout, "Match threshold is %d%%", globals.Threshold)

	return nil
}

func names(candidates []ledger.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Name
	}
	return out
}

// printSample lists up to sampleSize candidates sorted by name, with
// their ids aligned in a trailing column.
func printSample(w io.Writer, title string, candidates []ledger.Candidate) {
	printSuccess(w, title)

	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b ledger.Candidate) int {
		return strings.Compare(a.Name, b.Name)
	})
	if len(sorted) > sampleSize {
		sorted = sorted[:sampleSize]
	}

	width := 0
	for _, c := range sorted {
		if n := runewidth.StringWidth(c.Name); n > width {
			width = n
		}
	}
	for _, c := range sorted {
		_, _ = fmt.Fprintf(w, "    %s  id=%s\n", runewidth.FillRight(c.Name, width), c.ID)
	}
}
