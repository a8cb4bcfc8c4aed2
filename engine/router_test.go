package engine

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
	}{
		{
			name: "start",
			text: "/start",
			want: Command{Kind: Start},
		},
		{
			name: "help",
			text: "/help",
			want: Command{Kind: Help},
		},
		{
			name: "last",
			text: "/last",
			want: Command{Kind: Last},
		},
		{
			name: "undo",
			text: "/undo",
			want: Command{Kind: Undo},
		},
		{
			name: "category lookup",
			text: "/cat coffee beans",
			want: Command{Kind: FindCategory, Keywords: []string{"coffee", "beans"}},
		},
		{
			name: "destination lookup",
			text: "/dest edeka",
			want: Command{Kind: FindDestination, Keywords: []string{"edeka"}},
		},
		{
			name: "bare lookup keeps empty keywords",
			text: "/cat",
			want: Command{Kind: FindCategory, Keywords: []string{}},
		},
		{
			name: "bot name suffix is stripped",
			text: "/undo@fireflybot",
			want: Command{Kind: Undo},
		},
		{
			name: "bot name suffix on a keyword command",
			text: "/cat@fireflybot cof",
			want: Command{Kind: FindCategory, Keywords: []string{"cof"}},
		},
		{
			name: "extra arguments after a simple command are ignored",
			text: "/last please",
			want: Command{Kind: Last},
		},
		{
			name: "unknown slash command is treated as a transaction line",
			text: "/catalog 5",
			want: Command{Kind: CreateTransaction, Line: "/catalog 5"},
		},
		{
			name: "commands are case sensitive",
			text: "/CAT coffee",
			want: Command{Kind: CreateTransaction, Line: "/CAT coffee"},
		},
		{
			name: "transaction line",
			text: "23.12 Coffee, milk, sugar, cat=Food, dest=Edeka",
			want: Command{Kind: CreateTransaction, Line: "23.12 Coffee, milk, sugar, cat=Food, dest=Edeka"},
		},
		{
			name: "surrounding whitespace is trimmed",
			text: "  5 Snack  ",
			want: Command{Kind: CreateTransaction, Line: "5 Snack"},
		},
		{
			name: "blank message",
			text: "   \t  ",
			want: Command{Kind: Unrecognized},
		},
		{
			name: "empty message",
			text: "",
			want: Command{Kind: Unrecognized},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Route(test.text))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "create-transaction", CreateTransaction.String())
	assert.Equal(t, "unrecognized", Unrecognized.String())
}
