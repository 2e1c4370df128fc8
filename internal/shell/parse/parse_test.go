package parse

import (
	"testing"

	"mishell/internal/testutil"
	pkgerrors "mishell/pkg/errors"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "double_quotes", input: `echo "a b" c`, want: []string{"echo", "a b", "c"}},
		{name: "single_quotes", input: `printf '%s\n' x`, want: []string{"printf", `%s\n`, "x"}},
		{name: "extra_spaces", input: "  ls   -l  ", want: []string{"ls", "-l"}},
		{name: "escaped_space", input: `cat my\ file`, want: []string{"cat", "my file"}},
		{name: "empty", input: "   ", want: nil},
		{name: "hash_word", input: "echo #hi", want: []string{"echo", "#hi"}},
		{name: "hash_argument", input: "grep -c #include f.c", want: []string{"grep", "-c", "#include", "f.c"}},
		{name: "hash_inside_word", input: "echo a#b", want: []string{"echo", "a#b"}},
		{name: "hash_double_quoted", input: `echo "#x y"`, want: []string{"echo", "#x y"}},
		{name: "hash_single_quoted", input: `echo '#x'`, want: []string{"echo", "#x"}},
		{name: "hash_escaped", input: `echo \#x`, want: []string{"echo", "#x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tokenize(tc.input)
			testutil.AssertNoError(t, err)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	if _, err := Tokenize(`echo "open`); !pkgerrors.Is(err, pkgerrors.ParseFailed) {
		t.Fatalf("expected ParseFailed, got %v", err)
	}
}

func TestSplitPipeline(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single", input: "ls -l", want: []string{"ls -l"}},
		{name: "two_stages", input: "ls -l | wc -l", want: []string{"ls -l", "wc -l"}},
		{name: "trims", input: "  a  |  b  |c", want: []string{"a", "b", "c"}},
		{name: "double_bar_drops_empty", input: "a || b", want: []string{"a", "b"}},
		{name: "leading_and_trailing_bar", input: "| a |", want: []string{"a"}},
		{name: "quoted_bar", input: `echo "a|b" | cat`, want: []string{`echo "a|b"`, "cat"}},
		{name: "single_quoted_bar", input: `grep 'x|y' f`, want: []string{`grep 'x|y' f`}},
		{name: "escaped_bar", input: `echo a\|b`, want: []string{`echo a\|b`}},
		{name: "blank", input: "   ", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitPipeline(tc.input)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}

func TestParseLine(t *testing.T) {
	line, err := ParseLine(`cat "my file" | grep -v "x | y" | wc -c`)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, line.Stages, [][]string{
		{"cat", "my file"},
		{"grep", "-v", "x | y"},
		{"wc", "-c"},
	})
	testutil.AssertFalse(t, line.Single(), "three stages is not single")

	hashed, err := ParseLine("echo #a | wc -c")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, hashed.Stages, [][]string{{"echo", "#a"}, {"wc", "-c"}})

	blank, err := ParseLine("   ")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, blank.Empty(), "blank line has no stages")

	if _, err := ParseLine(`ls | echo "open`); !pkgerrors.Is(err, pkgerrors.ParseFailed) {
		t.Fatalf("expected ParseFailed, got %v", err)
	}
}
