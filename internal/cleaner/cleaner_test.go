package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple tags", input: "<p>Hello</p> <b>World</b>", want: "Hello World"},
		{name: "attributes", input: `<a href="/x" class='y'>link</a>`, want: "link"},
		{name: "self closing", input: "line<br/>break", want: "linebreak"},
		{name: "nested looking", input: "<<b>>bold", want: ">bold"},
		{name: "unterminated", input: "text <b unterminated", want: "text <b unterminated"},
		{name: "empty brackets kept", input: "a <> b", want: "a <> b"},
		{name: "literal angle brackets in prose", input: "if a < b and c > d", want: "if a  d"},
		{name: "cjk untouched", input: "<span>中文</span>分词", want: "中文分词"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StripMarkup(tt.input))
		})
	}
}

func TestStripPunctuation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no punctuation", input: "Hello World", want: "Hello World"},
		{name: "ascii punctuation", input: "Hello, World! (v2.0)", want: "Hello World v20"},
		{name: "underscore kept", input: "snake_case-word", want: "snake_caseword"},
		{name: "cjk punctuation", input: "你好，世界。“引号”！", want: "你好世界引号"},
		{name: "whitespace kept", input: "a\tb\nc　d", want: "a\tb\nc　d"},
		{name: "symbols dropped", input: "price: $5 + 3% ©", want: "price 5  3 "},
		{name: "digits in other scripts", input: "٣ apples", want: "٣ apples"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StripPunctuation(tt.input))
		})
	}
}

func TestStripPunctuationIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain words",
		"Hello, <b>World</b>! 中文，标点；符号……",
		"mixed_tokens 123 ４５６ ½ ∑ emoji 🎉 done.",
		strings.Repeat("a.b,c;d ", 50),
	}
	for _, in := range inputs {
		once := StripPunctuation(in)
		require.Equal(t, once, StripPunctuation(once), "input %q", in)
	}
}

func TestCleanIdempotent(t *testing.T) {
	in := "<div class=\"x\">第一段，内容。</div><p>Second <i>para</i>!</p>"
	once := Clean(in)
	require.Equal(t, "第一段内容Second para", once)
	require.Equal(t, once, Clean(once))
}

func TestCleanOrderMatters(t *testing.T) {
	in := "<b>bold</b>text"
	require.Equal(t, "boldtext", Clean(in))
	// punctuation first leaves the tag names glued to the text
	require.Equal(t, "bboldbtext", StripMarkup(StripPunctuation(in)))
}
