package texdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no comments", in: "a\nb", want: "a\nb"},
		{name: "trailing comment", in: "a % note\nb", want: "a \nb"},
		{name: "whole line comment", in: "first\n% hidden\nsecond", want: "first\nsecond"},
		{name: "indented comment line", in: "first\n   % hidden\nsecond", want: "first\nsecond"},
		{name: "comment on last line", in: "a\n% end", want: "a\n"},
		{name: "escaped percent", in: `50\% off`, want: `50\% off`},
		{name: "escaped backslash then comment", in: `a\\% gone`, want: `a\\`},
		{name: "ignore region", in: "x\n%TC:ignore\nsecret\n%TC:endignore\ny", want: "x\n\ny"},
		{name: "comment environment", in: `a\begin{comment}hidden % x\end{comment}b`, want: "ab"},
		{
			name: "verbatim keeps percent",
			in:   "\\begin{verbatim}\n50% done\n\\end{verbatim}",
			want: "\\begin{verbatim}\n50% done\n\\end{verbatim}",
		},
		{
			name: "listing keeps percent",
			in:   "\\begin{lstlisting}\n% latex comment\n\\end{lstlisting} % gone",
			want: "\\begin{lstlisting}\n% latex comment\n\\end{lstlisting} ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.in))
		})
	}
}
