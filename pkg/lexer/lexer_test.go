package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/token"
)

func TestTokenize_Basics(t *testing.T) {
	t.Run("identifiers_and_keywords", func(t *testing.T) {
		toks, err := Tokenize("fn data x")
		require.NoError(t, err)
		require.Len(t, toks, 4) // fn, data, x, EOF
		assert.Equal(t, token.FN, toks[0].Kind)
		// "data" must NOT be a keyword.
		assert.Equal(t, token.IDENT, toks[1].Kind)
		assert.Equal(t, "data", toks[1].Literal)
		assert.Equal(t, token.IDENT, toks[2].Kind)
	})

	t.Run("escaped_quote_is_not_empty_string", func(t *testing.T) {
		toks, err := Tokenize(`"\""`)
		require.NoError(t, err)
		require.Equal(t, token.STRING, toks[0].Kind)
		assert.Equal(t, `"`, toks[0].Literal)
	})

	t.Run("symbol_literal", func(t *testing.T) {
		toks, err := Tokenize(":ok")
		require.NoError(t, err)
		assert.Equal(t, token.SYMBOL, toks[0].Kind)
		assert.Equal(t, "ok", toks[0].Literal)
	})

	t.Run("rest_pattern_token", func(t *testing.T) {
		toks, err := Tokenize("...rest")
		require.NoError(t, err)
		assert.Equal(t, token.REST, toks[0].Kind)
		assert.Equal(t, token.IDENT, toks[1].Kind)
	})

	t.Run("newline_inside_parens_is_whitespace", func(t *testing.T) {
		toks, err := Tokenize("f(\n  1,\n  2\n)")
		require.NoError(t, err)
		for _, tk := range toks {
			assert.NotEqual(t, token.NEWLINE, tk.Kind)
		}
	})

	t.Run("newline_outside_parens_is_a_token", func(t *testing.T) {
		toks, err := Tokenize("x = 1\ny = 2")
		require.NoError(t, err)
		var sawNewline bool
		for _, tk := range toks {
			if tk.Kind == token.NEWLINE {
				sawNewline = true
			}
		}
		assert.True(t, sawNewline)
	})

	t.Run("element_wise_operators", func(t *testing.T) {
		toks, err := Tokenize(".+ .- .* ./")
		require.NoError(t, err)
		assert.Equal(t, token.DOTPLUS, toks[0].Kind)
		assert.Equal(t, token.DOTMINUS, toks[1].Kind)
		assert.Equal(t, token.DOTSTAR, toks[2].Kind)
		assert.Equal(t, token.DOTSLASH, toks[3].Kind)
	})

	t.Run("exponent_and_floor_div", func(t *testing.T) {
		toks, err := Tokenize("** //")
		require.NoError(t, err)
		assert.Equal(t, token.STAR2, toks[0].Kind)
		assert.Equal(t, token.SLASH2, toks[1].Kind)
	})

	t.Run("unterminated_string_is_lexical_error", func(t *testing.T) {
		_, err := Tokenize(`"abc`)
		require.Error(t, err)
		var lexErr *Error
		require.ErrorAs(t, err, &lexErr)
	})

	t.Run("line_and_column_tracking", func(t *testing.T) {
		toks, err := Tokenize("x\ny")
		require.NoError(t, err)
		assert.Equal(t, 1, toks[0].Pos.Line)
		assert.Equal(t, 2, toks[2].Pos.Line) // after the NEWLINE token
	})
}
