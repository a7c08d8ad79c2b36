package xpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, src string) []TokenType {
	t.Helper()
	tz := NewTokenizer(src)
	var types []TokenType
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		types = append(types, tok.Type)
		if tok.Type == TokenEOF {
			return types
		}
	}
}

func TestTokenizerBasicPunctuation(t *testing.T) {
	got := tokenTypes(t, "/ // . .. @ , :: ( ) [ ] | + - = != < <= > >= * $")
	want := []TokenType{
		TokenSlash, TokenDoubleSlash, TokenDot, TokenDoubleDot, TokenAt, TokenComma,
		TokenColonColon, TokenLeftParen, TokenRightParen, TokenLeftBracket, TokenRightBracket,
		TokenPipe, TokenPlus, TokenMinus, TokenEq, TokenNeq, TokenLt, TokenLte, TokenGt, TokenGte,
		TokenStar, TokenDollar, TokenEOF,
	}
	require.Equal(t, want, got)
}

func TestTokenizerOperatorNameAfterValue(t *testing.T) {
	// "2 div 3": "div" follows a number, where an operator is expected, so
	// it reclassifies to the operator.
	got := tokenTypes(t, "2 div 3")
	require.Equal(t, []TokenType{TokenNumber, TokenDiv, TokenNumber, TokenEOF}, got)
}

func TestTokenizerOperatorSpellingAfterSlash(t *testing.T) {
	// "/div": an operator spelling is always reclassified, even after '/';
	// the parser's nameLike fallback recovers the plain element name from
	// the reclassified token's Value.
	got := tokenTypes(t, "/div")
	require.Equal(t, []TokenType{TokenSlash, TokenDiv, TokenEOF}, got)
}

func TestTokenizerQualifiedName(t *testing.T) {
	tz := NewTokenizer("ns:foo")
	tok, err := tz.Next()
	require.NoError(t, err)
	require.Equal(t, TokenName, tok.Type)
	require.Equal(t, "ns", tok.Prefix)
	require.Equal(t, "foo", tok.Value)
}

func TestTokenizerPrefixWildcard(t *testing.T) {
	got := tokenTypes(t, "ns:*")
	require.Equal(t, []TokenType{TokenName, TokenColon, TokenStar, TokenEOF}, got)
}

func TestTokenizerAxisNameBeforeDoubleColon(t *testing.T) {
	got := tokenTypes(t, "child::foo")
	require.Equal(t, []TokenType{TokenAxisName, TokenColonColon, TokenName, TokenEOF}, got)
}

func TestTokenizerTrailingColonIsLexError(t *testing.T) {
	tz := NewTokenizer("foo:")
	_, err := tz.Next()
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestTokenizerUnterminatedString(t *testing.T) {
	tz := NewTokenizer(`"abc`)
	_, err := tz.Next()
	require.Error(t, err)
}

func TestTokenizerLoneDotIsNotMalformedNumber(t *testing.T) {
	// A '.' with no digit after it is the self abbreviation, not a number.
	tz := NewTokenizer(".")
	tok, err := tz.Next()
	require.NoError(t, err)
	require.Equal(t, TokenDot, tok.Type)
}

func TestTokenizerPeekDoesNotConsume(t *testing.T) {
	tz := NewTokenizer("a/b")
	p1, err := tz.Peek()
	require.NoError(t, err)
	p2, err := tz.Peek()
	require.NoError(t, err)
	require.Equal(t, p1, p2)
	n, err := tz.Next()
	require.NoError(t, err)
	require.Equal(t, p1, n)
}
