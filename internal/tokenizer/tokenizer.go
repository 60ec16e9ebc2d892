// Package tokenizer splits command lines into words, honoring quotes.
//
// Words are separated by unquoted whitespace. Double and single quotes group
// characters into one word and are removed; quoted and unquoted pieces that
// touch are joined, so `a"b c"d` is the single word "ab cd".
package tokenizer

import (
	"errors"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// ErrUnterminatedQuote is returned when a quote is opened but never closed.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Token is one word of a command line.
type Token struct {
	// Value is the word with quotes removed.
	Value string
	// Literal is set when the whole word was single-quoted; such words are
	// not subject to variable expansion.
	Literal bool
}

const (
	whitespaceCode = iota + 1
	wordCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	wordToken       = parsly.NewToken(wordCode, "Word", &wordMatcher{})
)

// wordMatcher consumes up to the next whitespace that is not inside quotes.
// An unclosed quote runs to the end of input.
type wordMatcher struct{}

func (m *wordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	var quote byte
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		c := input[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case isSpace(c):
			return matched
		}
		matched++
	}
	return matched
}

// Tokenize splits line into tokens.
func Tokenize(line string) ([]Token, error) {
	cursor := parsly.NewCursor("", []byte(line), 0)
	var tokens []Token
	for {
		cursor.MatchOne(whitespaceToken)
		if !cursor.HasMore() {
			return tokens, nil
		}
		matched := cursor.MatchOne(wordToken)
		if matched.Code != wordCode {
			return nil, cursor.NewError(wordToken)
		}
		tok, err := unquote(matched.Text(cursor))
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

func unquote(word string) (Token, error) {
	var sb strings.Builder
	sb.Grow(len(word))
	var quote byte
	literal := len(word) >= 2 && word[0] == '\''
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				if i != len(word)-1 {
					literal = false
				}
				continue
			}
			sb.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			if c != '\'' || i != 0 {
				literal = false
			}
		default:
			literal = false
			sb.WriteByte(c)
		}
	}
	if quote != 0 {
		return Token{}, ErrUnterminatedQuote
	}
	return Token{Value: sb.String(), Literal: literal}, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
