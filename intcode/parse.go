package intcode

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Program is an Intcode program: the initial contents of memory.
// Machines copy it, so a Program may be shared between them.
type Program []int64

// Clone returns a copy of p.
func (p Program) Clone() Program {
	c := make(Program, len(p))
	copy(c, p)
	return c
}

func (p Program) String() string {
	var b strings.Builder
	for i, v := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	return b.String()
}

// ParseError reports a token that is not a base-10 signed integer.
type ParseError struct {
	Index int // zero-based token index
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing token %d %q: %v", e.Index, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errEmptyToken = errors.New("empty token")

// ParseString parses a comma-separated list of integers.
// Whitespace around each token is ignored. Blank input is an empty program.
func ParseString(s string) (Program, error) {
	if strings.TrimSpace(s) == "" {
		return Program{}, nil
	}
	toks := strings.Split(s, ",")
	p := make(Program, len(toks))
	for i, tok := range toks {
		t := strings.TrimSpace(tok)
		if t == "" {
			return nil, &ParseError{Index: i, Token: tok, Err: errEmptyToken}
		}
		v, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok {
				err = ne.Err
			}
			return nil, &ParseError{Index: i, Token: tok, Err: err}
		}
		p[i] = v
	}
	return p, nil
}

// Parse reads r to the end and parses its contents with ParseString.
func Parse(r io.Reader) (Program, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseString(string(b))
}
