// Package parsing repairs the model's nominally-JSON answer into a document
// encoding/json accepts. Hebrew text mixed with JSON punctuation routinely
// produces smart quotes, direction marks and stray quotes inside words.
package parsing

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrParseFailure is returned (wrapped in a *ParseError) when the output
// cannot be parsed even after repair.
var ErrParseFailure = errors.New("model output is not a valid JSON object")

// snippetRadius is half the width, in characters, of the diagnostic window
// around a syntax error.
const snippetRadius = 60

// gershayim is the Hebrew abbreviation mark used in place of an ASCII
// double quote inside words like צה"ל.
const gershayim = '\u05f4'

// ParseError carries diagnostics about a failed parse. Snippet is the text
// around the failure offset and is only meant for logs.
type ParseError struct {
	Offset  int64
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v at offset %d near %q: %v", ErrParseFailure, e.Offset, e.Snippet, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParseFailure, e.Err}
}

var quoteReplacer = strings.NewReplacer(
	"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u201f", `"`,
	"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u201b", "'",
	"`", "'",
)

var invisibleReplacer = strings.NewReplacer(
	"\ufeff", "",
	"\u00a0", " ",
	"\u200e", "", "\u200f", "",
	"\u200c", "", "\u200d", "",
)

// bidiControls are embeddings, overrides and isolates.
var bidiControls = regexp.MustCompile(`[\x{202A}-\x{202E}\x{2066}-\x{2069}]`)

// Repair applies the encoding-level fixes without parsing.
func Repair(raw string) string {
	s := stripCodeFence(norm.NFC.String(raw))
	s = quoteReplacer.Replace(s)
	s = replaceInWordQuotes(s)
	s = invisibleReplacer.Replace(s)
	return bidiControls.ReplaceAllString(s, "")
}

// Sanitize repairs raw and parses it as a JSON object. It performs no schema
// validation. The repaired document is returned whenever it parses, so
// smart quotes and direction marks inside values come back normalized. Only
// when the repaired text fails to parse is raw itself tried unmodified.
func Sanitize(raw string) (map[string]any, error) {
	cleaned := Repair(raw)

	record, err := decodeObject(cleaned)
	if err == nil {
		return record, nil
	}
	if original, rawErr := decodeObject(strings.TrimSpace(raw)); rawErr == nil {
		return original, nil
	}
	return nil, newParseError(cleaned, err)
}

func decodeObject(s string) (map[string]any, error) {
	var record map[string]any
	if err := json.Unmarshal([]byte(s), &record); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("document is null")
	}
	return record, nil
}

func newParseError(doc string, err error) *ParseError {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	return &ParseError{Offset: offset, Snippet: window(doc, int(offset)), Err: err}
}

// window returns up to snippetRadius characters on each side of the byte
// offset.
func window(s string, offset int) string {
	offset = min(max(0, offset), len(s))
	for offset > 0 && offset < len(s) && !utf8.RuneStart(s[offset]) {
		offset--
	}
	start := offset
	for i := 0; i < snippetRadius && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:start])
		start -= size
	}
	end := offset
	for i := 0; i < snippetRadius && end < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	return s[start:end]
}

func replaceInWordQuotes(s string) string {
	if !strings.Contains(s, `"`) {
		return s
	}
	runes := []rune(s)
	for i := 1; i < len(runes)-1; i++ {
		if runes[i] == '"' && isHebrew(runes[i-1]) && isHebrew(runes[i+1]) {
			runes[i] = gershayim
		}
	}
	return string(runes)
}

func isHebrew(r rune) bool {
	return r >= 0x0590 && r <= 0x05FF
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
