package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations keep their trailing period.
var abbreviations = map[string]bool{
	"mr.": true, "mrs.": true, "ms.": true, "dr.": true, "prof.": true,
	"st.": true, "jr.": true, "sr.": true, "vs.": true, "etc.": true,
	"inc.": true, "ltd.": true, "co.": true, "corp.": true, "no.": true,
	"jan.": true, "feb.": true, "mar.": true, "apr.": true, "aug.": true,
	"sep.": true, "sept.": true, "oct.": true, "nov.": true, "dec.": true,
}

var contractions = []string{"n't", "'s", "'re", "'ve", "'ll", "'d", "'m"}

// Tokenize splits text into Penn Treebank style tokens: punctuation is split
// from words, double quotes become `` and '', and clitics such as n't and 's
// are separate tokens.
func Tokenize(text string) []string {
	tk := &tokenizer{}
	for _, chunk := range strings.Fields(text) {
		tk.chunk(chunk)
	}
	return tk.out
}

type tokenizer struct {
	out       []string
	quoteOpen bool
}

func (tk *tokenizer) chunk(s string) {
	// leading openers
	for s != "" {
		r, n := utf8.DecodeRuneInString(s)
		tok, ok := tk.opener(r, len(s) == n)
		if !ok {
			break
		}
		tk.out = append(tk.out, tok)
		s = s[n:]
	}
	if s == "" {
		return
	}

	var tail []string
	for s != "" {
		tok, rest, ok := tk.trailer(s)
		if !ok {
			break
		}
		tail = append(tail, tok)
		s = rest
	}

	if s != "" {
		tk.out = append(tk.out, splitContraction(s)...)
	}
	for i := len(tail) - 1; i >= 0; i-- {
		tk.out = append(tk.out, tail[i])
	}
}

func (tk *tokenizer) opener(r rune, alone bool) (string, bool) {
	switch r {
	case '"':
		if alone && tk.quoteOpen {
			tk.quoteOpen = false
			return "''", true
		}
		tk.quoteOpen = true
		return "``", true
	case '“':
		tk.quoteOpen = true
		return "``", true
	case '‘':
		return "`", true
	case '(', '[', '{':
		return string(r), true
	case '”':
		if alone {
			tk.quoteOpen = false
			return "''", true
		}
	}
	return "", false
}

// trailer peels one closing token off the end of s.
func (tk *tokenizer) trailer(s string) (tok, rest string, ok bool) {
	r, n := utf8.DecodeLastRuneInString(s)
	rest = s[:len(s)-n]
	switch r {
	case '"', '”':
		tk.quoteOpen = false
		return "''", rest, true
	case '’', '\'':
		return "'", rest, true
	case ')', ']', '}', ',', ';', ':':
		return string(r), rest, true
	case '!', '?':
		i := len(s)
		for i > 0 && (s[i-1] == '!' || s[i-1] == '?') {
			i--
		}
		return s[i:], s[:i], true
	case '.':
		i := len(s)
		for i > 0 && s[i-1] == '.' {
			i--
		}
		if len(s)-i >= 3 {
			return "...", s[:len(s)-3], true
		}
		if keepsPeriod(s) {
			return "", "", false
		}
		return ".", rest, true
	}
	return "", "", false
}

// keepsPeriod reports whether the trailing period of word belongs to it, as in
// abbreviations and initials (Dr., U.S., J.).
func keepsPeriod(word string) bool {
	if len(word) < 2 {
		return false
	}
	if abbreviations[strings.ToLower(word)] {
		return true
	}
	body := word[:len(word)-1]
	if strings.Contains(body, ".") {
		return true
	}
	r, n := utf8.DecodeRuneInString(body)
	return n == len(body) && unicode.IsUpper(r)
}

func splitContraction(word string) []string {
	norm := strings.ReplaceAll(word, "’", "'")
	lower := strings.ToLower(norm)
	for _, c := range contractions {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			cut := len(norm) - len(c)
			// map the cut back onto the original bytes
			stem, clitic := cutOriginal(word, norm, cut)
			return []string{stem, clitic}
		}
	}
	return []string{word}
}

// cutOriginal splits word at the rune position that byte offset cut has in
// norm, which differs from word only in apostrophe encoding.
func cutOriginal(word, norm string, cut int) (string, string) {
	runes := utf8.RuneCountInString(norm[:cut])
	i := 0
	for r := 0; r < runes; r++ {
		_, n := utf8.DecodeRuneInString(word[i:])
		i += n
	}
	return word[:i], word[i:]
}
