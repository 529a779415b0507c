// Package js_scanner does a light byte-level scan over a raw script body to
// decide whether it contains CHTL-JS sugar — the `{{ selector }}` token or
// one of the enhanced-script keywords (`listen`, `delegate`, `animate`,
// `vir`) — without parsing it as JavaScript. Comments are skipped the same
// way the lexer skips them, so a keyword mentioned only in a comment doesn't
// count.
package js_scanner

var source []byte
var pos int

// sugarKeywords are the bare identifiers that mark a script body as using
// CHTL-JS enhanced syntax when they appear at a keyword boundary (not as
// part of a longer identifier, not inside a string or comment).
var sugarKeywords = []string{"listen", "delegate", "animate", "vir"}

// ContainsSugar reports whether src uses CHTL-JS sugar: the `{{ … }}`
// selector token, or any of the enhanced-script keywords.
func ContainsSugar(src []byte) bool {
	source = src
	pos = 0
	for ; pos < len(source); pos++ {
		c := readCommentWhitespace(true)
		if pos >= len(source) {
			break
		}
		switch {
		case c == '"' || c == '\'' || c == '`':
			for pos++; pos < len(source) && source[pos] != c; pos++ {
				if source[pos] == '\\' {
					pos++
				}
			}
		case c == '{':
			if str_eq2('{', '{') {
				return true
			}
		case isIdentStart(c):
			if isKeywordStart() && matchesKeywordHere() {
				return true
			}
			pos = skipIdent(pos)
		}
	}
	return false
}

func matchesKeywordHere() bool {
	for _, kw := range sugarKeywords {
		if strEq(kw) {
			return true
		}
	}
	return false
}

// strEq reports whether s occurs at pos and is followed by a non-identifier
// byte (so "listener" doesn't match the "listen" keyword).
func strEq(s string) bool {
	end := pos + len(s)
	if end > len(source) || string(source[pos:end]) != s {
		return false
	}
	if end == len(source) {
		return true
	}
	return !isIdentPart(source[end])
}

func skipIdent(start int) int {
	i := start
	for i < len(source) && isIdentPart(source[i]) {
		i++
	}
	return i - 1 // the loop's pos++ advances past the last consumed byte
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// Note: non-ascii BR and whitespace checks omitted for perf / footprint; if
// there is a significant user need this can be reconsidered.
func isBr(c byte) bool {
	return c == '\r' || c == '\n'
}

func isWsNotBr(c byte) bool {
	return c == 9 || c == 11 || c == 12 || c == 32 || c == 160
}

func isBrOrWs(c byte) bool {
	return c > 8 && c < 14 || c == 32 || c == 160
}

func isPunctuator(ch byte) bool {
	// 23 possible punctuator endings: !%&()*+,-./:;<=>?[]^{}|~
	return ch == '!' || ch == '%' || ch == '&' ||
		ch > 39 && ch < 48 || ch > 57 && ch < 64 ||
		ch == '[' || ch == ']' || ch == '^' ||
		ch > 122 && ch < 127
}

func isBrOrWsOrPunctuatorNotDot(c byte) bool {
	return c > 8 && c < 14 || c == 32 || c == 160 || isPunctuator(c) && c != '.'
}

func str_eq2(c1 byte, c2 byte) bool {
	return len(source[pos:]) >= 2 && source[pos+1] == c2 && source[pos] == c1
}

func isKeywordStart() bool {
	return pos == 0 || isBrOrWsOrPunctuatorNotDot(source[pos-1]) || source[pos-1] == '.'
}

func readBlockComment(br bool) {
	pos++
	for ; pos < len(source)-1; pos++ {
		c := source[pos]
		if !br && isBr(c) {
			return
		}
		if c == '*' && source[pos+1] == '/' {
			pos++
			return
		}
	}
}

func readLineComment() {
	for ; pos < len(source)-1; pos++ {
		c := source[pos]
		if c == '\n' || c == '\r' {
			return
		}
	}
}

func readCommentWhitespace(br bool) byte {
	var c byte
	for ; pos < len(source); pos++ {
		c = source[pos]
		switch {
		case c == '/' && pos < len(source)-1:
			if str_eq2('/', '/') {
				readLineComment()
				continue
			} else if str_eq2('/', '*') {
				readBlockComment(true)
				continue
			}
			return c
		case (br && !isBrOrWs(c)):
			return c
		case (!br && !isWsNotBr(c)):
			return c
		}
	}
	return c
}
