package parser

// rawscan.go holds the byte-level scanning primitives style.go uses to
// capture CSS-like content (selectors, declaration blocks, plain
// `key: value` pairs) straight out of a fragment's source text rather than
// through internal/lexer, which only understands CHTL's own token grammar
// and chokes on things like `#fff` or `rgba(0,0,0,.5)`.

func rawSkipString(src string, i int) int {
	quote := src[i]
	i++
	for i < len(src) {
		if src[i] == '\\' && i+1 < len(src) {
			i += 2
			continue
		}
		if src[i] == quote {
			return i + 1
		}
		i++
	}
	return i
}

func rawSkipBlockComment(src string, i int) int {
	i += 2
	for i < len(src) {
		if src[i] == '*' && i+1 < len(src) && src[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return i
}

func rawSkipWhitespaceAndComments(src string, i int) int {
	for i < len(src) {
		c := src[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		if c == '/' && i+1 < len(src) && src[i+1] == '/' {
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		}
		if c == '/' && i+1 < len(src) && src[i+1] == '*' {
			i = rawSkipBlockComment(src, i)
			continue
		}
		break
	}
	return i
}

// rawFindDelim scans forward from i (respecting strings, comments, and
// parenthesis nesting) and returns the position of the first top-level ';'
// or '{', whichever comes first.
func rawFindDelim(src string, i int) (int, byte, bool) {
	parenDepth := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			i = rawSkipString(src, i)
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i = rawSkipBlockComment(src, i)
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		case c == '(':
			parenDepth++
		case c == ')':
			if parenDepth > 0 {
				parenDepth--
			}
		case (c == ';' || c == '{') && parenDepth == 0:
			return i, c, true
		}
		i++
	}
	return len(src), 0, false
}

// rawScanBalancedBraces assumes src[i] is the byte right after an opening
// '{' (depth already 1) and returns the text up to, and the index of, the
// matching '}'.
func rawScanBalancedBraces(src string, i int) (string, int) {
	start := i
	depth := 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			i = rawSkipString(src, i)
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i = rawSkipBlockComment(src, i)
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return src[start:i], i
			}
		}
		i++
	}
	return src[start:], i
}

// splitCEPair splits "key: value" / "key = value" on the first top-level
// ':' or '=' (CE-equivalence), respecting quotes and parens. A value that
// is one whole quoted string is returned without its quotes.
func splitCEPair(s string) (string, string, bool) {
	parenDepth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\'':
			i = rawSkipString(s, i) - 1
		case '(':
			parenDepth++
		case ')':
			if parenDepth > 0 {
				parenDepth--
			}
		case ':', '=':
			if parenDepth == 0 {
				val := trimSpace(s[i+1:])
				if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') &&
					val[len(val)-1] == val[0] && rawSkipString(val, 0) == len(val) {
					val = val[1 : len(val)-1]
				}
				return trimSpace(s[:i]), val, true
			}
		}
	}
	return s, "", false
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isASCIISpace(s[start]) {
		start++
	}
	for end > start && isASCIISpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
