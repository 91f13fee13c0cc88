package settings

import (
	"regexp"
	"strings"
)

// splitTopLevel splits Python source into top-level statements. Statements
// continue across bracketed expressions, string literals (including triple
// quoted ones) and backslash continuations. Comments are dropped. Indented
// statements belong to compound blocks and are not returned.
func splitTopLevel(src string) []string {
	var (
		stmts    []string
		cur      strings.Builder
		depth    int
		quote    string
		indented bool
		lineHead = true
	)

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" && !indented {
			stmts = append(stmts, s)
		}
		cur.Reset()
		depth = 0
		indented = false
	}

	for i := 0; i < len(src); i++ {
		c := src[i]

		if quote != "" {
			cur.WriteByte(c)
			switch {
			case c == '\\' && i+1 < len(src):
				i++
				cur.WriteByte(src[i])
			case strings.HasPrefix(src[i:], quote):
				cur.WriteString(src[i+1 : i+len(quote)])
				i += len(quote) - 1
				quote = ""
			case c == '\n' && len(quote) == 1:
				// unterminated single-line string
				quote = ""
				flush()
				lineHead = true
			}
			continue
		}

		if cur.Len() == 0 {
			if c == ' ' || c == '\t' {
				if lineHead {
					indented = true
				}
				continue
			}
			if c != '\n' && c != '\r' && c != '#' {
				lineHead = false
			}
		}

		switch c {
		case '#':
			for i+1 < len(src) && src[i+1] != '\n' {
				i++
			}
			continue
		case '\'', '"':
			q := string(c)
			if strings.HasPrefix(src[i:], q+q+q) {
				q = q + q + q
			}
			quote = q
			cur.WriteString(q)
			i += len(q) - 1
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
				cur.WriteByte(' ')
				continue
			}
		case ';':
			if depth == 0 {
				keep := indented
				flush()
				indented = keep
				continue
			}
		case '\r':
			continue
		case '\n':
			if depth == 0 {
				flush()
				lineHead = true
				continue
			}
		}
		cur.WriteByte(c)
	}
	flush()
	return stmts
}

var assignmentPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=([^=][\s\S]*)$`)

// parseAssignment splits `NAME = expr` into its parts. Augmented,
// annotated, tuple and subscript assignments are not recognized.
func parseAssignment(stmt string) (name, expr string, ok bool) {
	m := assignmentPattern.FindStringSubmatch(stmt)
	if m == nil {
		return "", "", false
	}
	expr = strings.TrimSpace(m[2])
	if expr == "" {
		return "", "", false
	}
	return m[1], expr, true
}
