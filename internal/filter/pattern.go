package filter

import (
	"regexp"
	"strings"
)

// pattern is one compiled glob. Rsync conventions: a trailing slash
// matches directories only; a pattern containing a slash anchors at the
// root, anything else floats and matches at any depth.
type pattern struct {
	re      *regexp.Regexp
	source  string
	dirOnly bool
}

func compile(glob string) (*pattern, error) {
	p := &pattern{source: glob}

	if strings.HasSuffix(glob, "/") {
		p.dirOnly = true
		glob = strings.TrimSuffix(glob, "/")
	}
	anchored := strings.Contains(glob, "/")
	glob = strings.TrimPrefix(glob, "/")

	expr := translateGlob(glob)
	if anchored {
		expr = "^" + expr + "$"
	} else {
		expr = "(^|/)" + expr + "$"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	p.re = re
	return p, nil
}

func (p *pattern) match(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	return p.re.MatchString(rel)
}

// translateGlob rewrites a glob into a regular expression: * stops at
// slashes, ** does not, ? is any single non-slash byte, [...] passes
// through as a class with ! negation.
func translateGlob(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); {
		switch c := glob[i]; c {
		case '*':
			if strings.HasPrefix(glob[i:], "**/") {
				b.WriteString("(.*/)?")
				i += 3
			} else if strings.HasPrefix(glob[i:], "**") {
				b.WriteString(".*")
				i += 2
			} else {
				b.WriteString("[^/]*")
				i++
			}
		case '?':
			b.WriteString("[^/]")
			i++
		case '[':
			if end := classEnd(glob, i); end > 0 {
				cls := glob[i+1 : end]
				if strings.HasPrefix(cls, "!") {
					cls = "^" + cls[1:]
				}
				b.WriteString("[" + cls + "]")
				i = end + 1
			} else {
				b.WriteString(regexp.QuoteMeta("["))
				i++
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String()
}

// classEnd finds the closing bracket of a character class opened at i, or
// zero when the class never closes. A ] right after the opener (or after
// !) is a literal member, not the closer.
func classEnd(glob string, i int) int {
	j := i + 1
	if j < len(glob) && glob[j] == '!' {
		j++
	}
	if j < len(glob) && glob[j] == ']' {
		j++
	}
	for j < len(glob) && glob[j] != ']' {
		j++
	}
	if j >= len(glob) {
		return 0
	}
	return j
}
