package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMatch(t *testing.T) {
	t.Parallel()
	tests := []struct {
		glob  string
		rel   string
		isDir bool
		want  bool
	}{
		// floating patterns match at any depth
		{"*.log", "a.log", false, true},
		{"*.log", "deep/nested/a.log", false, true},
		{"*.log", "a.logx", false, false},
		{"*.log", "a.log/inner", false, false},

		// a slash anchors at the root
		{"build/cache", "build/cache", true, true},
		{"build/cache", "x/build/cache", true, false},
		{"/top.txt", "top.txt", false, true},
		{"/top.txt", "sub/top.txt", false, false},

		// trailing slash restricts to directories
		{"logs/", "logs", true, true},
		{"logs/", "sub/logs", true, true},
		{"logs/", "logs", false, false},

		// ** crosses directory boundaries, * does not
		{"**/*.tmp", "a.tmp", false, true},
		{"**/*.tmp", "x/y/a.tmp", false, true},
		{"a/**/b.txt", "a/b.txt", false, true},
		{"a/**/b.txt", "a/x/y/b.txt", false, true},
		{"a/**/b.txt", "c/a/b.txt", false, false},
		{"a/*/b.txt", "a/x/b.txt", false, true},
		{"a/*/b.txt", "a/x/y/b.txt", false, false},

		// ? is exactly one byte, never a slash
		{"file?.txt", "file1.txt", false, true},
		{"file?.txt", "file10.txt", false, false},
		{"file?.txt", "sub/fileX.txt", false, true},

		// character classes, with ! negation
		{"[abc]*.go", "api.go", false, true},
		{"[abc]*.go", "zz.go", false, false},
		{"[!0-9]*", "xfile", false, true},
		{"[!0-9]*", "9file", false, false},
		{"report[0-9].txt", "report5.txt", false, true},
		{"report[0-9].txt", "reportX.txt", false, false},

		// an unclosed bracket is a literal
		{"weird[name", "weird[name", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.glob+" vs "+tt.rel, func(t *testing.T) {
			p, err := compile(tt.glob)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.match(tt.rel, tt.isDir))
		})
	}
}

func TestCompileRejectsBadClass(t *testing.T) {
	t.Parallel()
	_, err := compile("[z-a]")
	assert.Error(t, err)
}

func TestClassEnd(t *testing.T) {
	t.Parallel()
	// a closer right after the opener is a member, not the end
	assert.Equal(t, 2, classEnd("[]]", 0))
	assert.Equal(t, 3, classEnd("[!]]", 0))
	assert.Equal(t, 4, classEnd("[abc]", 0))
	assert.Equal(t, 0, classEnd("[abc", 0))
}
