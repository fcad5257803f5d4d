package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile appends rules from a file, one per line. "+ pat" includes,
// "- pat" excludes, a bare pattern excludes, and blank lines and #
// comments are ignored. Order in the file is rule order.
func (s *Set) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("filter file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var addErr error
		switch {
		case strings.HasPrefix(line, "+ "):
			addErr = s.Include(strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "- "):
			addErr = s.Exclude(strings.TrimSpace(line[2:]))
		default:
			addErr = s.Exclude(line)
		}
		if addErr != nil {
			return fmt.Errorf("%s:%d: %w", path, n, addErr)
		}
	}
	return sc.Err()
}
