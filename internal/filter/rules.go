// Package filter decides which entries a run touches. Rules are ordered
// and the first matching rule wins; a path no rule claims is included.
// Paths excluded here are invisible in both directions: they are neither
// copied nor purged.
package filter

import "path/filepath"

// Set is an ordered rule list plus size bounds. The zero value includes
// everything.
type Set struct {
	rules   []rule
	minSize int64
	maxSize int64
}

type rule struct {
	pat     *pattern
	include bool
}

func New() *Set {
	return &Set{}
}

// Exclude appends an exclusion for an rsync-style glob.
func (s *Set) Exclude(glob string) error {
	return s.add(glob, false)
}

// Include appends an inclusion. Listed before a broader exclusion it
// carves an exception out of it.
func (s *Set) Include(glob string) error {
	return s.add(glob, true)
}

func (s *Set) add(glob string, include bool) error {
	p, err := compile(glob)
	if err != nil {
		return err
	}
	s.rules = append(s.rules, rule{pat: p, include: include})
	return nil
}

// MinSize drops regular files smaller than n bytes.
func (s *Set) MinSize(n int64) { s.minSize = n }

// MaxSize drops regular files larger than n bytes.
func (s *Set) MaxSize(n int64) { s.maxSize = n }

// Empty reports whether the set constrains anything at all.
func (s *Set) Empty() bool {
	return len(s.rules) == 0 && s.minSize == 0 && s.maxSize == 0
}

// Match reports whether rel should be touched. Rel may use the native
// separator; size bounds apply to regular files only; rule order decides
// ties.
func (s *Set) Match(rel string, isDir bool, size int64) bool {
	if !isDir {
		if s.minSize > 0 && size < s.minSize {
			return false
		}
		if s.maxSize > 0 && size > s.maxSize {
			return false
		}
	}
	rel = filepath.ToSlash(rel)
	for _, r := range s.rules {
		if r.pat.match(rel, isDir) {
			return r.include
		}
	}
	return true
}
