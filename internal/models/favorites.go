package models

import "slices"

// FavoriteSet is an ordered collection of course snapshots with at most one entry per code.
// The zero value is ready to use.
type FavoriteSet struct {
	courses []Course
}

// NewFavoriteSet builds a set from courses, keeping the first occurrence of each code.
func NewFavoriteSet(courses []Course) *FavoriteSet {
	s := &FavoriteSet{}
	for _, c := range courses {
		s.Add(c)
	}
	return s
}

// Add appends a snapshot of c. It returns false and leaves the set unchanged when the code is
// already present.
func (s *FavoriteSet) Add(c Course) bool {
	if s.Has(c.Code) {
		return false
	}
	s.courses = append(s.courses, c.Clone())
	return true
}

// Remove drops the entry with code and reports whether one was present.
func (s *FavoriteSet) Remove(code int) bool {
	idx := s.index(code)
	if idx < 0 {
		return false
	}
	s.courses = slices.Delete(s.courses, idx, idx+1)
	return true
}

func (s *FavoriteSet) Has(code int) bool {
	return s.index(code) >= 0
}

func (s *FavoriteSet) Len() int {
	return len(s.courses)
}

// Courses returns copies of the entries in insertion order.
func (s *FavoriteSet) Courses() []Course {
	out := make([]Course, len(s.courses))
	for i, c := range s.courses {
		out[i] = c.Clone()
	}
	return out
}

// Codes returns the codes in insertion order.
func (s *FavoriteSet) Codes() []int {
	codes := make([]int, len(s.courses))
	for i, c := range s.courses {
		codes[i] = c.Code
	}
	return codes
}

// Replace swaps the contents for courses, deduplicated by code.
func (s *FavoriteSet) Replace(courses []Course) {
	s.courses = nil
	for _, c := range courses {
		s.Add(c)
	}
}

func (s *FavoriteSet) index(code int) int {
	return slices.IndexFunc(s.courses, func(c Course) bool { return c.Code == code })
}
