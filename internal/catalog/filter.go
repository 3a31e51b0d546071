// Package catalog derives the visible course list from the fetched catalog and the filter the
// user has set.
//
// [ComputeVisible] is a pure function of its inputs: it never mutates the course slice and
// holds no state between calls. The pipeline order is fixed: tag filter, then query filter,
// then sort.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/shared"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllTag is the sentinel that disables the tag filter.
const AllTag = "All"

// MaxVocabularyTags bounds the quick-filter chips after the [AllTag] sentinel.
const MaxVocabularyTags = 10

type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortTitle      SortKey = "title"
	SortInstructor SortKey = "instructor"
)

var SortKeys = []SortKey{SortRelevance, SortTitle, SortInstructor}

// ParseSortKey accepts a sort key case-insensitively; blank means relevance.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortRelevance, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown sort %q (want relevance, title or instructor)", shared.ErrInvalidArgument, s)
}

// Next cycles relevance -> title -> instructor -> relevance.
func (k SortKey) Next() SortKey {
	idx := slices.Index(SortKeys, k)
	return SortKeys[(idx+1)%len(SortKeys)]
}

// FilterState is the user's current filter. Use [NewFilterState] for the reset state.
type FilterState struct {
	Query     string
	ActiveTag string
	Sort      SortKey
}

func NewFilterState() FilterState {
	return FilterState{ActiveTag: AllTag, Sort: SortRelevance}
}

// Clear resets every field.
func (f *FilterState) Clear() {
	*f = NewFilterState()
}

// IsActive reports whether the filter differs from the reset state.
func (f FilterState) IsActive() bool {
	return f.normalized() != NewFilterState()
}

// SelectTag applies a quick-filter chip. A real tag also becomes the "#tag" query; [AllTag]
// only clears the tag filter.
func (f *FilterState) SelectTag(tag string) {
	f.ActiveTag = tag
	if tag != AllTag && tag != "" {
		f.Query = "#" + tag
	}
}

func (f FilterState) normalized() FilterState {
	if f.ActiveTag == "" {
		f.ActiveTag = AllTag
	}
	if f.Sort == "" {
		f.Sort = SortRelevance
	}
	return f
}

// ComputeVisible returns the courses that pass filter, ordered by filter.Sort. The result is
// a new slice; courses is left untouched.
func ComputeVisible(courses []models.Course, filter FilterState) []models.Course {
	filter = filter.normalized()

	visible := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if filter.ActiveTag != AllTag && !c.HasTag(filter.ActiveTag) {
			continue
		}
		if !matchesQuery(c, filter.Query) {
			continue
		}
		visible = append(visible, c)
	}

	switch filter.Sort {
	case SortTitle:
		sortBy(visible, func(c models.Course) string { return c.Title })
	case SortInstructor:
		sortBy(visible, models.Course.InstructorName)
	}
	return visible
}

// matchesQuery treats "#x" as a case-insensitive tag substring match and anything else as a
// case-insensitive substring of title, description or instructor.
func matchesQuery(c models.Course, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}

	if tag, ok := strings.CutPrefix(query, "#"); ok {
		tag = strings.ToLower(tag)
		return slices.ContainsFunc(c.Tags, func(t string) bool {
			return strings.Contains(strings.ToLower(t), tag)
		})
	}

	needle := strings.ToLower(query)
	for _, field := range []string{c.Title, c.Description, c.InstructorName()} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// sortBy orders courses by key with a locale-aware collator. Ties keep their input order.
func sortBy(courses []models.Course, key func(models.Course) string) {
	col := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(courses, func(a, b models.Course) int {
		return col.CompareString(key(a), key(b))
	})
}

// TagVocabulary returns [AllTag] followed by the first [MaxVocabularyTags] distinct tags in
// first-seen order.
func TagVocabulary(courses []models.Course) []string {
	vocab := []string{AllTag}
	seen := map[string]bool{}
	for _, c := range courses {
		for _, t := range c.Tags {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			vocab = append(vocab, t)
			if len(vocab) == MaxVocabularyTags+1 {
				return vocab
			}
		}
	}
	return vocab
}
