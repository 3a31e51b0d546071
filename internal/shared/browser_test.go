package shared

import "testing"

func TestCourseLink(t *testing.T) {
	tc := []struct {
		name  string
		link  string
		title string
		want  string
	}{
		{name: "absolute https", link: "https://example.com/c/1", want: "https://example.com/c/1"},
		{name: "absolute http upper case", link: "HTTP://example.com", want: "HTTP://example.com"},
		{name: "missing scheme", link: "example.com/go", want: "https://example.com/go"},
		{name: "leading slashes", link: "//cdn.example.com/x", want: "https://cdn.example.com/x"},
		{name: "empty link uses title search", link: "", title: "Intro to Go", want: "https://www.youtube.com/results?search_query=Intro+to+Go"},
		{name: "empty link and title", link: " ", want: "https://www.youtube.com/results?search_query=course"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := CourseLink(tt.link, tt.title); got != tt.want {
				t.Errorf("CourseLink(%q, %q) = %q, want %q", tt.link, tt.title, got, tt.want)
			}
		})
	}
}

func TestOpenBrowserUnsupportedPlatform(t *testing.T) {
	original := getRuntime
	defer func() { getRuntime = original }()
	getRuntime = func() string { return "plan9" }

	if err := OpenBrowser("https://example.com"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}
