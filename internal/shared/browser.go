package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// CourseLink resolves the address opened for a course.
//
// A link without a scheme gets https:// prepended. An empty link falls back to a video search for the title.
func CourseLink(link, title string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		if title == "" {
			title = "course"
		}
		return "https://www.youtube.com/results?search_query=" + url.QueryEscape(title)
	}
	if schemeRe.MatchString(link) {
		return link
	}
	return "https://" + strings.TrimLeft(link, "/")
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
