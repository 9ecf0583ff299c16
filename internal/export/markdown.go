package export

import (
	"fmt"
	"strings"

	"reeldoc/api/internal/store"
)

// RenderMarkdown turns a guide into a Markdown document. Each step becomes a
// numbered section with its timestamp in the source video.
func RenderMarkdown(doc store.Documentation, video store.Video) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	fmt.Fprintf(&b, "Generated from video: %s\n\n", video.Title)
	if video.Duration != nil {
		fmt.Fprintf(&b, "Video duration: %s\n\n", formatTimestamp(float64(*video.Duration)))
	}

	for _, step := range doc.Content {
		fmt.Fprintf(&b, "## %d. %s\n\n", step.Step, step.Title)
		fmt.Fprintf(&b, "%s\n\n", step.Body)
		fmt.Fprintf(&b, "*At %s in the video.*\n\n", formatTimestamp(step.AtTime))
	}

	return []byte(b.String())
}

func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// sanitizeFilename creates a safe filename from a title
func sanitizeFilename(title string) string {
	result := ""
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			result += string(r)
		case r == ' ':
			result += "-"
		case r == '-', r == '_':
			result += string(r)
		}
	}

	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "guide"
	}
	return result
}
