package export

import (
	"strings"
	"testing"
	"time"

	"reeldoc/api/internal/store"
)

func sampleGuide() (store.Documentation, store.Video) {
	duration := 120
	doc := store.Documentation{
		ID:          "doc_1",
		VideoID:     "vid_1",
		WorkspaceID: "ws_1",
		Title:       "Onboarding Flow Guide",
		Format:      "step-by-step",
		UpdatedAt:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Content: []store.DocStep{
			{Step: 1, Title: "Step 1", Body: "Open the dashboard.", AtTime: 0},
			{Step: 2, Title: "Step 2", Body: "Click the upload button.", AtTime: 24},
			{Step: 3, Title: "Step 3", Body: "Review the generated guide.", AtTime: 92},
		},
	}
	video := store.Video{
		ID:          "vid_1",
		WorkspaceID: "ws_1",
		Title:       "Onboarding Flow",
		Duration:    &duration,
	}
	return doc, video
}

func TestRenderMarkdown(t *testing.T) {
	doc, video := sampleGuide()
	md := string(RenderMarkdown(doc, video))

	if !strings.HasPrefix(md, "# Onboarding Flow Guide") {
		t.Errorf("expected title heading, got %q", md[:40])
	}
	for _, want := range []string{
		"## 1. Step 1",
		"## 2. Step 2",
		"## 3. Step 3",
		"Open the dashboard.",
		"*At 0:24 in the video.*",
		"*At 1:32 in the video.*",
		"Video duration: 2:00",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownWithoutDuration(t *testing.T) {
	doc, video := sampleGuide()
	video.Duration = nil

	md := string(RenderMarkdown(doc, video))
	if strings.Contains(md, "Video duration") {
		t.Error("expected no duration line when duration is unknown")
	}
}

func TestRenderGuideHTML(t *testing.T) {
	doc, video := sampleGuide()

	html, err := RenderGuideHTML(doc, video, "Acme")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"<title>Onboarding Flow Guide</title>",
		"Acme",
		"Click the upload button.",
		"At 0:24 in the video",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:   "0:00",
		8:   "0:08",
		65:  "1:05",
		120: "2:00",
	}
	for in, want := range cases {
		if got := formatTimestamp(in); got != want {
			t.Errorf("formatTimestamp(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Onboarding Flow Guide", "Onboarding-Flow-Guide"},
		{"weird/chars?here", "weirdcharshere"},
		{"", "guide"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
