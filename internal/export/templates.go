package export

import (
	"bytes"
	"html/template"
	"time"

	"reeldoc/api/internal/store"
)

// TemplateData holds data for guide template rendering
type TemplateData struct {
	Title         string
	VideoTitle    string
	WorkspaceName string
	UpdatedAt     time.Time
	Steps         []TemplateStep
}

// TemplateStep holds one guide step for the template
type TemplateStep struct {
	Number    int
	Title     string
	Body      string
	Timestamp string
}

var guideTemplate = template.Must(template.New("guide").Parse(guideTemplateHTML))

// RenderGuideHTML renders the printable HTML used for PDF export.
func RenderGuideHTML(doc store.Documentation, video store.Video, workspaceName string) (string, error) {
	data := TemplateData{
		Title:         doc.Title,
		VideoTitle:    video.Title,
		WorkspaceName: workspaceName,
		UpdatedAt:     doc.UpdatedAt,
	}
	for _, step := range doc.Content {
		data.Steps = append(data.Steps, TemplateStep{
			Number:    step.Step,
			Title:     step.Title,
			Body:      step.Body,
			Timestamp: formatTimestamp(step.AtTime),
		})
	}

	var buf bytes.Buffer
	if err := guideTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const guideTemplateHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    .step { margin: 1.5rem 0; }
    .step h2 { margin-bottom: 0.25rem; }
    .timestamp { color: #888; font-size: 0.85em; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">{{.WorkspaceName}} | from video "{{.VideoTitle}}" | {{.UpdatedAt.Format "Jan 2, 2006"}}</div>
  {{range .Steps}}
  <div class="step">
    <h2>{{.Number}}. {{.Title}}</h2>
    <p>{{.Body}}</p>
    <p class="timestamp">At {{.Timestamp}} in the video</p>
  </div>
  {{end}}
</body>
</html>`
