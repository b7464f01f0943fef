package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// HTMLEmailRenderer renders notifications as HTML emails with a plain text fallback.
type HTMLEmailRenderer struct {
	tmpl *template.Template
}

// NewHTMLEmailRenderer creates a renderer with the default email template.
func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	t := template.Must(template.New("email").Parse(emailHTMLTemplate))
	return &HTMLEmailRenderer{tmpl: t}
}

// Render produces an HTML email with plain text alternative.
func (r *HTMLEmailRenderer) Render(data NotificationData) (*RenderedMessage, error) {
	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: renderSubject(data),
		Text:    renderPlainText(data),
		HTML:    htmlBuf.String(),
	}, nil
}

func renderSubject(data NotificationData) string {
	m := data.Match
	label := m.Code
	if label == "" {
		label = m.Name
	}
	return fmt.Sprintf("KAP Alert: %s - %s", label, m.Subject)
}

// renderPlainText produces a readable plain text version for email clients that don't support HTML.
func renderPlainText(data NotificationData) string {
	m := data.Match
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s - %s\n", m.Code, m.Name))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString(fmt.Sprintf("Subject: %s\n", m.Subject))
	sb.WriteString(fmt.Sprintf("Date: %s\n", m.DateTime))
	sb.WriteString(fmt.Sprintf("PDF: %s\n", m.DetailPDFURL))

	for i, u := range m.AttachmentPDFURLs {
		sb.WriteString(fmt.Sprintf("Attachment %d: %s\n", i+1, u))
	}

	if len(m.RelatedEntities) > 0 {
		sb.WriteString(fmt.Sprintf("Related: %s\n", strings.Join(m.RelatedEntities, ", ")))
	}
	if len(m.KeywordsFound) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(m.KeywordsFound, ", ")))
	}
	sb.WriteString("\n")

	if m.Summary != "" {
		sb.WriteString("SUMMARY\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		sb.WriteString(m.Summary + "\n\n")
	}

	if data.Analysis != nil {
		if len(data.Analysis.Summary) > 0 {
			sb.WriteString("AI SUMMARY\n")
			sb.WriteString(strings.Repeat("-", 20) + "\n")
			for _, s := range data.Analysis.Summary {
				sb.WriteString(fmt.Sprintf("• %s\n", s))
			}
			sb.WriteString("\n")
		}

		if len(data.Analysis.KeyPoints) > 0 {
			sb.WriteString("KEY POINTS\n")
			sb.WriteString(strings.Repeat("-", 20) + "\n")
			for _, p := range data.Analysis.KeyPoints {
				sb.WriteString(fmt.Sprintf("• [%s] %s\n", p.Category, p.Details))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
