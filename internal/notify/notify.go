/*
Package notify handles reporting of matches via console output and email notifications.
*/
package notify

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/shanehull/kapscraper/internal/ai"
	"github.com/shanehull/kapscraper/internal/types"
)

// NotificationData is what a renderer needs for one message.
type NotificationData struct {
	Match    types.Match
	Analysis *ai.Analysis
}

type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

type Renderer interface {
	Render(data NotificationData) (*RenderedMessage, error)
}

type Sender interface {
	Send(msg *RenderedMessage) error
}

func formatKeyPoints(points []ai.Observation) string {
	if len(points) == 0 {
		return "N/A"
	}
	var sb strings.Builder
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("\t- [%s] %s\n", p.Category, p.Details))
	}
	return sb.String()
}

func formatBulletList(points []string) string {
	if len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("\t- %s\n", p))
	}
	return sb.String()
}

// ReportMatches prints every match to w.
func ReportMatches(w io.Writer, matches []types.AnnotatedMatch, historyFilePath string) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "\n-------------------------------------------")
		fmt.Fprintln(w, "No new matching announcements found.")
		fmt.Fprintln(w, "-------------------------------------------")
		return
	}

	fmt.Fprintln(w, "\n===========================================")
	fmt.Fprintf(w, "✅ %d MATCHES FOUND\n", len(matches))
	fmt.Fprintln(w, "===========================================")

	for i, am := range matches {
		match := am.Match

		aiSummaryOutput := ""
		keyPointOutput := ""

		if am.Analysis != nil {
			if len(am.Analysis.Summary) > 0 {
				aiSummaryOutput = fmt.Sprintf("AI Summary:\n%s", formatBulletList(am.Analysis.Summary))
			}
			if len(am.Analysis.KeyPoints) > 0 {
				keyPointOutput = fmt.Sprintf("Key Points:\n%s", formatKeyPoints(am.Analysis.KeyPoints))
			}
		}

		consoleOutput := fmt.Sprintf("\n--- MATCH #%d ---\n", i+1) +
			fmt.Sprintf("ID:      %s (%s)\n", match.ID, match.Kind) +
			fmt.Sprintf("Code:    %s\n", match.Code) +
			fmt.Sprintf("Name:    %s\n", match.Name) +
			fmt.Sprintf("Subject: %s\n", match.Subject) +
			fmt.Sprintf("Date:    %s\n", match.DateTime) +
			fmt.Sprintf("Summary: %s\n", match.Summary) +
			fmt.Sprintf("PDF:     %s\n", match.DetailPDFURL) +
			formatAttachments(match.Announcement) +
			formatMatchReason(match) +
			formatContext(match.Context) +
			aiSummaryOutput +
			keyPointOutput

		fmt.Fprint(w, consoleOutput)
	}

	fmt.Fprintln(w, "\n===========================================")
	if historyFilePath != "" {
		fmt.Fprintf(w, "Search complete. History saved to %s.\n", historyFilePath)
	} else {
		fmt.Fprintln(w, "Search complete.")
	}
	fmt.Fprintln(w, "===========================================")
}

func formatAttachments(ann types.Announcement) string {
	if !ann.HasAttachment {
		return ""
	}
	if len(ann.AttachmentPDFURLs) == 0 {
		return fmt.Sprintf("Attachments: %d (not resolved)\n", ann.AttachmentCount)
	}
	return fmt.Sprintf("Attachments: %d\n%s", ann.AttachmentCount, formatBulletList(ann.AttachmentPDFURLs))
}

func formatContext(ctx string) string {
	if ctx == "" {
		return ""
	}
	return fmt.Sprintf("Context: %s\n", ctx)
}

func formatMatchReason(m types.Match) string {
	var reasons []string
	if len(m.KeywordsFound) > 0 {
		reasons = append(reasons, "keywords: "+strings.Join(m.KeywordsFound, ", "))
	}
	if m.CodeMatched {
		reasons = append(reasons, "code watchlist")
	}
	if len(reasons) == 0 {
		return ""
	}
	return fmt.Sprintf("Matched: %s\n", strings.Join(reasons, "; "))
}

// EmailMatches renders and sends one message per match. Failures are logged
// and do not stop the remaining messages.
func EmailMatches(matches []types.AnnotatedMatch, renderer Renderer, sender Sender) int {
	sent := 0
	for _, am := range matches {
		msg, err := renderer.Render(NotificationData{Match: am.Match, Analysis: am.Analysis})
		if err != nil {
			log.Printf("Error rendering email for %s: %v", am.Match.ID, err)
			continue
		}
		if err := sender.Send(msg); err != nil {
			continue
		}
		sent++
	}
	return sent
}
