/*
Package annotate attaches optional AI analysis to matched announcements.
*/
package annotate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/shanehull/kapscraper/internal/ai"
	"github.com/shanehull/kapscraper/internal/types"
)

const DefaultConcurrency = 4

// Summarizer produces an analysis for one disclosure. documentURLs holds the
// detail PDF followed by any attachment links.
type Summarizer func(ctx context.Context, code, text string, documentURLs []string) (*ai.Analysis, error)

// Gemini returns a Summarizer backed by ai.GenerateSummary, or nil when no
// API key is configured.
func Gemini(apiKey, modelName string) Summarizer {
	if apiKey == "" {
		return nil
	}
	return func(ctx context.Context, code, text string, documentURLs []string) (*ai.Analysis, error) {
		return ai.GenerateSummary(ctx, code, text, documentURLs, apiKey, modelName)
	}
}

// Annotate runs summarize over every match with at most concurrency calls in
// flight. Results keep the input order. A failed summary leaves Analysis nil.
func Annotate(ctx context.Context, matches []types.Match, summarize Summarizer, concurrency int) []types.AnnotatedMatch {
	annotated := make([]types.AnnotatedMatch, len(matches))
	for i, m := range matches {
		annotated[i].Match = m
	}
	if summarize == nil || len(matches) == 0 {
		return annotated
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	total := len(matches)
	processedCount := 0
	var processedMutex sync.Mutex

	for i := range matches {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			m := matches[i]

			processedMutex.Lock()
			processedCount++
			log.Printf("Summarizing... %d/%d (%s)", processedCount, total, label(m.Announcement))
			processedMutex.Unlock()

			analysis, err := summarize(ctx, m.Code, disclosureText(m), documentURLs(m.Announcement))
			if err != nil {
				log.Printf("Warning: AI summary failed for %s: %v", label(m.Announcement), err)
				return
			}
			annotated[i].Analysis = analysis
		}(i)
	}

	wg.Wait()
	log.Printf("Done summarizing")

	return annotated
}

func label(ann types.Announcement) string {
	if ann.Code != "" {
		return ann.Code
	}
	return ann.ID
}

func disclosureText(m types.Match) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n", m.Name, m.Subject)
	if m.Summary != "" {
		sb.WriteString(m.Summary + "\n")
	}
	if len(m.RelatedEntities) > 0 {
		fmt.Fprintf(&sb, "Related: %s\n", strings.Join(m.RelatedEntities, ", "))
	}
	if m.Context != "" {
		fmt.Fprintf(&sb, "Matched on: %s\n", m.Context)
	}
	return sb.String()
}

func documentURLs(ann types.Announcement) []string {
	urls := make([]string, 0, 1+len(ann.AttachmentPDFURLs))
	if ann.DetailPDFURL != "" {
		urls = append(urls, ann.DetailPDFURL)
	}
	return append(urls, ann.AttachmentPDFURLs...)
}
