/*
Package match selects the announcements worth reporting by keyword and by
fund or company code.
*/
package match

import (
	"fmt"
	"strings"

	"github.com/shanehull/kapscraper/internal/types"
)

// Filter returns the announcements that contain at least one keyword or
// whose code (or one of its related entities) is in codes. With no keywords
// and no codes every announcement matches. Order is preserved.
func Filter(announcements []types.Announcement, keywords []string, codes []string) []types.Match {
	codeSet := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		codeSet[strings.ToUpper(c)] = struct{}{}
	}

	matchAll := len(keywords) == 0 && len(codeSet) == 0

	var matches []types.Match
	for _, ann := range announcements {
		found := findKeywords(ann, keywords)
		codeMatch := isCodeMatch(ann, codeSet)

		if !matchAll && len(found) == 0 && !codeMatch {
			continue
		}

		matches = append(matches, types.Match{
			Announcement:  ann,
			KeywordsFound: found,
			CodeMatched:   codeMatch,
			Context:       buildContext(ann, found, codeMatch),
		})
	}
	return matches
}

// ParseList splits a comma separated flag value, trimming and lower-casing
// each entry and dropping empty ones.
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isCodeMatch(ann types.Announcement, codes map[string]struct{}) bool {
	if len(codes) == 0 {
		return false
	}
	if _, ok := codes[strings.ToUpper(ann.Code)]; ok && ann.Code != "" {
		return true
	}
	for _, r := range ann.RelatedEntities {
		if _, ok := codes[strings.ToUpper(strings.TrimSpace(r))]; ok {
			return true
		}
	}
	return false
}

func findKeywords(ann types.Announcement, keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}

	text := lower(ann.Name + "\n" + ann.Subject + "\n" + ann.Summary)

	var found []string
	for _, kw := range keywords {
		if strings.Contains(text, lower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

// lower folds case with the Turkish dotted and dotless i mapped to plain i,
// so "İHALE", "ihale" and "IHALE" compare equal.
func lower(s string) string {
	return strings.NewReplacer("İ", "i", "I", "i", "ı", "i").Replace(strings.ToLower(s))
}

func buildContext(ann types.Announcement, found []string, codeMatch bool) string {
	if len(found) > 0 {
		keyword := lower(found[0])
		if strings.Contains(lower(ann.Subject), keyword) {
			return ann.Subject + " (Match found in subject)"
		}
		if snippet := getSnippet(ann.Summary, keyword); snippet != "" {
			return snippet
		}
		return ann.Name + " (Match found in name)"
	}
	if codeMatch {
		label := ann.Code
		if label == "" {
			label = strings.Join(ann.RelatedEntities, ", ")
		}
		return fmt.Sprintf("Match found based on code %s only.", label)
	}
	return ""
}

// getSnippet returns up to contextSize runes either side of the first
// occurrence of keyword in text.
func getSnippet(text string, keyword string) string {
	const contextSize = 50

	runes := []rune(text)
	folded := []rune(lower(text))
	kw := []rune(keyword)

	// lower maps each rune to exactly one rune, so indexes line up.
	if len(folded) != len(runes) {
		return ""
	}

	index := runeIndex(folded, kw)
	if index == -1 {
		return ""
	}

	start := max(index-contextSize, 0)
	end := min(index+len(kw)+contextSize, len(runes))

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "... " + snippet
	}
	if end < len(runes) {
		snippet = snippet + " ..."
	}

	return strings.ReplaceAll(snippet, "\n", " ")
}

func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return i
		}
	}
	return -1
}
