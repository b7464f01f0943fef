package kap

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const downloadSegment = "/api/file/download/"

var (
	attachmentsLabel = regexp.MustCompile(`(?i)bildirim ekleri`)
	downloadPattern  = regexp.MustCompile(`/api/file/download/[a-zA-Z0-9]+`)
	// rawLinkPattern also captures an absolute origin or a language prefix
	// so the link resolves the same as its anchor form.
	rawLinkPattern = regexp.MustCompile(`(?:https?://[^\s"'<>]+?)?(?:/[A-Za-z]{2})?/api/file/download/[a-zA-Z0-9]+`)
)

// ResolveAttachmentURLs scrapes the detail page of an announcement for
// attachment download links. Links are absolute, deduplicated and in the
// order they were first found. No links is not an error.
func (c *Client) ResolveAttachmentURLs(ctx context.Context, id string) ([]string, error) {
	pageURL := c.DetailPageURL(id)
	body, err := c.do(ctx, "detail page", http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	hrefs := append(structuralLinks(doc), anchorLinks(doc)...)
	if len(hrefs) == 0 {
		hrefs = rawTextLinks(string(body))
	}

	urls := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		u, err := c.resolve(href)
		if err != nil {
			log.Printf("Warning: Skipping attachment link for %s: %v", id, err)
			continue
		}
		urls = append(urls, u)
	}
	urls = uniqStrings(urls)

	if len(urls) == 0 {
		log.Printf("No attachment found for announcement %s", id)
	} else {
		log.Printf("Found %d attachment URL(s) for announcement %s", len(urls), id)
	}
	return urls, nil
}

// structuralLinks finds the "Bildirim Ekleri" label and walks up its
// ancestors until one of them contains download links.
func structuralLinks(doc *goquery.Document) []string {
	label := findTextNode(doc.Get(0), attachmentsLabel)
	if label == nil || label.Parent == nil {
		return nil
	}

	for s := doc.FindNodes(label.Parent); s.Length() > 0; s = s.Parent() {
		var links []string
		s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if strings.Contains(href, downloadSegment) {
				links = append(links, href)
			}
		})
		if len(links) > 0 {
			return links
		}
	}
	return nil
}

// anchorLinks collects every anchor in the document whose target is a download link.
func anchorLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if downloadPattern.MatchString(href) {
			links = append(links, href)
		}
	})
	return links
}

// rawTextLinks ignores the DOM and matches download paths anywhere in the
// body, including inline scripts.
func rawTextLinks(body string) []string {
	return rawLinkPattern.FindAllString(body, -1)
}

func findTextNode(n *html.Node, re *regexp.Regexp) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.TextNode && re.MatchString(n.Data) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTextNode(c, re); found != nil {
			return found
		}
	}
	return nil
}

func uniqStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
