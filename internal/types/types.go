package types

import (
	"encoding/json"

	"github.com/shanehull/kapscraper/internal/ai"
)

// Kind distinguishes fund disclosures from company disclosures.
type Kind string

const (
	KindFund    Kind = "fund"
	KindCompany Kind = "company"
)

// Announcement is one normalized disclosure. Code is empty when the API
// supplied none and is written as null in JSON.
type Announcement struct {
	ID                string   `json:"announcement_id"`
	Kind              Kind     `json:"kind"`
	DateTime          string   `json:"date_time"`
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	Subject           string   `json:"subject"`
	Summary           string   `json:"summary"`
	RelatedEntities   []string `json:"related_entities"`
	HasAttachment     bool     `json:"has_attachment"`
	AttachmentCount   int      `json:"attachment_count"`
	DetailPDFURL      string   `json:"detail_pdf_url"`
	AttachmentPDFURLs []string `json:"attachment_pdf_urls"`
}

func (a Announcement) MarshalJSON() ([]byte, error) {
	type plain Announcement
	var code *string
	if a.Code != "" {
		code = &a.Code
	}
	return json.Marshal(struct {
		plain
		Code *string `json:"code"`
	}{plain(a), code})
}

type Match struct {
	Announcement
	KeywordsFound []string `json:"keywords_found"`
	CodeMatched   bool     `json:"code_matched"`
	// Context is a short excerpt explaining why the announcement matched.
	Context string `json:"context,omitempty"`
}

type AnnotatedMatch struct {
	Match    Match        `json:"match"`
	Analysis *ai.Analysis `json:"analysis,omitempty"`
}

// MarshalJSON writes the announcement fields and the match fields as one
// flat object. Without it the embedded Announcement's marshaler would be
// promoted and the match fields dropped.
func (m Match) MarshalJSON() ([]byte, error) {
	ann, err := json.Marshal(m.Announcement)
	if err != nil {
		return nil, err
	}
	extra, err := json.Marshal(struct {
		KeywordsFound []string `json:"keywords_found"`
		CodeMatched   bool     `json:"code_matched"`
		Context       string   `json:"context,omitempty"`
	}{m.KeywordsFound, m.CodeMatched, m.Context})
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(ann)+len(extra))
	out = append(out, ann[:len(ann)-1]...)
	out = append(out, ',')
	return append(out, extra[1:]...), nil
}
