package kap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/shanehull/kapscraper/internal/types"
)

// ErrMissingIdentifier marks an item without a usable disclosureIndex.
var ErrMissingIdentifier = errors.New("missing disclosureIndex")

// RawItem is one object of a search response, decoded with json.Number.
type RawItem map[string]any

// itemExtractor fills the fields that differ between fund and company items.
type itemExtractor func(item RawItem, ann *types.Announcement) error

// NormalizeFund maps a fund search item to an Announcement.
func (c *Client) NormalizeFund(ctx context.Context, item RawItem, fetchAttachments bool) (*types.Announcement, error) {
	return c.normalize(ctx, item, fundEndpoint, fetchAttachments)
}

// NormalizeCompany maps a company search item to an Announcement.
func (c *Client) NormalizeCompany(ctx context.Context, item RawItem, fetchAttachments bool) (*types.Announcement, error) {
	return c.normalize(ctx, item, companyEndpoint, fetchAttachments)
}

func (c *Client) normalize(ctx context.Context, item RawItem, ep endpoint, fetchAttachments bool) (*types.Announcement, error) {
	id := disclosureID(item["disclosureIndex"])
	if id == "" {
		return nil, ErrMissingIdentifier
	}

	count, err := attachmentCount(item["attachmentCount"])
	if err != nil {
		return nil, fmt.Errorf("announcement %s: %w", id, err)
	}

	ann := &types.Announcement{
		ID:                id,
		Kind:              ep.kind,
		DateTime:          stringField(item["publishDate"]),
		Name:              stringField(item["kapTitle"]),
		Subject:           stringField(item["subject"]),
		Summary:           stringField(item["summary"]),
		RelatedEntities:   relatedEntities(item["relatedStocks"]),
		HasAttachment:     count > 0,
		AttachmentCount:   count,
		DetailPDFURL:      c.DetailPDFURL(id),
		AttachmentPDFURLs: []string{},
	}

	if err := ep.extract(item, ann); err != nil {
		return nil, fmt.Errorf("announcement %s: %w", id, err)
	}

	if ann.HasAttachment && fetchAttachments {
		urls, err := c.ResolveAttachmentURLs(ctx, id)
		if err != nil {
			log.Printf("Error fetching attachment URLs for %s: %v", id, err)
		} else {
			ann.AttachmentPDFURLs = urls
		}
	}

	return ann, nil
}

func extractFund(item RawItem, ann *types.Announcement) error {
	ann.Code = stringField(item["fundCode"])
	return nil
}

// extractCompany keeps only the first of the comma separated stock codes.
func extractCompany(item RawItem, ann *types.Announcement) error {
	switch v := item["stockCodes"].(type) {
	case nil:
	case string:
		code, _, _ := strings.Cut(v, ",")
		ann.Code = strings.TrimSpace(code)
	default:
		if truthy(v) {
			ann.Code = stringField(v)
		}
	}
	return nil
}

// disclosureID returns "" for absent or falsy identifiers.
func disclosureID(v any) string {
	if !truthy(v) {
		return ""
	}
	return stringField(v)
}

func attachmentCount(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid attachmentCount %q: %w", n, err)
		}
		return int(math.Trunc(f)), nil
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("invalid attachmentCount of type %T", v)
	}
}

// relatedEntities passes lists through in order; a bare string becomes a
// singleton. Empty values and any other shape become an empty list.
func relatedEntities(v any) []string {
	switch r := v.(type) {
	case string:
		if r == "" {
			return []string{}
		}
		return []string{r}
	case []string:
		return append([]string{}, r...)
	case []any:
		out := make([]string, 0, len(r))
		for _, e := range r {
			out = append(out, stringField(e))
		}
		return out
	default:
		return []string{}
	}
}

func stringField(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprint(s)
	default:
		return fmt.Sprint(s)
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
