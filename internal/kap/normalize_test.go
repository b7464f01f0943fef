package kap

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/kapscraper/internal/types"
)

// rawItem decodes a JSON object the same way search responses are decoded.
func rawItem(t *testing.T, s string) RawItem {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var item map[string]any
	require.NoError(t, dec.Decode(&item))
	return RawItem(item)
}

func TestNormalizeFund(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")
	item := rawItem(t, `{
		"publishDate": "05.12.2025 22:17:35",
		"fundCode": "PDF",
		"kapTitle": "TEST FUND",
		"summary": "Test summary",
		"subject": "Test subject",
		"disclosureIndex": 1524023,
		"relatedStocks": null,
		"attachmentCount": 0
	}`)

	ann, err := c.NormalizeFund(context.Background(), item, true)
	require.NoError(t, err)

	assert.Equal(t, "1524023", ann.ID)
	assert.Equal(t, types.KindFund, ann.Kind)
	assert.Equal(t, "05.12.2025 22:17:35", ann.DateTime)
	assert.Equal(t, "PDF", ann.Code)
	assert.Equal(t, "TEST FUND", ann.Name)
	assert.Equal(t, "Test subject", ann.Subject)
	assert.Equal(t, "Test summary", ann.Summary)
	assert.Equal(t, []string{}, ann.RelatedEntities)
	assert.False(t, ann.HasAttachment)
	assert.Equal(t, 0, ann.AttachmentCount)
	assert.Equal(t, "https://www.kap.org.tr/tr/api/BildirimPdf/1524023", ann.DetailPDFURL)
	assert.NotNil(t, ann.AttachmentPDFURLs)
	assert.Empty(t, ann.AttachmentPDFURLs)
}

func TestNormalizeCompany(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")
	item := rawItem(t, `{
		"publishDate": "06.12.2025 14:29:07",
		"kapTitle": "TEST COMPANY A.Ş.",
		"stockCodes": "TEST",
		"summary": "Test summary",
		"subject": "Test subject",
		"disclosureIndex": 1524033,
		"relatedStocks": null,
		"attachmentCount": 0
	}`)

	ann, err := c.NormalizeCompany(context.Background(), item, false)
	require.NoError(t, err)

	assert.Equal(t, "1524033", ann.ID)
	assert.Equal(t, types.KindCompany, ann.Kind)
	assert.Equal(t, "TEST", ann.Code)
	assert.Equal(t, "TEST COMPANY A.Ş.", ann.Name)
	assert.False(t, ann.HasAttachment)
}

func TestNormalizeMissingIdentifier(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")

	for _, s := range []string{
		`{"fundCode": "PDF"}`,
		`{"disclosureIndex": null}`,
		`{"disclosureIndex": 0}`,
		`{"disclosureIndex": ""}`,
	} {
		_, err := c.NormalizeFund(context.Background(), rawItem(t, s), false)
		assert.ErrorIs(t, err, ErrMissingIdentifier, s)
	}
}

func TestNormalizeDetailPDFURLDependsOnlyOnID(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")

	a, err := c.NormalizeFund(context.Background(), rawItem(t, `{"disclosureIndex": 42, "fundCode": "A"}`), false)
	require.NoError(t, err)
	b, err := c.NormalizeCompany(context.Background(), rawItem(t, `{"disclosureIndex": "42", "stockCodes": "B"}`), false)
	require.NoError(t, err)

	assert.Equal(t, "https://www.kap.org.tr/tr/api/BildirimPdf/42", a.DetailPDFURL)
	assert.Equal(t, a.DetailPDFURL, b.DetailPDFURL)
}

func TestNormalizeAttachmentCount(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")

	tests := []struct {
		name      string
		item      string
		wantCount int
		wantHas   bool
	}{
		{"absent", `{"disclosureIndex": 1}`, 0, false},
		{"null", `{"disclosureIndex": 1, "attachmentCount": null}`, 0, false},
		{"zero", `{"disclosureIndex": 1, "attachmentCount": 0}`, 0, false},
		{"two", `{"disclosureIndex": 1, "attachmentCount": 2}`, 2, true},
		{"float", `{"disclosureIndex": 1, "attachmentCount": 3.0}`, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann, err := c.NormalizeFund(context.Background(), rawItem(t, tt.item), false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, ann.AttachmentCount)
			assert.Equal(t, tt.wantHas, ann.HasAttachment)
			assert.Equal(t, ann.AttachmentCount > 0, ann.HasAttachment)
		})
	}
}

func TestNormalizeInvalidAttachmentCountDropsItem(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")

	_, err := c.NormalizeFund(context.Background(), rawItem(t, `{"disclosureIndex": 1, "attachmentCount": "many"}`), false)
	assert.Error(t, err)
}

func TestNormalizeRelatedEntities(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")

	tests := []struct {
		name string
		item string
		want []string
	}{
		{"null", `{"disclosureIndex": 1, "relatedStocks": null}`, []string{}},
		{"absent", `{"disclosureIndex": 1}`, []string{}},
		{"string", `{"disclosureIndex": 1, "relatedStocks": "GARAN"}`, []string{"GARAN"}},
		{"list keeps order and duplicates", `{"disclosureIndex": 1, "relatedStocks": ["THYAO", "AKBNK", "THYAO"]}`, []string{"THYAO", "AKBNK", "THYAO"}},
		{"number", `{"disclosureIndex": 1, "relatedStocks": 42}`, []string{}},
		{"object", `{"disclosureIndex": 1, "relatedStocks": {"code": "GARAN"}}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann, err := c.NormalizeCompany(context.Background(), rawItem(t, tt.item), false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ann.RelatedEntities)
		})
	}
}

func TestNormalizeCompanyCode(t *testing.T) {
	c := newTestClient(t, "https://www.kap.org.tr")

	tests := []struct {
		name string
		item string
		want string
	}{
		{"first of many", `{"disclosureIndex": 1, "stockCodes": "TEST,OTHR"}`, "TEST"},
		{"trimmed", `{"disclosureIndex": 1, "stockCodes": "  TEST "}`, "TEST"},
		{"trimmed first of many", `{"disclosureIndex": 1, "stockCodes": " TEST , OTHR"}`, "TEST"},
		{"null", `{"disclosureIndex": 1, "stockCodes": null}`, ""},
		{"absent", `{"disclosureIndex": 1}`, ""},
		{"number", `{"disclosureIndex": 1, "stockCodes": 1234}`, "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann, err := c.NormalizeCompany(context.Background(), rawItem(t, tt.item), false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ann.Code)
		})
	}
}

func TestNormalizeSkipsResolutionWhenNotRequested(t *testing.T) {
	// An unreachable base URL proves no detail page request is made.
	c := newTestClient(t, "http://127.0.0.1:1")

	ann, err := c.NormalizeFund(context.Background(), rawItem(t, `{"disclosureIndex": 7, "attachmentCount": 2}`), false)
	require.NoError(t, err)

	assert.True(t, ann.HasAttachment)
	assert.NotNil(t, ann.AttachmentPDFURLs)
	assert.Empty(t, ann.AttachmentPDFURLs)
}

func TestNormalizeResolutionFailureKeepsItem(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	ann, err := c.NormalizeFund(context.Background(), rawItem(t, `{"disclosureIndex": 7, "attachmentCount": 2}`), true)
	require.NoError(t, err)

	assert.Equal(t, "7", ann.ID)
	assert.Equal(t, []string{}, ann.AttachmentPDFURLs)
}
