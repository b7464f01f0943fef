package kap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shanehull/kapscraper/internal/types"
)

const (
	fundSearchPath    = "/tr/api/disclosure/funds/byCriteria"
	companySearchPath = "/tr/api/disclosure/members/byCriteria"
)

// endpoint ties a search path to the extractor for the items it returns.
type endpoint struct {
	kind    types.Kind
	path    string
	extract itemExtractor
}

var (
	fundEndpoint    = endpoint{kind: types.KindFund, path: fundSearchPath, extract: extractFund}
	companyEndpoint = endpoint{kind: types.KindCompany, path: companySearchPath, extract: extractCompany}
)

// The empty fields are required by the API even when unused.
type fundSearchRequest struct {
	FromDate           string   `json:"fromDate"`
	ToDate             string   `json:"toDate"`
	FundTypeList       []string `json:"fundTypeList"`
	MkkMemberOidList   []string `json:"mkkMemberOidList"`
	FundOidList        []string `json:"fundOidList"`
	PassiveFundOidList []string `json:"passiveFundOidList"`
	DisclosureClass    string   `json:"disclosureClass"`
	IsLate             string   `json:"isLate"`
	SubjectList        []string `json:"subjectList"`
	DiscIndex          []string `json:"discIndex"`
	FromSrc            bool     `json:"fromSrc"`
	SrcCategory        string   `json:"srcCategory"`
}

func newFundSearchRequest(from, to string, fundTypes []string) fundSearchRequest {
	return fundSearchRequest{
		FromDate:           from,
		ToDate:             to,
		FundTypeList:       fundTypes,
		MkkMemberOidList:   []string{},
		FundOidList:        []string{},
		PassiveFundOidList: []string{},
		SubjectList:        []string{},
		DiscIndex:          []string{},
	}
}

type companySearchRequest struct {
	FromDate                 string   `json:"fromDate"`
	ToDate                   string   `json:"toDate"`
	MemberType               string   `json:"memberType"`
	MkkMemberOidList         []string `json:"mkkMemberOidList"`
	InactiveMkkMemberOidList []string `json:"inactiveMkkMemberOidList"`
	DisclosureClass          string   `json:"disclosureClass"`
	SubjectList              []string `json:"subjectList"`
	IsLate                   string   `json:"isLate"`
	MainSector               string   `json:"mainSector"`
	Sector                   string   `json:"sector"`
	SubSector                string   `json:"subSector"`
	MarketOid                string   `json:"marketOid"`
	Index                    string   `json:"index"`
	BdkReview                string   `json:"bdkReview"`
	BdkMemberOidList         []string `json:"bdkMemberOidList"`
	Year                     string   `json:"year"`
	Term                     string   `json:"term"`
	RuleType                 string   `json:"ruleType"`
	Period                   string   `json:"period"`
	FromSrc                  bool     `json:"fromSrc"`
	SrcCategory              string   `json:"srcCategory"`
	DisclosureIndexList      []string `json:"disclosureIndexList"`
}

func newCompanySearchRequest(from, to, memberType string) companySearchRequest {
	return companySearchRequest{
		FromDate:                 from,
		ToDate:                   to,
		MemberType:               memberType,
		MkkMemberOidList:         []string{},
		InactiveMkkMemberOidList: []string{},
		SubjectList:              []string{},
		BdkMemberOidList:         []string{},
		DisclosureIndexList:      []string{},
	}
}

// SearchFunds queries the fund disclosure endpoint. Transport, status and
// format failures are returned as errors; items that cannot be normalized
// are skipped.
func (c *Client) SearchFunds(ctx context.Context, criteria FundCriteria) ([]types.Announcement, error) {
	fundTypes := criteria.fundTypes()
	return c.search(ctx, fundEndpoint, criteria.Criteria, func(from, to string) any {
		return newFundSearchRequest(from, to, fundTypes)
	})
}

// SearchCompanies queries the company (member) disclosure endpoint.
func (c *Client) SearchCompanies(ctx context.Context, criteria CompanyCriteria) ([]types.Announcement, error) {
	memberType := criteria.memberType()
	return c.search(ctx, companyEndpoint, criteria.Criteria, func(from, to string) any {
		return newCompanySearchRequest(from, to, memberType)
	})
}

// FetchFundAnnouncements is SearchFunds with every failure logged and
// flattened into an empty result.
func (c *Client) FetchFundAnnouncements(ctx context.Context, criteria FundCriteria) []types.Announcement {
	anns, err := c.SearchFunds(ctx, criteria)
	if err != nil {
		log.Printf("Error fetching fund announcements: %v", err)
		return []types.Announcement{}
	}
	return anns
}

func (c *Client) FetchCompanyAnnouncements(ctx context.Context, criteria CompanyCriteria) []types.Announcement {
	anns, err := c.SearchCompanies(ctx, criteria)
	if err != nil {
		log.Printf("Error fetching company announcements: %v", err)
		return []types.Announcement{}
	}
	return anns
}

func (c *Client) search(ctx context.Context, ep endpoint, criteria Criteria, buildPayload func(from, to string) any) ([]types.Announcement, error) {
	from, to, err := criteria.dateRange(time.Now())
	if err != nil {
		return nil, err
	}

	op := fmt.Sprintf("%s search", ep.kind)
	body, err := c.do(ctx, op, http.MethodPost, c.BaseURL()+ep.path, buildPayload(from, to))
	if err != nil {
		return nil, err
	}

	items, err := decodeItems(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if criteria.Limit > 0 && len(items) > criteria.Limit {
		items = items[:criteria.Limit]
	}

	announcements := make([]types.Announcement, 0, len(items))
	for i, v := range items {
		item, ok := v.(map[string]any)
		if !ok {
			log.Printf("Warning: Skipping %s item %d: expected a JSON object, got %T", ep.kind, i, v)
			continue
		}

		ann, err := c.normalize(ctx, RawItem(item), ep, criteria.FetchAttachments)
		if err != nil {
			log.Printf("Warning: Skipping %s item %d: %v", ep.kind, i, err)
			continue
		}
		announcements = append(announcements, *ann)
	}

	log.Printf("Fetched %d %s announcements from API", len(announcements), ep.kind)
	return announcements, nil
}

// decodeItems requires the body to be a JSON array. Numbers are kept as
// json.Number so that identifiers keep their integer text form.
func decodeItems(body []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response JSON: %w", err)
	}

	items, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedFormat, data)
	}
	return items, nil
}
