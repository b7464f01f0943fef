package kap

import (
	"fmt"
	"time"
)

const (
	dateLayout          = "2006-01-02"
	defaultLookbackDays = 365
	defaultFundType     = "YF"
	defaultMemberType   = "IGS"
)

// Criteria are the search parameters shared by both endpoints. Zero dates
// fall back to today and 365 days before the to date. Limit <= 0 returns
// every item the API sends.
type Criteria struct {
	From             time.Time
	To               time.Time
	Limit            int
	FetchAttachments bool
}

type FundCriteria struct {
	Criteria
	FundTypes []string
}

type CompanyCriteria struct {
	Criteria
	MemberType string
}

// ParseDate parses a YYYY-MM-DD calendar date. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// dateRange applies the defaults and returns both dates formatted for the API.
func (c Criteria) dateRange(now time.Time) (from, to string, err error) {
	toDate := c.To
	if toDate.IsZero() {
		toDate = now
	}
	fromDate := c.From
	if fromDate.IsZero() {
		fromDate = toDate.AddDate(0, 0, -defaultLookbackDays)
	}

	from, to = fromDate.Format(dateLayout), toDate.Format(dateLayout)
	if from > to {
		return "", "", fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, from, to)
	}
	return from, to, nil
}

func (c FundCriteria) fundTypes() []string {
	if len(c.FundTypes) == 0 {
		return []string{defaultFundType}
	}
	return c.FundTypes
}

func (c CompanyCriteria) memberType() string {
	if c.MemberType == "" {
		return defaultMemberType
	}
	return c.MemberType
}
