package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shanehull/kapscraper/internal/config"
)

func TestSplitCodes(t *testing.T) {
	assert.Equal(t, []string{"YF", "EYF"}, splitCodes(" yf, ,EYF"))
	assert.Nil(t, splitCodes(""))
}

func TestApplyConfigKeepsExplicitFlags(t *testing.T) {
	oldKind, oldKeywords, oldDelay, oldLimit := *kind, *keywordStr, *delay, *limit
	t.Cleanup(func() {
		*kind, *keywordStr, *delay, *limit = oldKind, oldKeywords, oldDelay, oldLimit
	})

	*kind = "fund"
	cfg := &config.Config{
		Kind:         "company",
		Keywords:     []string{"temettü", "geri alım"},
		RequestDelay: config.Duration(2 * time.Second),
		Limit:        10,
	}

	applyConfig(cfg, map[string]bool{"kind": true})

	assert.Equal(t, "fund", *kind)
	assert.Equal(t, "temettü,geri alım", *keywordStr)
	assert.Equal(t, 2*time.Second, *delay)
	assert.Equal(t, 10, *limit)
}
