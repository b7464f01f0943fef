package ai

import (
	"fmt"
	"strings"
)

var urlTemplates = []string{
	"https://www.kap.org.tr/tr/bildirim-sorgu?srcbar=Y&cmp=Y&cat=4&slf=ALL&s=%s",
	"https://www.isyatirim.com.tr/tr-tr/analiz/hisse/Sayfalar/sirket-karti.aspx?hisse=%s",
	"https://finance.yahoo.com/quote/%s.IS/news",
	"https://www.tefas.gov.tr/FonAnaliz.aspx?FonKod=%s",
}

const systemInstruction = `
# [INSTRUCTION]

You are a financial analyst covering Borsa Istanbul listed companies and Turkish investment funds.

Your task is to read a disclosure published on KAP (Kamuyu Aydınlatma Platformu) and extract the information
that matters to an investor. Disclosures are usually written in Turkish; always answer in English.

Use the search tool and the context URL tool to open the disclosure PDF, its attachments and the
supplementary URLs before answering.

---

# [CATEGORIES]

- **Capital Actions:** rights issues, bonus issues, buybacks, dividend decisions and their record/payment dates.
- **Corporate Transactions:** mergers, acquisitions, asset sales, spin-offs, partial tender offers.
- **Material Events:** new contracts, tenders won, licences, litigation outcomes, regulatory penalties.
- **Financial Results:** revenue, net profit and margin changes versus the prior period.
- **Ownership Changes:** insider or major shareholder purchases and sales, share pledges.
- **Fund Events:** changes to fund strategy, fees, portfolio manager, benchmark, or fund liquidation.

---

# [CRITICAL INSTRUCTION]

Every "key_points" entry MUST contain a number, date or specific condition taken from the disclosure
or its attachments. Do not return generic statements. If nothing actionable is disclosed, return no key points.
`

const userPromptTemplate = `
Analyze the following KAP disclosure:

---
%s
---

Disclosure PDF and attachments:
%s

Supplementary URLs for news and financial data:
%s
`

// buildUserPrompt renders the disclosure details and links for one announcement.
func buildUserPrompt(code string, text string, documentURLs []string) string {
	var supplementaryURLs []string
	if code != "" {
		for _, tmpl := range urlTemplates {
			supplementaryURLs = append(supplementaryURLs, fmt.Sprintf(tmpl, code))
		}
	}

	return fmt.Sprintf(userPromptTemplate,
		text,
		strings.Join(documentURLs, "\n"),
		strings.Join(supplementaryURLs, "\n"),
	)
}
