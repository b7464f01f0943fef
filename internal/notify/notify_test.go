package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/kapscraper/internal/ai"
	"github.com/shanehull/kapscraper/internal/types"
)

func sampleMatch() types.AnnotatedMatch {
	return types.AnnotatedMatch{
		Match: types.Match{
			Announcement: types.Announcement{
				ID:                "1524033",
				Kind:              types.KindCompany,
				DateTime:          "06.12.2025 14:29:07",
				Code:              "TEST",
				Name:              "TEST COMPANY A.Ş.",
				Subject:           "Özel Durum Açıklaması",
				Summary:           "Pay geri alım programı",
				RelatedEntities:   []string{"OTHR"},
				HasAttachment:     true,
				AttachmentCount:   2,
				DetailPDFURL:      "https://www.kap.org.tr/tr/api/BildirimPdf/1524033",
				AttachmentPDFURLs: []string{"https://www.kap.org.tr/tr/api/file/download/a1", "https://www.kap.org.tr/tr/api/file/download/b2"},
			},
			KeywordsFound: []string{"geri alım"},
		},
		Analysis: &ai.Analysis{
			Summary:   []string{"Buyback of up to 10m shares"},
			KeyPoints: []ai.Observation{{Category: "Capital Actions", Details: "Ends 2026-06-30"}},
		},
	}
}

func TestReportMatches(t *testing.T) {
	var buf bytes.Buffer
	ReportMatches(&buf, []types.AnnotatedMatch{sampleMatch()}, "/tmp/history.json")

	out := buf.String()
	assert.Contains(t, out, "1 MATCHES FOUND")
	assert.Contains(t, out, "ID:      1524033 (company)")
	assert.Contains(t, out, "https://www.kap.org.tr/tr/api/file/download/b2")
	assert.Contains(t, out, "Matched: keywords: geri alım")
	assert.Contains(t, out, "[Capital Actions] Ends 2026-06-30")
	assert.Contains(t, out, "History saved to /tmp/history.json")
}

func TestReportNoMatches(t *testing.T) {
	var buf bytes.Buffer
	ReportMatches(&buf, nil, "")
	assert.Contains(t, buf.String(), "No new matching announcements found.")
}

func TestHTMLEmailRenderer(t *testing.T) {
	msg, err := NewHTMLEmailRenderer().Render(NotificationData{Match: sampleMatch().Match, Analysis: sampleMatch().Analysis})
	require.NoError(t, err)

	assert.Equal(t, "KAP Alert: TEST - Özel Durum Açıklaması", msg.Subject)
	assert.Contains(t, msg.HTML, `href="https://www.kap.org.tr/tr/api/BildirimPdf/1524033"`)
	assert.Contains(t, msg.HTML, "https://www.kap.org.tr/tr/api/file/download/a1")
	assert.Contains(t, msg.HTML, "Capital Actions")
	assert.Contains(t, msg.Text, "Attachment 2: https://www.kap.org.tr/tr/api/file/download/b2")
	assert.Contains(t, msg.Text, "• [Capital Actions] Ends 2026-06-30")
}

func TestRenderSubjectFallsBackToName(t *testing.T) {
	m := sampleMatch().Match
	m.Code = ""
	assert.Equal(t, "KAP Alert: TEST COMPANY A.Ş. - Özel Durum Açıklaması", renderSubject(NotificationData{Match: m}))
}

func TestBuildMessage(t *testing.T) {
	s := NewEmailSender(EmailConfig{SMTPServer: "smtp.example.com", SMTPUser: "me@example.com", SMTPPass: "x", ToEmail: "you@example.com"})

	m := s.buildMessage(&RenderedMessage{Subject: "KAP Alert", Text: "plain", HTML: "<p>html</p>"})
	assert.Equal(t, []string{"me@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"you@example.com"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/plain")
	assert.Contains(t, buf.String(), "text/html")
}

func TestSendDisabledIsNoop(t *testing.T) {
	s := NewEmailSender(EmailConfig{})
	assert.NoError(t, s.Send(&RenderedMessage{Subject: "x", Text: "y"}))
}

type fakeSender struct {
	sent []*RenderedMessage
	fail string
}

func (f *fakeSender) Send(msg *RenderedMessage) error {
	if f.fail != "" && strings.Contains(msg.Subject, f.fail) {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestEmailMatchesContinuesAfterFailure(t *testing.T) {
	first := sampleMatch()
	second := sampleMatch()
	second.Match.Code = "OTHR"

	sender := &fakeSender{fail: "TEST"}
	sent := EmailMatches([]types.AnnotatedMatch{first, second}, NewHTMLEmailRenderer(), sender)

	assert.Equal(t, 1, sent)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "OTHR")
}
