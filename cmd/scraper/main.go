package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shanehull/kapscraper/internal/annotate"
	"github.com/shanehull/kapscraper/internal/config"
	"github.com/shanehull/kapscraper/internal/history"
	"github.com/shanehull/kapscraper/internal/kap"
	"github.com/shanehull/kapscraper/internal/match"
	"github.com/shanehull/kapscraper/internal/notify"
	"github.com/shanehull/kapscraper/internal/types"
)

const (
	timezone           = "Europe/Istanbul"
	defaultGeminiModel = "gemini-2.5-flash"
)

var (
	kind        = flag.String("kind", "all", "Disclosure kind to fetch: fund, company or all")
	fromDate    = flag.String("from", "", "Start date YYYY-MM-DD (default: 365 days before -to)")
	toDate      = flag.String("to", "", "End date YYYY-MM-DD (default: today)")
	limit       = flag.Int("limit", 0, "Maximum announcements per kind, 0 for no limit")
	fundTypes   = flag.String("fund-types", "YF", "Comma-separated fund type codes")
	memberType  = flag.String("member-type", "IGS", "Company member type code")
	attachments = flag.Bool("attachments", false, "(-a) Resolve attachment PDF links for announcements that have attachments")
	keywordStr  = flag.String("keywords", "", "(-k) Comma-separated list of keywords or exact phrases")
	codeStr     = flag.String("codes", "", "(-c) Comma-separated list of fund or company codes to watch")

	delay       = flag.Duration("delay", kap.DefaultRequestDelay, "Minimum spacing between requests to KAP")
	timeout     = flag.Duration("timeout", kap.DefaultTimeout, "Per-request timeout")
	baseURL     = flag.String("base-url", kap.DefaultBaseURL, "KAP root URL")
	jsonOut     = flag.Bool("json", false, "Write new matches as JSON to stdout instead of the console report")
	configPath  = flag.String("config", "", "Path to a YAML config file; explicit flags take precedence")
	historyDir  = flag.String("history-dir", "", "Directory for the report history file (default: OS temp dir)")
	concurrency = flag.Int("concurrency", annotate.DefaultConcurrency, "Maximum concurrent AI summary requests")

	geminiModel = flag.String("gemini-model", defaultGeminiModel, "Gemini model used for summaries (requires GEMINI_API_KEY)")

	smtpServer = flag.String("smtp-server", "smtp.gmail.com", "SMTP server address (default: smtp.gmail.com)")
	smtpPort   = flag.Int("smtp-port", 587, "SMTP server port (default: 587)")
	smtpUser   = flag.String("smtp-user", "", "SMTP username (email address)")
	smtpPass   = flag.String("smtp-pass", "", "SMTP password or App Password (default: $SMTP_PASS)")
	toEmail    = flag.String("to-email", "", "Recipient email address")
	fromEmail  = flag.String("from-email", "", "Sender email address (default: smtp-user)")
)

func init() {
	flag.BoolVar(attachments, "a", false, "(-a) Resolve attachment PDF links (shorthand)")
	flag.StringVar(keywordStr, "k", "", "(-k) Comma-separated list of keywords or exact phrases (shorthand)")
	flag.StringVar(codeStr, "c", "", "(-c) Comma-separated list of codes to watch (shorthand)")

	flag.Usage = func() {
		flagSet := flag.CommandLine
		fmt.Printf("Usage of %s:\n", "kapscraper")

		order := []string{
			"kind",
			"from",
			"to",
			"limit",
			"fund-types",
			"member-type",
			"attachments",
			"keywords",
			"codes",
			"delay",
			"timeout",
			"base-url",
			"json",
			"config",
			"history-dir",
			"concurrency",
			"gemini-model",
			"smtp-server",
			"smtp-port",
			"smtp-user",
			"smtp-pass",
			"to-email",
			"from-email",
		}

		for _, name := range order {
			f := flagSet.Lookup(name)
			if f != nil {
				fmt.Printf("  -%s\n", f.Name)
				fmt.Printf("    %s\n", f.Usage)
			}
		}
	}
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Printf("Fatal error loading config: %v\n", err)
			os.Exit(1)
		}
		applyConfig(cfg, explicitFlags())
	}

	if *smtpPass == "" {
		*smtpPass = os.Getenv("SMTP_PASS")
	}

	if *kind != "fund" && *kind != "company" && *kind != "all" {
		fmt.Printf("Error: invalid -kind %q, expected fund, company or all.\n", *kind)
		flag.Usage()
		os.Exit(1)
	}

	criteria, err := buildCriteria()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	client, err := kap.NewClient(
		kap.WithBaseURL(*baseURL),
		kap.WithRequestDelay(*delay),
		kap.WithTimeout(*timeout),
	)
	if err != nil {
		fmt.Printf("Fatal error setting up KAP client: %v\n", err)
		os.Exit(1)
	}

	historyManager, err := history.NewManager(timezone, *historyDir)
	if err != nil {
		fmt.Printf("Fatal error setting up history: %v\n", err)
		os.Exit(1)
	}

	keywords := match.ParseList(*keywordStr)
	codes := match.ParseList(*codeStr)

	log.Printf("Starting KAP Scraper (kind: %s). Keywords: %s. Codes: %s",
		*kind, strings.Join(keywords, ", "), strings.ToUpper(strings.Join(codes, ", ")))

	ctx := context.Background()

	var announcements []types.Announcement
	if *kind == "fund" || *kind == "all" {
		announcements = append(announcements, client.FetchFundAnnouncements(ctx, kap.FundCriteria{
			Criteria:  criteria,
			FundTypes: splitCodes(*fundTypes),
		})...)
	}
	if *kind == "company" || *kind == "all" {
		announcements = append(announcements, client.FetchCompanyAnnouncements(ctx, kap.CompanyCriteria{
			Criteria:   criteria,
			MemberType: *memberType,
		})...)
	}

	if len(announcements) == 0 {
		fmt.Println("No announcements found or fetching failed.")
		historyManager.RecordMatches(nil)
		return
	}
	log.Printf("Found %d total announcements. Filtering...", len(announcements))

	newMatches := historyManager.FilterNewMatches(match.Filter(announcements, keywords, codes))

	apiKey := os.Getenv("GEMINI_API_KEY")
	annotated := annotate.Annotate(ctx, newMatches, annotate.Gemini(apiKey, *geminiModel), *concurrency)

	if *jsonOut {
		if err := writeJSON(annotated); err != nil {
			fmt.Printf("Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	} else {
		notify.ReportMatches(os.Stdout, annotated, historyManager.HistoryFilePath())
	}

	emailConfig := notify.EmailConfig{
		SMTPServer: *smtpServer,
		SMTPPort:   *smtpPort,
		SMTPUser:   *smtpUser,
		SMTPPass:   *smtpPass,
		ToEmail:    *toEmail,
		FromEmail:  *fromEmail,
	}
	if emailConfig.Enabled() && len(annotated) > 0 {
		sent := notify.EmailMatches(annotated, notify.NewHTMLEmailRenderer(), notify.NewEmailSender(emailConfig))
		log.Printf("Sent %d/%d emails", sent, len(annotated))
	}

	historyManager.RecordMatches(newMatches)
}

func buildCriteria() (kap.Criteria, error) {
	from, err := kap.ParseDate(*fromDate)
	if err != nil {
		return kap.Criteria{}, fmt.Errorf("invalid -from: %w", err)
	}
	to, err := kap.ParseDate(*toDate)
	if err != nil {
		return kap.Criteria{}, fmt.Errorf("invalid -to: %w", err)
	}
	return kap.Criteria{
		From:             from,
		To:               to,
		Limit:            *limit,
		FetchAttachments: *attachments,
	}, nil
}

func splitCodes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.ToUpper(strings.TrimSpace(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeJSON(matches []types.AnnotatedMatch) error {
	if matches == nil {
		matches = []types.AnnotatedMatch{}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(matches)
}

// explicitFlags returns the names of flags set on the command line,
// with shorthands mapped to their long names.
func explicitFlags() map[string]bool {
	shorthands := map[string]string{"a": "attachments", "k": "keywords", "c": "codes"}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := shorthands[name]; ok {
			name = long
		}
		set[name] = true
	})
	return set
}

// applyConfig copies config file values into every flag not given explicitly.
func applyConfig(cfg *config.Config, set map[string]bool) {
	setString := func(name string, dst *string, v string) {
		if !set[name] && v != "" {
			*dst = v
		}
	}
	setList := func(name string, dst *string, v []string) {
		if !set[name] && len(v) > 0 {
			*dst = strings.Join(v, ",")
		}
	}
	setDuration := func(name string, dst *time.Duration, v config.Duration) {
		if !set[name] && v != 0 {
			*dst = time.Duration(v)
		}
	}

	setString("kind", kind, cfg.Kind)
	setString("from", fromDate, cfg.From)
	setString("to", toDate, cfg.To)
	if !set["limit"] && cfg.Limit > 0 {
		*limit = cfg.Limit
	}
	setList("fund-types", fundTypes, cfg.FundTypes)
	setString("member-type", memberType, cfg.MemberType)
	if !set["attachments"] && cfg.Attachments {
		*attachments = true
	}
	setList("keywords", keywordStr, cfg.Keywords)
	setList("codes", codeStr, cfg.Codes)
	setDuration("delay", delay, cfg.RequestDelay)
	setDuration("timeout", timeout, cfg.Timeout)
	setString("base-url", baseURL, cfg.BaseURL)
	setString("gemini-model", geminiModel, cfg.GeminiModel)

	setString("smtp-server", smtpServer, cfg.Email.SMTPServer)
	if !set["smtp-port"] && cfg.Email.SMTPPort != 0 {
		*smtpPort = cfg.Email.SMTPPort
	}
	setString("smtp-user", smtpUser, cfg.Email.SMTPUser)
	setString("to-email", toEmail, cfg.Email.ToEmail)
	setString("from-email", fromEmail, cfg.Email.FromEmail)
}
