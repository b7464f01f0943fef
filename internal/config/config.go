/*
Package config loads the optional YAML file that seeds the scraper's flags.
*/
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Kind        string   `yaml:"kind"`
	From        string   `yaml:"from"`
	To          string   `yaml:"to"`
	Limit       int      `yaml:"limit"`
	FundTypes   []string `yaml:"fund_types"`
	MemberType  string   `yaml:"member_type"`
	Attachments bool     `yaml:"attachments"`
	Keywords    []string `yaml:"keywords"`
	Codes       []string `yaml:"codes"`

	RequestDelay Duration `yaml:"request_delay"`
	Timeout      Duration `yaml:"timeout"`
	BaseURL      string   `yaml:"base_url"`

	GeminiModel string `yaml:"gemini_model"`
	Email       Email  `yaml:"email"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPUser   string `yaml:"smtp_user"`
	ToEmail    string `yaml:"to_email"`
	FromEmail  string `yaml:"from_email"`
}

// Duration accepts Go duration strings ("1500ms") or plain seconds (1.5).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		if parsed, err := time.ParseDuration(s); err == nil {
			*d = Duration(parsed)
			return nil
		}
	}

	var secs float64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("invalid duration %q: use a value like \"1s\" or a number of seconds", value.Value)
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	switch cfg.Kind {
	case "", "fund", "company", "all":
	default:
		return nil, fmt.Errorf("invalid kind %q in %s: expected fund, company or all", cfg.Kind, path)
	}
	if cfg.Limit < 0 {
		return nil, fmt.Errorf("invalid limit %d in %s", cfg.Limit, path)
	}

	return &cfg, nil
}
