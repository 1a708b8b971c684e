package types

import "time"

// HTTPConfig holds shared HTTP settings used by every source client.
type HTTPConfig struct {
	// Timeout is the total HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperfetch/0.1 (mailto:ops@example.org)"). Several academic
	// APIs require a contact address here.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig holds the per-source settings read at construction time.
// The map of SourceConfigs is read-only during a retrieval run.
type SourceConfig struct {
	// Enabled controls whether the source participates in the fallback chain.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Priority orders the fallback chain; lower values are tried first.
	Priority int `json:"priority" yaml:"priority"`

	// RateInterval is the minimum time between two requests to this
	// source across all concurrent retrievals. Zero means the global
	// default applies.
	RateInterval time.Duration `json:"rate_interval" yaml:"rate_interval"`
}

// OutputConfig controls where PDFs land and how they are named.
type OutputConfig struct {
	// Dir is the base output directory.
	Dir string `json:"dir" yaml:"dir"`

	// FilenameTemplate builds the PDF filename from metadata. Supported
	// placeholders: {first_author}, {year}, {title_short}, {doi}.
	FilenameTemplate string `json:"filename_template" yaml:"filename_template"`

	// Subfolders nests each paper in its own directory named after the
	// filename stem.
	Subfolders bool `json:"subfolders" yaml:"subfolders"`
}

// RetrieverConfig holds settings for single-paper retrieval.
type RetrieverConfig struct {
	HTTPConfig `yaml:",inline"`

	// Sources maps source name to its per-source settings.
	Sources map[string]SourceConfig `json:"sources" yaml:"sources"`

	// DefaultRateInterval applies to sources with no explicit RateInterval.
	DefaultRateInterval time.Duration `json:"default_rate_interval" yaml:"default_rate_interval"`

	Output OutputConfig `json:"output" yaml:"output"`

	// SkipExisting terminates a retrieval as a cached hit when the
	// destination file already exists, without any network access.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`

	// AllowUnofficial opts in to sources that are not official publisher
	// or index APIs.
	AllowUnofficial bool `json:"allow_unofficial" yaml:"allow_unofficial"`

	// SemanticScholarAPIKey raises Semantic Scholar rate limits when set.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// UnpaywallEmail is the contact address Unpaywall requires.
	UnpaywallEmail string `json:"unpaywall_email,omitempty" yaml:"unpaywall_email,omitempty"`

	// OpenAlexEmail joins the OpenAlex polite pool when set.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// ProxyBaseURL is an institutional access gateway prefix; the proxy
	// source is skipped when empty.
	ProxyBaseURL string `json:"proxy_base_url,omitempty" yaml:"proxy_base_url,omitempty"`

	// WebSearchBaseURL is the HTML search endpoint the web-search source
	// scrapes for candidate PDF links.
	WebSearchBaseURL string `json:"web_search_base_url,omitempty" yaml:"web_search_base_url,omitempty"`
}

// BatchConfig holds settings for batch retrieval.
type BatchConfig struct {
	// MaxConcurrent bounds the number of papers retrieved at once.
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// SequentialDelay is slept between papers when MaxConcurrent is 1,
	// the most rate-limit-friendly mode.
	SequentialDelay time.Duration `json:"sequential_delay" yaml:"sequential_delay"`

	// ProgressFile is the resume-progress path, relative to the output
	// directory unless absolute.
	ProgressFile string `json:"progress_file" yaml:"progress_file"`
}

// DefaultSourceConfigs returns the built-in fallback chain. Order is
// expressed through Priority; callers may override any entry.
func DefaultSourceConfigs() map[string]SourceConfig {
	second := time.Second
	return map[string]SourceConfig{
		"arxiv":           {Enabled: true, Priority: 10, RateInterval: 3 * second},
		"unpaywall":       {Enabled: true, Priority: 20, RateInterval: second},
		"openalex":        {Enabled: true, Priority: 30, RateInterval: second},
		"semanticscholar": {Enabled: true, Priority: 40, RateInterval: second},
		"europepmc":       {Enabled: true, Priority: 50, RateInterval: second},
		"crossref":        {Enabled: true, Priority: 60, RateInterval: second},
		"biorxiv":         {Enabled: true, Priority: 70, RateInterval: second},
		"frontiers":       {Enabled: true, Priority: 80, RateInterval: second},
		"acl":             {Enabled: true, Priority: 90, RateInterval: second},
		"proxy":           {Enabled: false, Priority: 100, RateInterval: 2 * second},
		"websearch":       {Enabled: false, Priority: 110, RateInterval: 5 * second},
		"mirror":          {Enabled: false, Priority: 120, RateInterval: 10 * second},
	}
}
