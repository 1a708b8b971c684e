// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"net/http"
	"sort"
	"time"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// Registry holds the constructed fallback chain and the per-source rate
// intervals derived from configuration.
type Registry struct {
	ordered   []Source
	intervals map[string]time.Duration
}

// NewRegistry builds every source the configuration enables and sorts
// them by priority. Sources missing a hard prerequisite are skipped even
// when enabled: Unpaywall without a contact email, the proxy without a
// gateway URL, web search without a search endpoint, and the mirror
// unless unofficial sources are allowed.
func NewRegistry(client *http.Client, cfg types.RetrieverConfig) *Registry {
	sourceCfgs := cfg.Sources
	if sourceCfgs == nil {
		sourceCfgs = types.DefaultSourceConfigs()
	}

	builders := map[string]func() Source{
		"arxiv":           func() Source { return NewArxiv(client, cfg.HTTPConfig) },
		"crossref":        func() Source { return NewCrossref(client, cfg.HTTPConfig) },
		"semanticscholar": func() Source { return NewSemanticScholar(client, cfg.HTTPConfig, cfg.SemanticScholarAPIKey) },
		"openalex":        func() Source { return NewOpenAlex(client, cfg.HTTPConfig, cfg.OpenAlexEmail) },
		"unpaywall":       func() Source { return NewUnpaywall(client, cfg.HTTPConfig, cfg.UnpaywallEmail) },
		"europepmc":       func() Source { return NewEuropePMC(client, cfg.HTTPConfig) },
		"biorxiv":         func() Source { return NewBiorxiv(client, cfg.HTTPConfig) },
		"frontiers":       func() Source { return NewFrontiers(client, cfg.HTTPConfig) },
		"acl":             func() Source { return NewACLAnthology(client, cfg.HTTPConfig) },
		"proxy":           func() Source { return NewProxy(client, cfg.HTTPConfig, cfg.ProxyBaseURL) },
		"websearch":       func() Source { return NewWebSearch(client, cfg.HTTPConfig, cfg.WebSearchBaseURL) },
		"mirror":          func() Source { return NewMirror(client, cfg.HTTPConfig) },
	}

	type entry struct {
		src      Source
		priority int
	}
	var entries []entry
	intervals := make(map[string]time.Duration)

	for name, sc := range sourceCfgs {
		if !sc.Enabled || !usableSource(name, cfg) {
			continue
		}
		build, ok := builders[name]
		if !ok {
			continue
		}
		entries = append(entries, entry{src: build(), priority: sc.Priority})
		if sc.RateInterval > 0 {
			intervals[name] = sc.RateInterval
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority < entries[j].priority
		}
		return entries[i].src.Name() < entries[j].src.Name()
	})

	ordered := make([]Source, len(entries))
	for i, e := range entries {
		ordered[i] = e.src
	}
	return &Registry{ordered: ordered, intervals: intervals}
}

func usableSource(name string, cfg types.RetrieverConfig) bool {
	switch name {
	case "unpaywall":
		return cfg.UnpaywallEmail != ""
	case "proxy":
		return cfg.ProxyBaseURL != ""
	case "websearch":
		return cfg.WebSearchBaseURL != ""
	case "mirror":
		return cfg.AllowUnofficial
	default:
		return true
	}
}

// Ordered returns the fallback chain in priority order, best first.
func (r *Registry) Ordered() []Source {
	return r.ordered
}

// Lookup returns the source with the given name, or nil.
func (r *Registry) Lookup(name string) Source {
	for _, s := range r.ordered {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// RateIntervals returns the per-source minimum request intervals for
// sources that declared one.
func (r *Registry) RateIntervals() map[string]time.Duration {
	return r.intervals
}
