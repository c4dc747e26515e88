// Package query implements folio's best-effort natural-language query
// layer. Free text is pattern-matched against a small verb taxonomy
// (synonym lists plus regular expressions) and routed to canned
// analytics. There is no model in the loop; parsing is deterministic.
package query

import (
	"regexp"
	"strconv"
	"strings"

	"folio/internal/domain"
	"folio/internal/logging"
)

// Verb is a recognized analytic intent, using Mangle-style name
// constants so routing stays a flat switch.
type Verb string

const (
	VerbSummary   Verb = "/summary"
	VerbTop       Verb = "/top"
	VerbBottom    Verb = "/bottom"
	VerbCount     Verb = "/count"
	VerbCost      Verb = "/cost"
	VerbBreakdown Verb = "/breakdown"
	VerbHelp      Verb = "/help"
)

// Intent is the structured reading of one free-text query.
type Intent struct {
	Verb     Verb
	Domain   string // resolved domain name, empty if none mentioned
	Category string // resolved category, empty if none mentioned
	N        int    // item count for /top and /bottom (default 5)
	Raw      string // original query text
}

// DefaultN is used when a top/bottom query names no count.
const DefaultN = 5

// verbDef is one taxonomy entry: a verb, its trigger phrases, and
// optional anchored patterns that outrank plain phrase hits.
type verbDef struct {
	verb     Verb
	priority int
	phrases  []string
	patterns []*regexp.Regexp
}

// The taxonomy. Order matters only through priority: when several verbs
// match, the highest-priority hit wins; ties go to the earlier entry.
var taxonomy = []verbDef{
	{
		verb:     VerbTop,
		priority: 30,
		phrases:  []string{"top", "best", "highest", "strongest", "leading"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:top|best|highest)\s+(\d+)\b`),
		},
	},
	{
		verb:     VerbBottom,
		priority: 30,
		phrases:  []string{"bottom", "worst", "lowest", "weakest", "underperform"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:bottom|worst|lowest)\s+(\d+)\b`),
		},
	},
	{
		verb:     VerbCount,
		priority: 25,
		phrases:  []string{"how many", "count", "number of"},
	},
	{
		verb:     VerbCost,
		priority: 25,
		phrases:  []string{"cost", "spend", "spending", "budget", "expensive"},
	},
	{
		verb:     VerbBreakdown,
		priority: 20,
		phrases:  []string{"breakdown", "break down", "distribution", "by category", "per category"},
	},
	{
		verb:     VerbSummary,
		priority: 10,
		phrases:  []string{"summary", "summarize", "overview", "health", "how are", "status", "state of"},
	},
}

// domainAliases maps informal mentions to domain names.
var domainAliases = map[string]string{
	"application":  domain.Applications,
	"applications": domain.Applications,
	"app":          domain.Applications,
	"apps":         domain.Applications,
	"portfolio":    "",
	"project":      domain.Projects,
	"projects":     domain.Projects,
	"capital":      domain.Projects,
	"contract":     domain.Contracts,
	"contracts":    domain.Contracts,
	"vendor":       domain.Contracts,
	"vendors":      domain.Contracts,
}

var numberRe = regexp.MustCompile(`\b(\d{1,4})\b`)

// Parser matches free text against the taxonomy.
type Parser struct {
	registry *domain.Registry
}

// NewParser builds a parser over the given domain registry.
func NewParser(reg *domain.Registry) *Parser {
	return &Parser{registry: reg}
}

// Parse never fails: text that matches nothing yields a /help intent
// carrying the raw query.
func (p *Parser) Parse(text string) Intent {
	raw := text
	text = strings.ToLower(strings.TrimSpace(text))

	intent := Intent{Verb: VerbHelp, N: DefaultN, Raw: raw}
	if text == "" {
		return intent
	}

	bestPriority := -1
	for _, def := range taxonomy {
		matched := false
		for _, re := range def.patterns {
			if m := re.FindStringSubmatch(text); m != nil {
				matched = true
				if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
					intent.N = n
				}
				break
			}
		}
		if !matched {
			for _, phrase := range def.phrases {
				if strings.Contains(text, phrase) {
					matched = true
					break
				}
			}
		}
		if matched && def.priority > bestPriority {
			bestPriority = def.priority
			intent.Verb = def.verb
		}
	}

	intent.Domain = p.findDomain(text)
	intent.Category = p.findCategory(text, intent.Domain)

	// "how many apps should we eliminate" style queries: a category
	// mention turns a bare summary into a count.
	if intent.Category != "" && intent.Verb == VerbSummary {
		intent.Verb = VerbCount
	}

	logging.QueryDebug("parsed %q -> verb=%s domain=%q category=%q n=%d",
		raw, intent.Verb, intent.Domain, intent.Category, intent.N)
	return intent
}

func (p *Parser) findDomain(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, w := range words {
		if name, ok := domainAliases[w]; ok && name != "" {
			return name
		}
	}
	return ""
}

// findCategory looks for a category mention. If a domain was named,
// only its categories are considered; otherwise all domains are
// searched and the first owning domain also resolves the Domain field
// indirectly via the caller's category answer path.
func (p *Parser) findCategory(text, domainName string) string {
	domains := p.registry.Domains()
	if domainName != "" {
		d, err := p.registry.Get(domainName)
		if err != nil {
			return ""
		}
		domains = []domain.Domain{d}
	}
	for _, d := range domains {
		for _, cat := range d.Categories {
			if strings.Contains(text, strings.ToLower(cat)) {
				return cat
			}
		}
	}
	return ""
}
