package router

import (
	"regexp"
	"strings"

	"github.com/elliotchance/pie/v2"
)

// ReactivationCommand hands a conversation back to the bot.
const ReactivationCommand = "!activarbot"

// rule is one row of the rule-based responder. Commands and the pattern are
// exact forms; keywords match anywhere in the message.
type rule struct {
	name     string
	commands []string
	pattern  *regexp.Regexp
	keywords []string
	reply    string
	handoff  bool
}

type match struct {
	rule  *rule
	exact bool
}

var affirmativePattern = regexp.MustCompile(`^si+$`)

func newRules(farewell bool) []rule {
	rules := []rule{
		{
			name:     "menu",
			commands: []string{"hola", "menu", "menú", "inicio"},
			reply:    MenuText,
		},
		{
			name:    "coverage_detail",
			pattern: affirmativePattern,
			reply:   CoverageDetailText,
		},
		{
			name:     "decline",
			commands: []string{"no"},
			reply:    ClosingText,
		},
		{
			name:     "plans",
			commands: []string{"1"},
			keywords: []string{"planes", "precios", "disponibles", "plan disponible"},
			reply:    PlansText,
		},
		{
			name:     "coverage",
			commands: []string{"2"},
			keywords: []string{"lugares", "cobertura", "que lugares cubren"},
			reply:    CoverageText,
		},
		{
			name:     "handoff",
			commands: []string{"4"},
			keywords: []string{"hablar con una persona", "hablar con persona", "persona"},
			reply:    HandoffText,
			handoff:  true,
		},
	}

	if farewell {
		rules = append(rules, rule{
			name:     "farewell",
			commands: []string{"ok", "oki", "okay", "vale", "listo"},
			keywords: []string{"gracias", "adiós", "adios", "bye", "hasta luego", "nos vemos"},
			reply:    ClosingText,
		})
	}

	return rules
}

// matchRules returns the first rule matching the normalized text, or nil.
func matchRules(rules []rule, text string) *match {
	for i := range rules {
		if exact, ok := rules[i].match(text); ok {
			return &match{rule: &rules[i], exact: exact}
		}
	}

	return nil
}

func (r *rule) match(text string) (exact bool, ok bool) {
	if pie.Contains(r.commands, text) {
		return true, true
	}

	if r.pattern != nil && r.pattern.MatchString(strings.ReplaceAll(text, "í", "i")) {
		return true, true
	}

	if pie.Any(r.keywords, func(keyword string) bool {
		return strings.Contains(text, keyword)
	}) {
		return false, true
	}

	return false, false
}

func normalize(body string) string {
	return strings.ToLower(strings.TrimSpace(body))
}

func isReactivationCommand(body string) bool {
	return normalize(body) == ReactivationCommand
}
