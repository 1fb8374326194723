package parser

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// roleKeywords are the header synonyms for each role, evaluated as
// case-insensitive substring matches anywhere in the token.
var roleKeywords = map[Role][]string{
	RoleDate:        {"date", "posting date", "trans date"},
	RoleDescription: {"description", "details", "transaction", "particulars", "payee"},
	RoleWithdrawal:  {"withdrawal", "debit", "charge", "amount deducted", "dr"},
	RoleDeposit:     {"deposit", "credit", "amount added", "cr"},
	RoleBalance:     {"balance", "closing", "running"},
}

// keywordEngine matches every role keyword in a single Aho-Corasick pass.
// The pattern set is static, so the matcher is built once at package init.
type keywordEngine struct {
	matcher      *ahocorasick.Matcher
	patternRoles []Role // role owning each pattern, by matcher index
}

func newKeywordEngine() *keywordEngine {
	var patterns [][]byte
	var patternRoles []Role
	for _, role := range roleOrder {
		for _, kw := range roleKeywords[role] {
			patterns = append(patterns, []byte(kw))
			patternRoles = append(patternRoles, role)
		}
	}
	return &keywordEngine{
		matcher:      ahocorasick.NewMatcher(patterns),
		patternRoles: patternRoles,
	}
}

// matchRoles returns the set of roles whose keywords occur in text.
func (e *keywordEngine) matchRoles(text string) map[Role]bool {
	hits := e.matcher.Match([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return nil
	}
	roles := make(map[Role]bool, len(hits))
	for _, idx := range hits {
		if idx >= 0 && idx < len(e.patternRoles) {
			roles[e.patternRoles[idx]] = true
		}
	}
	return roles
}

var keywords = newKeywordEngine()

// ClassifyColumns maps header-like tokens to semantic roles. Tokens are
// scanned left to right; each token binds the first unbound role (in
// canonical role order) whose keywords it contains. Roles, once bound, are
// never rebound, so a repeated column keeps only its first occurrence.
// The returned mapping may be partial, down to empty.
func ClassifyColumns(headers []string) ColumnMapping {
	mapping := ColumnMapping{}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		matched := keywords.matchRoles(h)
		if len(matched) == 0 {
			continue
		}
		for _, role := range roleOrder {
			if _, bound := mapping[role]; bound {
				continue
			}
			if matched[role] {
				mapping[role] = i
				break
			}
		}
	}
	return mapping
}

// looksLikeHeaderRow reports whether a row's concatenated cell text matches
// both the date and description keyword sets. Multi-page statements often
// repeat the header row mid-table; such rows are noise, not transactions.
func looksLikeHeaderRow(row []string) bool {
	joined := strings.Join(row, " ")
	matched := keywords.matchRoles(joined)
	return matched[RoleDate] && matched[RoleDescription]
}

// noiseDescRe identifies summary and footer lines that are not transactions.
var noiseDescRe = regexp.MustCompile(`(?i)(opening|closing|total|statement|continued|page\s+\d)`)

func isNoiseDescription(desc string) bool {
	return noiseDescRe.MatchString(desc)
}
