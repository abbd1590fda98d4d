// Package authz implements declarative request classification: an ordered
// list of path/method rules decides whether a request is public, requires a
// valid token, or requires a specific role. Requests matching no rule are
// denied.
package authz

import (
	"strings"

	"inkwell/internal/domain"
)

// Disposition is the classification outcome for a path/method pair.
type Disposition int

const (
	// Public requests pass without a token check.
	Public Disposition = iota
	// Authenticated requests require any valid token.
	Authenticated
	// RequireRole requests require a valid token carrying the rule's role.
	RequireRole
	// Deny requests are rejected outright.
	Deny
)

// Rule is one declarative authorization entry. Pattern matches the request
// path; an empty Methods list matches every method. Rules are evaluated in
// declaration order and the first match wins.
//
// Pattern forms:
//   - exact: "/api/login"
//   - single-segment wildcard: "/api/posts/*"
//   - suffix wildcard: "/api/admin/**" (also matches "/api/admin")
type Rule struct {
	Pattern     string
	Methods     []string
	Disposition Disposition
	Role        domain.Role // set when Disposition is RequireRole
}

// Policy is the process-wide, immutable rule configuration. The whitelist is
// a separate exact/prefix path set whose matches bypass token validation
// entirely, even when a malformed Authorization header is present.
type Policy struct {
	rules     []Rule
	whitelist []string
}

// NewPolicy builds a policy from an ordered rule list and a validation-bypass
// whitelist.
func NewPolicy(rules []Rule, whitelist []string) *Policy {
	return &Policy{rules: rules, whitelist: whitelist}
}

// Whitelisted reports whether the path skips the authentication pipeline
// entirely. Whitelist entries ending in "/" are prefixes, others are exact.
func (p *Policy) Whitelisted(path string) bool {
	for _, entry := range p.whitelist {
		if strings.HasSuffix(entry, "/") {
			if strings.HasPrefix(path, entry) {
				return true
			}
			continue
		}
		if path == entry {
			return true
		}
	}
	return false
}

// Classify returns the disposition for a method/path pair, along with the
// required role when the disposition is RequireRole. No matching rule means
// Deny.
func (p *Policy) Classify(method, path string) (Disposition, domain.Role) {
	for _, r := range p.rules {
		if !methodMatches(r.Methods, method) {
			continue
		}
		if !patternMatches(r.Pattern, path) {
			continue
		}
		return r.Disposition, r.Role
	}
	return Deny, ""
}

func methodMatches(methods []string, method string) bool {
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// patternMatches matches a path against a pattern segment by segment.
// "*" matches exactly one segment, a trailing "**" matches any remainder
// including none.
func patternMatches(pattern, path string) bool {
	if suffix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == suffix || strings.HasPrefix(path, suffix+"/")
	}

	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")
	if len(patSegs) != len(pathSegs) {
		return false
	}
	for i, seg := range patSegs {
		if seg == "*" {
			if pathSegs[i] == "" {
				return false
			}
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return true
}
