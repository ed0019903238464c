// Package routes decides which request paths may be served without authentication.
//
// Rules are a plain table of path patterns. Supported patterns:
//
//	/login            exact path
//	/swagger-ui/**    the prefix itself and everything below it
//	/files/*/meta     '*' matches a single path segment (path.Match syntax)
//
// The first matching rule wins. A path no rule matches requires authentication.
package routes

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

type Access int

const (
	Authenticated Access = iota
	Public
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	default:
		return "authenticated"
	}
}

// Paths served without a token unless configured otherwise
var DefaultPublic = []string{
	"/login",
	"/v3/api-docs/**",
	"/swagger-ui.html",
	"/swagger-ui/**",
}

type Rule struct {
	Pattern string
	Access  Access
}

// PublicRules builds rules permitting patterns without authentication
func PublicRules(patterns ...string) []Rule {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, Rule{Pattern: p, Access: Public})
	}
	return rules
}

// Classifier is immutable once built and safe for concurrent use
type Classifier struct {
	rules []Rule
}

func New(rules ...Rule) (*Classifier, error) {
	var errs []error

	for _, r := range rules {
		if !strings.HasPrefix(r.Pattern, "/") {
			errs = append(errs, fmt.Errorf("pattern %q must start with '/'", r.Pattern))
			continue
		}
		if _, err := path.Match(strings.TrimSuffix(r.Pattern, "/**"), ""); err != nil {
			errs = append(errs, fmt.Errorf("pattern %q: %w", r.Pattern, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Classifier{rules: append([]Rule(nil), rules...)}, nil
}

// Access returns the access level required for path
func (c *Classifier) Access(p string) Access {
	if c == nil {
		return Authenticated
	}

	p = path.Clean("/" + p)
	for _, r := range c.rules {
		if match(r.Pattern, p) {
			return r.Access
		}
	}

	return Authenticated
}

func (c *Classifier) IsPublic(p string) bool {
	return c.Access(p) == Public
}

func match(pattern string, p string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		if prefix == "" {
			return true
		}
		return p == prefix || strings.HasPrefix(p, prefix+"/") || segmentsMatch(prefix, p)
	}

	if strings.ContainsAny(pattern, "*?[") {
		ok, _ := path.Match(pattern, p)
		return ok
	}

	return pattern == p
}

// segmentsMatch reports whether wildcard prefix matches leading segments of p
func segmentsMatch(prefix string, p string) bool {
	if !strings.ContainsAny(prefix, "*?[") {
		return false
	}

	n := strings.Count(prefix, "/")
	parts := strings.SplitAfterN(p, "/", n+2)
	if len(parts) <= n {
		return false
	}

	head := strings.TrimSuffix(strings.Join(parts[:n+1], ""), "/")
	ok, _ := path.Match(prefix, head)
	return ok
}
