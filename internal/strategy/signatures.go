// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package strategy

import "regexp"

// errorSignature describes one class of technical error and the canned
// search phrasings that work well for it. Templates substitute the query
// with %s.
type errorSignature struct {
	class     string
	patterns  []*regexp.Regexp
	templates []string
}

// errorSignatures is matched in order; every matching class emits its own
// error strategy.
var errorSignatures = []errorSignature{
	{
		class: "permission",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bEACCES\b`),
			regexp.MustCompile(`(?i)\bEPERM\b`),
			regexp.MustCompile(`(?i)permission denied`),
			regexp.MustCompile(`(?i)access (is )?denied`),
			regexp.MustCompile(`(?i)operation not permitted`),
		},
		templates: []string{
			"%s fix",
			"%s permission error solution",
			"how to fix %s",
		},
	},
	{
		class: "not_found",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bENOENT\b`),
			regexp.MustCompile(`(?i)no such file or directory`),
			regexp.MustCompile(`(?i)cannot find module`),
			regexp.MustCompile(`(?i)module not found`),
			regexp.MustCompile(`(?i)command not found`),
			regexp.MustCompile(`(?i)\b404\b`),
		},
		templates: []string{
			"%s solution",
			"%s missing dependency fix",
			"how to resolve %s",
		},
	},
	{
		class: "connection",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bECONNREFUSED\b`),
			regexp.MustCompile(`(?i)\bETIMEDOUT\b`),
			regexp.MustCompile(`(?i)connection (refused|reset|timed out)`),
			regexp.MustCompile(`(?i)network (is )?unreachable`),
			regexp.MustCompile(`(?i)could not resolve host`),
		},
		templates: []string{
			"%s troubleshooting",
			"%s network error fix",
			"%s firewall proxy settings",
		},
	},
	{
		class: "syntax",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)syntax ?error`),
			regexp.MustCompile(`(?i)unexpected token`),
			regexp.MustCompile(`(?i)parse error`),
			regexp.MustCompile(`(?i)unexpected (EOF|end of (file|input))`),
		},
		templates: []string{
			"%s fix",
			"%s common causes",
		},
	},
	{
		class: "memory",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)out of memory`),
			regexp.MustCompile(`(?i)\bENOMEM\b`),
			regexp.MustCompile(`(?i)heap (limit|out of memory)`),
			regexp.MustCompile(`(?i)memory leak`),
		},
		templates: []string{
			"%s fix",
			"%s increase memory limit",
		},
	},
	{
		class: "null_reference",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)undefined is not a function`),
			regexp.MustCompile(`(?i)cannot read propert(y|ies) of (null|undefined)`),
			regexp.MustCompile(`(?i)null ?pointer`),
			regexp.MustCompile(`(?i)nil pointer dereference`),
			regexp.MustCompile(`(?i)NoneType.* has no attribute`),
		},
		templates: []string{
			"%s fix",
			"%s debugging guide",
		},
	},
}

// matchErrorSignatures returns the signatures whose pattern sets match the
// query, in table order.
func matchErrorSignatures(query string) []errorSignature {
	var matched []errorSignature
	for _, sig := range errorSignatures {
		for _, p := range sig.patterns {
			if p.MatchString(query) {
				matched = append(matched, sig)
				break
			}
		}
	}
	return matched
}
