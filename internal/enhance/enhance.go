// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enhance normalizes raw research queries before planning: common
// typo and leet-speak corrections, punctuation collapsing, and whitespace
// normalization. Enhancement never fails; at worst the query is returned
// unchanged.
package enhance

import (
	"regexp"
	"strings"
)

// substitutions maps character-obfuscated or commonly mistyped technical
// terms to their canonical form. Lookup is case-insensitive per token.
var substitutions = map[string]string{
	"pyth0n":     "python",
	"pyhton":     "python",
	"pytohn":     "python",
	"javascrpit": "javascript",
	"javascirpt": "javascript",
	"jav@script": "javascript",
	"n0de":       "node",
	"nodejs":     "node.js",
	"dokcer":     "docker",
	"dcoker":     "docker",
	"kubernets":  "kubernetes",
	"kuberentes": "kubernetes",
	"gtihub":     "github",
	"githbu":     "github",
	"widnows":    "windows",
	"wnidows":    "windows",
	"lniux":      "linux",
	"ubunut":     "ubuntu",
	"ubutnu":     "ubuntu",
	"pstgres":    "postgres",
	"postgre":    "postgres",
	"mysq1":      "mysql",
	"teh":        "the",
	"recieve":    "receive",
	"seperate":   "separate",
}

// trailingPunct matches two or more terminal punctuation marks.
var trailingPunct = regexp.MustCompile(`[?!.]{2,}$`)

// Enhance returns a cleaned version of the query: token-level typo and
// leet-speak substitution, repeated terminal punctuation collapsed to one
// mark, and whitespace normalized. Pure and total; the cleaned string equals
// the input when nothing applies.
func Enhance(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		if canonical, ok := substitutions[strings.ToLower(f)]; ok {
			fields[i] = canonical
		}
	}

	cleaned := strings.Join(fields, " ")
	if m := trailingPunct.FindString(cleaned); m != "" {
		cleaned = strings.TrimSuffix(cleaned, m) + m[:1]
	}
	return cleaned
}
