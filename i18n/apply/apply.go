// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package apply rewrites template documents in bulk, turning literal text into
placeholders.

Rules are read from a YAML file and applied in order to every template
document of a tree:

	- find: "Discover Our Story"
	  replace: "{{t hero.ctaButton}}"
	  description: Hero call to action
	- find: '<a href="news\.html">News</a>'
	  regex: true
	  replace: '<a href="news.html">{{t nav.news}}</a>'

Literal rules replace every occurrence. Regex rules use RE2 syntax and may
refer to submatches as $1 or ${name} in replace.
*/
package apply

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"

	"codeberg.org/petstar/sitebuild/i18n"
)

var (
	errEmptyFind = errors.New("find must not be empty")
	errNoRules   = errors.New("no rules defined")
)

// Rule replaces Find with Replace.
type Rule struct {
	Find        string `yaml:"find"`
	Regex       bool   `yaml:"regex"`
	Replace     string `yaml:"replace"`
	Description string `yaml:"description"`

	re *regexp.Regexp
}

// String returns the description, or Find when there is none.
func (r Rule) String() string {
	if r.Description != "" {
		return r.Description
	}

	return r.Find
}

// RuleError reports an invalid rule. Index is 0-based.
type RuleError struct {
	Index int
	Rule  string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d (%s): %v", e.Index+1, e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// ParseRules decodes and compiles a YAML list of rules.
func ParseRules(data []byte) ([]Rule, error) {
	var rules []Rule

	if err := yaml.UnmarshalWithOptions(data, &rules, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	if len(rules) == 0 {
		return nil, errNoRules
	}

	for i := range rules {
		if err := rules[i].compile(); err != nil {
			return nil, &RuleError{Index: i, Rule: rules[i].String(), Err: err}
		}
	}

	return rules, nil
}

// LoadRules reads rules from a YAML file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		return nil, err
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rules, nil
}

func (r *Rule) compile() error {
	if r.Find == "" {
		return errEmptyFind
	}

	if !r.Regex {
		return nil
	}

	re, err := regexp.Compile(r.Find)
	if err != nil {
		return err
	}

	r.re = re

	return nil
}

// apply returns content with the rule applied.
func (r *Rule) apply(content string) string {
	if r.Regex {
		// rules built by hand rather than through ParseRules
		if r.re == nil {
			r.re = regexp.MustCompile(r.Find)
		}

		return r.re.ReplaceAllString(content, r.Replace)
	}

	return strings.ReplaceAll(content, r.Find, r.Replace)
}

// ApplyContent applies rules to content in order and returns the result
// together with the rules that changed it.
func ApplyContent(content string, rules []Rule) (string, []string) {
	var fired []string

	for i := range rules {
		next := rules[i].apply(content)
		if next != content {
			fired = append(fired, rules[i].String())
			content = next
		}
	}

	return content, fired
}

// Result describes what happened to one document.
type Result struct {
	File    string   // relative to the tree root for ApplyTree
	Applied []string // rules that changed the document, in order
	Changed bool
}

// ApplyFile applies rules to the document at path. Changed documents are
// written back unless dryRun is set.
func ApplyFile(path string, rules []Rule, dryRun bool) (Result, error) {
	res := Result{File: path}

	info, err := os.Stat(path)
	if err != nil {
		return res, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		return res, err
	}

	out, fired := ApplyContent(string(data), rules)

	res.Applied = fired
	res.Changed = out != string(data)

	if !res.Changed || dryRun {
		return res, nil
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return res, err
	}

	return res, nil
}

// ApplyTree applies rules to every template document below root, in lexical
// order. It stops at the first document that cannot be read or written.
func ApplyTree(root string, extensions []string, rules []Rule, dryRun bool) ([]Result, error) {
	var results []Result

	err := i18n.WalkTemplates(root, extensions, func(path, rel string) error {
		res, err := ApplyFile(path, rules, dryRun)
		if err != nil {
			return err
		}

		res.File = rel
		results = append(results, res)

		return nil
	})

	return results, err
}

// Modified counts the results that changed.
func Modified(results []Result) int {
	n := 0

	for _, r := range results {
		if r.Changed {
			n++
		}
	}

	return n
}
