package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a malformed or incomplete rules document. It aborts
// startup; there is no partial catalog.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "rules config: " + e.Reason
}

// RuleCompileError identifies the exact rule whose pattern failed to compile.
type RuleCompileError struct {
	Rule  string
	Field string
	Err   error
}

func (e *RuleCompileError) Error() string {
	return fmt.Sprintf("rule %q: %s does not compile: %v", e.Rule, e.Field, e.Err)
}

func (e *RuleCompileError) Unwrap() error {
	return e.Err
}

// ProductRule matches message text against a tracked product. CounterPattern,
// when present, vetoes an otherwise successful match.
type ProductRule struct {
	Name           string
	Pattern        *regexp.Regexp
	CounterPattern *regexp.Regexp
}

// StoreRule matches message text against a tracked store/coupon promotion.
type StoreRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// RuleCatalog is the parsed rules document. It is built once at startup and
// never mutated afterwards, so it is safe to share without locking.
type RuleCatalog struct {
	Products      []ProductRule
	Stores        []StoreRule
	AlertTemplate string

	productChannels map[int64]struct{}
	couponChannels  map[int64]struct{}
	allChannels     []int64
}

type productRuleConfig struct {
	Name         string `yaml:"name"`
	Regex        string `yaml:"regex"`
	CounterRegex string `yaml:"counter_regex"`
}

type storeRuleConfig struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`
}

// channelID accepts YAML integers as well as numeric strings ("-1001234",
// "1234"). The -100 prefix of private channel IDs stays part of the value;
// it is only stripped when a message link is built.
type channelID int64

func (c *channelID) UnmarshalYAML(value *yaml.Node) error {
	var raw interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case int:
		*c = channelID(v)
	case int64:
		*c = channelID(v)
	case uint64:
		*c = channelID(v)
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("channel id %q is not numeric", v)
		}
		*c = channelID(id)
	default:
		return fmt.Errorf("channel id has unsupported type %T", raw)
	}
	return nil
}

type rulesDocument struct {
	Channels       []channelID         `yaml:"channels"`
	CouponChannels []channelID         `yaml:"coupon_channels"`
	Products       []productRuleConfig `yaml:"products"`
	Stores         []storeRuleConfig   `yaml:"stores"`
	AlertTemplate  string              `yaml:"alert_template"`
}

// LoadRules reads and parses the rules document at path.
func LoadRules(path string) (*RuleCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	return ParseRules(data)
}

// ParseRules builds an immutable RuleCatalog from a YAML rules document.
func ParseRules(data []byte) (*RuleCatalog, error) {
	doc := rulesDocument{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	if len(doc.Channels) == 0 {
		return nil, &ConfigError{Reason: "channels section is missing or empty"}
	}

	catalog := &RuleCatalog{
		AlertTemplate:   doc.AlertTemplate,
		productChannels: make(map[int64]struct{}, len(doc.Channels)),
		couponChannels:  make(map[int64]struct{}, len(doc.CouponChannels)),
	}

	for _, p := range doc.Products {
		pattern, err := compilePattern(p.Name, "regex", p.Regex)
		if err != nil {
			return nil, err
		}
		rule := ProductRule{Name: p.Name, Pattern: pattern}
		if p.CounterRegex != "" {
			counter, err := compilePattern(p.Name, "counter_regex", p.CounterRegex)
			if err != nil {
				return nil, err
			}
			rule.CounterPattern = counter
		}
		catalog.Products = append(catalog.Products, rule)
	}

	for _, s := range doc.Stores {
		pattern, err := compilePattern(s.Name, "regex", s.Regex)
		if err != nil {
			return nil, err
		}
		catalog.Stores = append(catalog.Stores, StoreRule{Name: s.Name, Pattern: pattern})
	}

	seen := map[int64]struct{}{}
	for _, ch := range doc.Channels {
		catalog.productChannels[int64(ch)] = struct{}{}
		if _, ok := seen[int64(ch)]; !ok {
			seen[int64(ch)] = struct{}{}
			catalog.allChannels = append(catalog.allChannels, int64(ch))
		}
	}
	for _, ch := range doc.CouponChannels {
		catalog.couponChannels[int64(ch)] = struct{}{}
		if _, ok := seen[int64(ch)]; !ok {
			seen[int64(ch)] = struct{}{}
			catalog.allChannels = append(catalog.allChannels, int64(ch))
		}
	}

	return catalog, nil
}

// compilePattern compiles a configured pattern case-insensitively.
func compilePattern(rule, field, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, &RuleCompileError{Rule: rule, Field: field, Err: errors.New("pattern is empty")}
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, &RuleCompileError{Rule: rule, Field: field, Err: err}
	}
	return re, nil
}

func (c *RuleCatalog) IsProductChannel(id int64) bool {
	_, ok := c.productChannels[id]
	return ok
}

func (c *RuleCatalog) IsCouponChannel(id int64) bool {
	_, ok := c.couponChannels[id]
	return ok
}

// Watches reports whether id belongs to the union of both channel sets. The
// transport uses it to drop events from unrelated chats before they reach
// the pipeline.
func (c *RuleCatalog) Watches(id int64) bool {
	return c.IsProductChannel(id) || c.IsCouponChannel(id)
}

// AllChannels returns the deduplicated union of product and coupon channels.
func (c *RuleCatalog) AllChannels() []int64 {
	return c.allChannels
}

func (c *RuleCatalog) ProductChannelCount() int {
	return len(c.productChannels)
}

func (c *RuleCatalog) CouponChannelCount() int {
	return len(c.couponChannels)
}
