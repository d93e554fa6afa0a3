// Package patterns loads and compiles the vendor pattern registry: one rule
// set per known vendor layout plus the mandatory generic fallback. The
// registry is built once at startup, validated against a JSON schema, and
// is immutable afterwards, so parallel assemblies share it freely.
package patterns

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

type lineItemsConfig struct {
	TableStart string `json:"table_start"`
	Row        string `json:"row"`
	TableEnd   string `json:"table_end"`
}

type patternsConfig struct {
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"`
	DueDate       string          `json:"due_date,omitempty"`
	TotalAmount   string          `json:"total_amount"`
	Vendor        string          `json:"vendor,omitempty"`
	Participant   string          `json:"participant"`
	LineItems     lineItemsConfig `json:"line_items"`
}

type ruleSetConfig struct {
	Key      string         `json:"key,omitempty"`
	Name     string         `json:"name"`
	Match    string         `json:"match,omitempty"`
	Patterns patternsConfig `json:"patterns"`
}

type registryConfig struct {
	Vendors []ruleSetConfig `json:"vendors"`
	Generic *ruleSetConfig  `json:"generic"`
}

// Registry holds the compiled rule sets. Vendor order is config declaration
// order; that order is part of the contract (earlier-declared vendors take
// priority over later ones and over generic).
type Registry struct {
	vendors []*RuleSet
	generic *RuleSet
	byKey   map[string]*RuleSet
}

// Load reads and compiles the registry from a JSON file.
func Load(path string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.ConfigError("read pattern registry "+path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	logger.Info("pattern registry loaded", "path", path, "vendors", len(reg.vendors))
	return reg, nil
}

// Parse compiles a registry from raw JSON config bytes.
func Parse(data []byte) (*Registry, error) {
	if err := validateConfigJSON(data); err != nil {
		return nil, common.ConfigError("pattern registry schema", err)
	}

	var cfg registryConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, common.ConfigError("decode pattern registry", err)
	}
	if cfg.Generic == nil {
		// The schema already requires this; kept as a guard for callers
		// constructing config programmatically.
		return nil, common.ConfigError("pattern registry: generic rule set is required", nil)
	}

	reg := &Registry{byKey: make(map[string]*RuleSet, len(cfg.Vendors)+1)}
	for _, vc := range cfg.Vendors {
		if vc.Key == constants.GenericKey {
			return nil, common.ConfigError("pattern registry: vendor key 'generic' is reserved", nil)
		}
		if _, dup := reg.byKey[vc.Key]; dup {
			return nil, common.ConfigError("pattern registry: duplicate vendor key "+vc.Key, nil)
		}
		rs, err := buildRuleSet(vc.Key, vc, false)
		if err != nil {
			return nil, err
		}
		reg.vendors = append(reg.vendors, rs)
		reg.byKey[vc.Key] = rs
	}

	gen, err := buildRuleSet(constants.GenericKey, *cfg.Generic, true)
	if err != nil {
		return nil, err
	}
	reg.generic = gen
	reg.byKey[constants.GenericKey] = gen

	return reg, nil
}

// Vendors returns the vendor rule sets in declaration order. Callers must
// not mutate the returned slice.
func (r *Registry) Vendors() []*RuleSet {
	return r.vendors
}

// Generic returns the mandatory fallback rule set.
func (r *Registry) Generic() *RuleSet {
	return r.generic
}

// Lookup returns the rule set for a vendor key (including "generic").
func (r *Registry) Lookup(key string) (*RuleSet, bool) {
	rs, ok := r.byKey[key]
	return rs, ok
}
