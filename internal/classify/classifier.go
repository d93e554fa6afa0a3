// Package classify selects the rule set to apply to a document's raw text.
package classify

import (
	"log/slog"

	"github.com/joseph-ayodele/invoice-extractor/internal/patterns"
)

type Classifier struct {
	registry *patterns.Registry
	logger   *slog.Logger
}

func New(registry *patterns.Registry, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{registry: registry, logger: logger}
}

// Classify returns the first vendor rule set (in declaration order) whose
// discriminating pattern matches text, or the generic fallback. It is
// total: every input, including the empty string, yields a rule set.
func (c *Classifier) Classify(text string) *patterns.RuleSet {
	for _, rs := range c.registry.Vendors() {
		if rs.Matches(text) {
			c.logger.Debug("layout classified", "rule_set", rs.Key)
			return rs
		}
	}
	c.logger.Debug("layout classified", "rule_set", "generic")
	return c.registry.Generic()
}
