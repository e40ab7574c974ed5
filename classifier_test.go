package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestCatalog(t *testing.T) *RuleCatalog {
	catalog, err := ParseRules([]byte(`
channels:
  - 100
  - 300
coupon_channels:
  - 200
  - 300
products:
  - name: X
    regex: wireless mouse
    counter_regex: wired
  - name: Mouse Pad
    regex: mouse pad
stores:
  - name: MegaStore
    regex: megastore
`))
	require.NoError(t, err)
	return catalog
}

func TestClassifier_ProductMatch(t *testing.T) {
	classifier := NewClassifier(buildTestCatalog(t))

	result := classifier.Classify(100, "Wireless Mouse - R$ 99,90")
	assert.Equal(t, MatchProduct, result.Kind)
	assert.Equal(t, "X", result.Name)
}

func TestClassifier_EmptyText(t *testing.T) {
	classifier := NewClassifier(buildTestCatalog(t))

	result := classifier.Classify(100, "")
	assert.Equal(t, MatchNone, result.Kind)
}

func TestClassifier_CounterPatternSuppresses(t *testing.T) {
	classifier := NewClassifier(buildTestCatalog(t))

	result := classifier.Classify(100, "Wireless Mouse wired edition")
	assert.Equal(t, MatchNone, result.Kind)
}

func TestClassifier_LaterRuleMatchesAfterSuppression(t *testing.T) {
	classifier := NewClassifier(buildTestCatalog(t))

	// First rule is vetoed by its counter pattern, the second still matches.
	result := classifier.Classify(100, "Wireless Mouse wired edition with mouse pad")
	assert.Equal(t, MatchProduct, result.Kind)
	assert.Equal(t, "Mouse Pad", result.Name)
}

func TestClassifier_ConfiguredOrderWins(t *testing.T) {
	catalog, err := ParseRules([]byte(`
channels: [100]
products:
  - name: First
    regex: mouse
  - name: Second
    regex: wireless mouse
`))
	require.NoError(t, err)
	classifier := NewClassifier(catalog)

	result := classifier.Classify(100, "wireless mouse")
	assert.Equal(t, "First", result.Name)
}

func TestClassifier_CouponChannelIgnoresProductRules(t *testing.T) {
	classifier := NewClassifier(buildTestCatalog(t))

	// Channel 200 is coupon-only: a product pattern in the text is never
	// evaluated there.
	result := classifier.Classify(200, "Wireless Mouse - R$ 99,90")
	assert.Equal(t, MatchNone, result.Kind)

	result = classifier.Classify(200, "MEGASTORE coupon inside")
	assert.Equal(t, MatchStore, result.Kind)
	assert.Equal(t, "MegaStore", result.Name)
}

func TestClassifier_DualChannelProductFirst(t *testing.T) {
	classifier := NewClassifier(buildTestCatalog(t))

	// Channel 300 is in both sets. Product rules win when they match...
	result := classifier.Classify(300, "wireless mouse at megastore")
	assert.Equal(t, MatchProduct, result.Kind)
	assert.Equal(t, "X", result.Name)

	// ...and store rules are the fallback when they don't.
	result = classifier.Classify(300, "megastore flash sale")
	assert.Equal(t, MatchStore, result.Kind)

	// A suppressed product match also falls through to the store rules.
	result = classifier.Classify(300, "wireless mouse wired edition at megastore")
	assert.Equal(t, MatchStore, result.Kind)
}

func TestClassifier_UnknownChannel(t *testing.T) {
	classifier := NewClassifier(buildTestCatalog(t))

	result := classifier.Classify(42, "wireless mouse at megastore")
	assert.Equal(t, MatchNone, result.Kind)
}

func TestClassifier_CaseInsensitive(t *testing.T) {
	classifier := NewClassifier(buildTestCatalog(t))

	result := classifier.Classify(100, "WIRELESS MOUSE promo")
	assert.Equal(t, MatchProduct, result.Kind)

	// Counter patterns are case-insensitive too.
	result = classifier.Classify(100, "WIRELESS MOUSE WIRED")
	assert.Equal(t, MatchNone, result.Kind)
}
