package main

type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchProduct
	MatchStore
)

func (k MatchKind) String() string {
	switch k {
	case MatchProduct:
		return MATCH_KIND_PRODUCT
	case MatchStore:
		return MATCH_KIND_STORE
	default:
		return MATCH_KIND_NONE
	}
}

// MatchResult is the outcome of classifying one message. Built fresh per
// event, never stored.
type MatchResult struct {
	Kind MatchKind
	Name string
}

type Classifier struct {
	catalog *RuleCatalog
}

func NewClassifier(catalog *RuleCatalog) *Classifier {
	return &Classifier{catalog: catalog}
}

// Classify decides whether a message from channelID is a product match, a
// store/coupon match, or nothing. Product rules run only for product
// channels and are walked in configured order, first match wins. A rule's
// counter pattern vetoes that rule alone; a later rule can still match the
// same text. Store rules run only for coupon channels and only when no
// product rule matched.
func (c *Classifier) Classify(channelID int64, text string) MatchResult {
	if text == "" {
		return MatchResult{Kind: MatchNone}
	}

	if c.catalog.IsProductChannel(channelID) {
		for _, rule := range c.catalog.Products {
			if !rule.Pattern.MatchString(text) {
				continue
			}
			if rule.CounterPattern != nil && rule.CounterPattern.MatchString(text) {
				continue
			}
			return MatchResult{Kind: MatchProduct, Name: rule.Name}
		}
	}

	if c.catalog.IsCouponChannel(channelID) {
		for _, rule := range c.catalog.Stores {
			if rule.Pattern.MatchString(text) {
				return MatchResult{Kind: MatchStore, Name: rule.Name}
			}
		}
	}

	return MatchResult{Kind: MatchNone}
}
