package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	doc := `
channels:
  - -1001234567890
  - "-1009999999999"
  - "123456"
coupon_channels:
  - -1009999999999
  - 777
products:
  - name: Wireless Mouse
    regex: wireless mouse
    counter_regex: wired
  - name: Keyboard
    regex: mechanical keyboard
stores:
  - name: MegaStore
    regex: megastore
alert_template: "{product_name} for {product_price}"
`
	catalog, err := ParseRules([]byte(doc))
	require.NoError(t, err)

	t.Run("ChannelSets", func(t *testing.T) {
		assert.True(t, catalog.IsProductChannel(-1001234567890))
		assert.True(t, catalog.IsProductChannel(-1009999999999))
		assert.True(t, catalog.IsProductChannel(123456))
		assert.True(t, catalog.IsCouponChannel(-1009999999999))
		assert.True(t, catalog.IsCouponChannel(777))
		assert.False(t, catalog.IsCouponChannel(123456))
	})

	t.Run("UnionDeduplicated", func(t *testing.T) {
		all := catalog.AllChannels()
		assert.Len(t, all, 4)

		seen := map[int64]int{}
		for _, id := range all {
			seen[id]++
		}
		for id, count := range seen {
			assert.Equal(t, 1, count, "channel %d appears more than once", id)
		}
		assert.True(t, catalog.Watches(777))
		assert.False(t, catalog.Watches(42))
	})

	t.Run("Rules", func(t *testing.T) {
		require.Len(t, catalog.Products, 2)
		assert.Equal(t, "Wireless Mouse", catalog.Products[0].Name)
		assert.NotNil(t, catalog.Products[0].CounterPattern)
		assert.Nil(t, catalog.Products[1].CounterPattern)

		require.Len(t, catalog.Stores, 1)
		assert.Equal(t, "MegaStore", catalog.Stores[0].Name)
	})

	t.Run("CaseInsensitiveCompile", func(t *testing.T) {
		assert.True(t, catalog.Products[0].Pattern.MatchString("WIRELESS MOUSE on sale"))
	})

	t.Run("AlertTemplate", func(t *testing.T) {
		assert.Equal(t, "{product_name} for {product_price}", catalog.AlertTemplate)
	})
}

func TestParseRules_MissingChannels(t *testing.T) {
	_, err := ParseRules([]byte(`products: []`))
	require.Error(t, err)

	var configErr *ConfigError
	assert.True(t, errors.As(err, &configErr))
}

func TestParseRules_NonNumericChannel(t *testing.T) {
	_, err := ParseRules([]byte(`
channels:
  - some_channel_name
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not numeric")
}

func TestParseRules_BadRegex(t *testing.T) {
	_, err := ParseRules([]byte(`
channels: [1]
products:
  - name: Broken
    regex: "(["
`))
	require.Error(t, err)

	var compileErr *RuleCompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "Broken", compileErr.Rule)
	assert.Equal(t, "regex", compileErr.Field)
}

func TestParseRules_BadCounterRegex(t *testing.T) {
	_, err := ParseRules([]byte(`
channels: [1]
products:
  - name: Mouse
    regex: mouse
    counter_regex: "(["
`))
	require.Error(t, err)

	var compileErr *RuleCompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "counter_regex", compileErr.Field)
}

func TestParseRules_EmptyPattern(t *testing.T) {
	_, err := ParseRules([]byte(`
channels: [1]
stores:
  - name: NoPattern
    regex: ""
`))
	require.Error(t, err)

	var compileErr *RuleCompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "NoPattern", compileErr.Rule)
}

func TestParseRules_PrefixPreservedInCatalog(t *testing.T) {
	catalog, err := ParseRules([]byte(`
channels:
  - "-1001234567890"
`))
	require.NoError(t, err)

	// The -100 prefix stays part of the stored id; it is only stripped when
	// a message link is built.
	assert.True(t, catalog.IsProductChannel(-1001234567890))
	assert.False(t, catalog.IsProductChannel(1234567890))
}
