package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	t.Run("parses standard catalog CSV", func(t *testing.T) {
		csv := `name,sku
Argan Shampoo 500ml,ARG-500
Keratin Conditioner,KER-100
Beard Balm,`

		parser := NewParser(ParserConfig{})
		result, err := parser.Parse(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalRows)
		assert.Equal(t, 3, result.ParsedRows)
		require.Len(t, result.Items, 3)

		item := result.Items[0]
		assert.Equal(t, "Argan Shampoo 500ml", item.Name)
		assert.Equal(t, "ARG-500", item.Identifier)

		assert.Empty(t, result.Items[2].Identifier)
	})

	t.Run("matches alternative column names", func(t *testing.T) {
		csv := `product name,barcode
Lip Gloss Shade A,12345678901234`

		parser := NewParser(ParserConfig{})
		result, err := parser.Parse(strings.NewReader(csv))

		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Lip Gloss Shade A", result.Items[0].Name)
		assert.Equal(t, "12345678901234", result.Items[0].Identifier)
	})

	t.Run("skips rows without a name", func(t *testing.T) {
		csv := `name,sku
Argan Shampoo 500ml,ARG-500
,ORPHAN-1`

		parser := NewParser(ParserConfig{})
		result, err := parser.Parse(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, 1, result.ParsedRows)
		assert.Equal(t, 1, result.SkippedRows)
	})

	t.Run("collapses repeated whitespace in names", func(t *testing.T) {
		csv := `name,sku
Argan   Shampoo  500ml,ARG-500`

		parser := NewParser(ParserConfig{})
		result, err := parser.Parse(strings.NewReader(csv))

		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Argan Shampoo 500ml", result.Items[0].Name)
	})
}

func TestDedupe(t *testing.T) {
	t.Run("collapses case-insensitive duplicates", func(t *testing.T) {
		items := []ParsedItem{
			{Name: "Argan Shampoo", Identifier: ""},
			{Name: "ARGAN SHAMPOO", Identifier: "ARG-1"},
			{Name: "Beard Balm", Identifier: "BB-2"},
		}

		out := Dedupe(items)
		require.Len(t, out, 2)

		// First spelling wins, first non-empty identifier is kept.
		assert.Equal(t, "Argan Shampoo", out[0].Name)
		assert.Equal(t, "ARG-1", out[0].Identifier)
		assert.Equal(t, "Beard Balm", out[1].Name)
	})

	t.Run("existing identifier is not overwritten", func(t *testing.T) {
		items := []ParsedItem{
			{Name: "Argan Shampoo", Identifier: "ARG-1"},
			{Name: "argan shampoo", Identifier: "ARG-2"},
		}

		out := Dedupe(items)
		require.Len(t, out, 1)
		assert.Equal(t, "ARG-1", out[0].Identifier)
	})
}
