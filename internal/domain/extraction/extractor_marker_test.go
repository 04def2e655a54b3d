package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerExtractor_Extract(t *testing.T) {
	t.Run("parses marker-led record", func(t *testing.T) {
		doc := linesDoc(
			"Item",
			"Argan Oil Shampoo 500ml",
			"SKU:",
			"ARGAN500",
			"2",
			"£5.00",
			"20%",
			"£10.00",
		)

		result, err := MarkerExtractor{}.Extract(doc)
		require.NoError(t, err)
		require.Len(t, result.Products, 1)

		rec := result.Products[0]
		assert.Equal(t, "Argan Oil Shampoo 500ml", rec.Description)
		assert.Equal(t, "ARGAN500", rec.SellerSKU)
		assert.Equal(t, 2, rec.Quantity)
		assert.True(t, rec.UnitPrice.Equal(dec(t, "5.00")))
		assert.True(t, rec.TaxRate.Equal(dec(t, "20")))
		assert.True(t, rec.TotalPrice.Equal(dec(t, "10.00")))
	})

	t.Run("strips prefixed identifier", func(t *testing.T) {
		doc := linesDoc(
			"Item",
			"Beard Balm",
			"SKU: O-",
			"O-BALM22",
			"1",
			"£4.00",
			"20%",
			"£4.00",
		)

		result, err := MarkerExtractor{}.Extract(doc)
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "BALM22", result.Products[0].SellerSKU)
	})

	t.Run("reattaches identifier stranded by a page break", func(t *testing.T) {
		doc := Document{Pages: []RawPage{
			{Lines: []string{
				"Item",
				"Keratin Conditioner",
				"SKU:",
			}},
			{Lines: []string{
				"3",
				"£4.00",
				"20%",
				"£12.00",
				"Deep Repair",
				"KERATIN99",
			}},
		}}

		result, err := MarkerExtractor{}.Extract(doc)
		require.NoError(t, err)
		require.Len(t, result.Products, 1)

		rec := result.Products[0]
		assert.Equal(t, "Keratin Conditioner Deep Repair", rec.Description)
		assert.Equal(t, "KERATIN99", rec.SellerSKU)
		assert.Equal(t, 3, rec.Quantity)
		assert.True(t, rec.TotalPrice.Equal(dec(t, "12.00")))
	})

	t.Run("record without VAT suffix is dropped", func(t *testing.T) {
		doc := linesDoc(
			"Item",
			"Hair Mask",
			"SKU:",
			"MASK001",
			"2",
			"£5.00",
			"20",
			"£10.00",
		)

		result, err := MarkerExtractor{}.Extract(doc)
		require.NoError(t, err)
		assert.Empty(t, result.Products)
	})

	t.Run("footer lines never leak into descriptions", func(t *testing.T) {
		doc := linesDoc(
			"www.connectbeauty.example",
			"Curl Cream",
			"SKU:",
			"CURL123",
			"1",
			"£6.00",
			"20%",
			"£6.00",
		)

		result, err := MarkerExtractor{}.Extract(doc)
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Curl Cream", result.Products[0].Description)
	})

	t.Run("extracts invoice metadata", func(t *testing.T) {
		doc := linesDoc(
			"Invoice CB10432",
			"Order Number: CB10001",
			"Issue Date: March 4, 2024",
			"Total excl. VAT £50.00",
			"VAT (GB123456789) 20% £10.00",
			"Total incl. VAT £60.00",
		)

		result, err := MarkerExtractor{}.Extract(doc)
		require.NoError(t, err)
		assert.Equal(t, "CB10432", result.Metadata.InvoiceNo)
		assert.Equal(t, "CB10001", result.Metadata.OrderNo)
		assert.Equal(t, "March 4, 2024", result.Metadata.InvoiceDate)
		require.NotNil(t, result.Metadata.InvoiceTotal)
		assert.True(t, result.Metadata.InvoiceTotal.Equal(dec(t, "60.00")))
	})
}
