package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSKUExtractor_Extract(t *testing.T) {
	t.Run("parses five-line record keyed by short SKU", func(t *testing.T) {
		doc := linesDoc(
			"Phone Case Clear",
			"10482",
			"Excl. VAT: £2.00",
			"4",
			"Excl. VAT: £8.00",
		)

		result, err := SKUExtractor{}.Extract(doc)
		require.NoError(t, err)
		require.Len(t, result.Products, 1)

		rec := result.Products[0]
		assert.Equal(t, "Phone Case Clear", rec.Description)
		assert.Equal(t, "10482", rec.SellerSKU)
		assert.Equal(t, 4, rec.Quantity)
		assert.True(t, rec.UnitPrice.Equal(dec(t, "2.00")))
		assert.True(t, rec.TotalPrice.Equal(dec(t, "8.00")))
		assert.True(t, rec.TaxRate.Equal(dec(t, "20")))
	})

	t.Run("excluded prefixes never start a record", func(t *testing.T) {
		doc := linesDoc(
			"Grand Total (Excl.Tax)",
			"10482",
			"Excl. VAT: £2.00",
			"4",
			"Excl. VAT: £8.00",
		)

		result, err := SKUExtractor{}.Extract(doc)
		require.NoError(t, err)
		assert.Empty(t, result.Products)
	})

	t.Run("long numbers are not SKU boundaries", func(t *testing.T) {
		doc := linesDoc(
			"Phone Case Clear",
			"1234567",
			"Excl. VAT: £2.00",
			"4",
			"Excl. VAT: £8.00",
		)

		result, err := SKUExtractor{}.Extract(doc)
		require.NoError(t, err)
		assert.Empty(t, result.Products)
	})

	t.Run("extracts invoice metadata", func(t *testing.T) {
		doc := linesDoc(
			"Order # 100045",
			"Complete Order Date: 2 May 2024",
			"Grand Total (Excl.Tax) £40.00",
			"Tax £8.00",
			"Grand Total (Incl.Tax) £48.00",
		)

		result, err := SKUExtractor{}.Extract(doc)
		require.NoError(t, err)
		assert.Equal(t, "100045", result.Metadata.InvoiceNo)
		assert.Equal(t, "100045", result.Metadata.OrderNo)
		assert.Equal(t, "2 May 2024", result.Metadata.InvoiceDate)
		require.NotNil(t, result.Metadata.InvoiceTotal)
		assert.True(t, result.Metadata.InvoiceTotal.Equal(dec(t, "48.00")))
		require.NotNil(t, result.Metadata.TotalNetAmount)
		assert.True(t, result.Metadata.TotalNetAmount.Equal(dec(t, "40.00")))
		require.NotNil(t, result.Metadata.TotalVATAmount)
		assert.True(t, result.Metadata.TotalVATAmount.Equal(dec(t, "8.00")))
	})
}
