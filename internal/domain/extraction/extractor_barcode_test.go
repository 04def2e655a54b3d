package extraction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func linesDoc(lines ...string) Document {
	return Document{Pages: []RawPage{{Lines: lines}}}
}

func TestBarcodeExtractor_Extract(t *testing.T) {
	t.Run("reconstructs five-line record", func(t *testing.T) {
		doc := linesDoc(
			"Lip Gloss Shade A",
			"12345678901234",
			"3",
			"£2.50",
			"£7.50",
		)

		result, err := BarcodeExtractor{}.Extract(doc)
		require.NoError(t, err)
		require.Len(t, result.Products, 1)

		rec := result.Products[0]
		assert.Equal(t, "Lip Gloss Shade A", rec.Description)
		assert.Equal(t, "12345678901234", rec.SellerSKU)
		assert.Equal(t, 3, rec.Quantity)
		assert.True(t, rec.UnitPrice.Equal(dec(t, "2.50")))
		assert.True(t, rec.TotalPrice.Equal(dec(t, "7.50")))
		assert.True(t, rec.TaxRate.Equal(dec(t, "20")))
	})

	t.Run("discards window with unparseable price", func(t *testing.T) {
		doc := linesDoc(
			"Lip Gloss Shade A",
			"12345678901234",
			"3",
			"price tbc",
			"£7.50",
		)

		result, err := BarcodeExtractor{}.Extract(doc)
		require.NoError(t, err)
		assert.Empty(t, result.Products)
	})

	t.Run("zero quantity is dropped", func(t *testing.T) {
		doc := linesDoc(
			"Lip Gloss Shade A",
			"12345678901234",
			"0",
			"£2.50",
			"£0.00",
		)

		result, err := BarcodeExtractor{}.Extract(doc)
		require.NoError(t, err)
		assert.Empty(t, result.Products)
	})

	t.Run("price and header lines never start a record", func(t *testing.T) {
		doc := linesDoc(
			"ITEM DESCRIPTION",
			"£3.00",
			"Nail Polish Red",
			"87654321",
			"2",
			"£3.00",
			"£6.00",
		)

		result, err := BarcodeExtractor{}.Extract(doc)
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Nail Polish Red", result.Products[0].Description)
	})

	t.Run("extracts invoice metadata", func(t *testing.T) {
		doc := linesDoc(
			"ORDER NO #VR9911",
			"ORDER DATE 2024-03-01",
			"SUB TOTAL : £ 10.00",
			"VAT (20%) : £ 2.00",
			"TOTAL : £ 12.00",
		)

		result, err := BarcodeExtractor{}.Extract(doc)
		require.NoError(t, err)
		assert.Equal(t, "VR9911", result.Metadata.InvoiceNo)
		assert.Equal(t, "2024-03-01", result.Metadata.InvoiceDate)
		require.NotNil(t, result.Metadata.InvoiceTotal)
		assert.True(t, result.Metadata.InvoiceTotal.Equal(dec(t, "12.00")))
		require.NotNil(t, result.Metadata.TotalNetAmount)
		assert.True(t, result.Metadata.TotalNetAmount.Equal(dec(t, "10.00")))
		require.NotNil(t, result.Metadata.TotalVATAmount)
		assert.True(t, result.Metadata.TotalVATAmount.Equal(dec(t, "2.00")))
	})

	t.Run("same input yields same output", func(t *testing.T) {
		doc := linesDoc(
			"Lip Gloss Shade A",
			"12345678901234",
			"3",
			"£2.50",
			"£7.50",
		)

		first, err := BarcodeExtractor{}.Extract(doc)
		require.NoError(t, err)
		second, err := BarcodeExtractor{}.Extract(doc)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
