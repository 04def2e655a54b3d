package extraction

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata(t *testing.T) {
	patterns := []MetadataPattern{
		{FieldInvoiceNo, regexp.MustCompile(`Invoice:\s*(\w+)`)},
		{FieldInvoiceNo, regexp.MustCompile(`Ref:\s*(\w+)`)},
		{FieldInvoiceTotal, regexp.MustCompile(`Total:\s*£([\d.,]+)`)},
	}

	t.Run("first pattern to fill a field wins", func(t *testing.T) {
		md := ExtractMetadata("Invoice: INV1\nRef: R99\nTotal: £5.00", patterns)
		assert.Equal(t, "INV1", md.InvoiceNo)
		require.NotNil(t, md.InvoiceTotal)
		assert.True(t, md.InvoiceTotal.Equal(dec(t, "5.00")))
	})

	t.Run("later patterns fill what earlier ones missed", func(t *testing.T) {
		md := ExtractMetadata("Ref: R99", patterns)
		assert.Equal(t, "R99", md.InvoiceNo)
		assert.Nil(t, md.InvoiceTotal)
	})

	t.Run("every field is optional", func(t *testing.T) {
		md := ExtractMetadata("nothing of interest", patterns)
		assert.Equal(t, InvoiceMetadata{}, md)
	})
}

func TestComputeTotals(t *testing.T) {
	products := []ProductRecord{
		{TotalPrice: dec(t, "10.00"), TaxRate: dec(t, "20")},
		{TotalPrice: dec(t, "20.00"), TaxRate: dec(t, "20")},
		{TotalPrice: dec(t, "5.00"), TaxRate: dec(t, "20")},
	}

	net, vat, total := computeTotals(products)
	assert.True(t, net.Equal(dec(t, "35.00")))
	assert.True(t, vat.Equal(dec(t, "7.00")))
	assert.True(t, total.Equal(dec(t, "42.00")))
}
