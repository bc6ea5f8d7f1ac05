package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseDelimited(t *testing.T) {
	input := strings.Join([]string{
		`Product Name,Category,Retail Price,Wholesale Price,Stock,Description`,
		`Sugar 1kg,Groceries,150,130,20,`,
		`"Bolt, 10mm",Hardware,12,,5,"Pack of ""ten"""`,
		``,
		`Rice,Groceries,200`,
	}, "\n")

	rows, err := ParseDelimited(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Sugar 1kg", rows[0].Name)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Bolt, 10mm", rows[1].Name)
	assert.Equal(t, `Pack of "ten"`, rows[1].Description)
	assert.Equal(t, "", rows[1].WholesalePrice)
	assert.Equal(t, "Rice", rows[2].Name)
	assert.Equal(t, "", rows[2].Stock)
}

func TestParseDelimitedWithoutHeader(t *testing.T) {
	rows, err := ParseDelimited(strings.NewReader("Salt,Groceries,30,25,10\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Salt", rows[0].Name)
	assert.Equal(t, 1, rows[0].Line)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Category", "Price", "Wholesale", "Stock"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Flour 2kg", "Groceries", 180, 160, 12}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Tape", "Hardware", 90}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Flour 2kg", rows[0].Name)
	assert.Equal(t, "180", rows[0].RetailPrice)
	assert.Equal(t, "12", rows[0].Stock)
	assert.Equal(t, "Tape", rows[1].Name)
}

func TestImportProducts(t *testing.T) {
	fx := newFixture(t, false)
	input := strings.Join([]string{
		`name,category,price,wholesale,stock`,
		`Sugar 1kg,Groceries,150,130,20`,
		`,Groceries,10,10,1`,
		`Bad Price,Groceries,abc,10,1`,
		`Bolt,Hardware,12,n/a,lots`,
		`Nails,Hardware,0.125,0.1,5`,
		`Washer,Hardware,3.5,3.255,5`,
	}, "\n")
	rows, err := ParseDelimited(strings.NewReader(input))
	require.NoError(t, err)

	result, err := fx.inventory.ImportProducts(context.Background(), fx.shopA.ID, rows, "clerk")
	require.NoError(t, err)
	assert.Equal(t, 6, result.TotalRows)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 4, result.Failed)
	assert.Equal(t, "name", result.Errors[0].Field)
	assert.Equal(t, "retail_price", result.Errors[1].Field)
	assert.Equal(t, "retail_price", result.Errors[2].Field)
	assert.Equal(t, 6, result.Errors[2].Row)
	assert.Equal(t, "wholesale_price", result.Errors[3].Field)

	_, ok := fx.store.FindProductByName(fx.shopA.ID, "Nails")
	assert.False(t, ok)

	bolt, ok := fx.store.FindProductByName(fx.shopA.ID, "Bolt")
	require.True(t, ok)
	assert.True(t, bolt.WholesalePrice.Equal(dec(12)))
	assert.Equal(t, 0, bolt.Stock)

	entries := fx.activity.ListActivity(ListActivityInput{ShopID: &fx.shopA.ID})
	require.NotEmpty(t, entries)
	assert.Equal(t, enum.ActivityAddProducts, entries[0].Action)
	assert.Equal(t, "clerk", entries[0].PerformedBy)

	count := 0
	for _, e := range entries {
		if e.Action == enum.ActivityAddProducts {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
