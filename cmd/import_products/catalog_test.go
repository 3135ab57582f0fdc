package main

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog(t *testing.T) {
	// ISO-8859-1: ñ = 0xF1
	data := []byte("sku;nombre;precio;costo;stock_minimo;stock_inicial\n" +
		"TOR-01;Tornillo ma\xf1ana;1500,50;900;5;10\n" +
		"ARA-02;Arandela;200;120;;\n" +
		"MAL-03;Mal;abc;1;1;1\n" +
		"CORTA;Solo dos\n")

	rows, rowErrs, err := parseCatalog(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "TOR-01", rows[0].SKU)
	assert.Equal(t, "Tornillo mañana", rows[0].Name)
	assert.True(t, decimal.RequireFromString("1500.50").Equal(rows[0].Price))
	assert.Equal(t, int64(5), rows[0].MinStock)
	assert.Equal(t, int64(10), rows[0].InitialStock)

	assert.Equal(t, int64(0), rows[1].MinStock)
	assert.Equal(t, int64(0), rows[1].InitialStock)

	require.Len(t, rowErrs, 2)
	assert.ErrorContains(t, rowErrs[0], "línea 4: precio")
	assert.ErrorContains(t, rowErrs[1], "línea 5")
}

func TestParseCatalog_SinEncabezado(t *testing.T) {
	rows, rowErrs, err := parseCatalog(bytes.NewBufferString("A-1;Uno;1;1;0;0\n"))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)
	assert.Equal(t, "A-1", rows[0].SKU)
}
