package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// Columnas: sku;nombre;precio;costo;stock_minimo;stock_inicial
const catalogColumns = 6

// rowError error de una fila concreta del archivo (línea 1-based).
type rowError struct {
	Line int
	Err  error
}

func (e *rowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }
func (e *rowError) Unwrap() error { return e.Err }

// parseCatalog lee el CSV (ISO-8859-1, separado por ';') y devuelve un request por fila.
// La primera fila se omite si es el encabezado. Las filas con error no detienen la lectura.
func parseCatalog(r io.Reader) ([]dto.CreateProductRequest, []error, error) {
	reader := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		out   []dto.CreateProductRequest
		errs  []error
		first = true
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("leer CSV: %w", err)
		}
		header := first && strings.EqualFold(strings.TrimSpace(record[0]), "sku")
		first = false
		if header {
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		req, err := parseRow(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			errs = append(errs, &rowError{Line: line, Err: err})
			continue
		}
		out = append(out, req)
	}
	return out, errs, nil
}

func parseRow(record []string) (dto.CreateProductRequest, error) {
	if len(record) < catalogColumns {
		return dto.CreateProductRequest{}, fmt.Errorf("se esperaban %d columnas, hay %d", catalogColumns, len(record))
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	price, err := parseAmount(record[2])
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("precio: %w", err)
	}
	cost, err := parseAmount(record[3])
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("costo: %w", err)
	}
	minStock, err := parseCount(record[4])
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("stock_minimo: %w", err)
	}
	initial, err := parseCount(record[5])
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("stock_inicial: %w", err)
	}
	return dto.CreateProductRequest{
		SKU:          record[0],
		Name:         record[1],
		Price:        price,
		Cost:         cost,
		MinStock:     minStock,
		InitialStock: initial,
	}, nil
}

// parseAmount acepta coma decimal ("1500,50") y vacío como cero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
