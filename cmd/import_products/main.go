// import_products carga un catálogo de productos desde un CSV exportado por el sistema anterior.
//
// Uso: go run ./cmd/import_products -file catalogo.csv -actor <user-uuid>
//
// Formato (ISO-8859-1, separado por ';'): sku;nombre;precio;costo;stock_minimo;stock_inicial
// El stock inicial queda registrado como movimiento de entrada a nombre del actor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	path := flag.String("file", "catalogo.csv", "ruta del CSV a importar")
	actor := flag.String("actor", "", "ID del usuario que figura como autor del stock inicial")
	flag.Parse()

	if *actor == "" {
		fmt.Fprintln(os.Stderr, "-actor es obligatorio")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("abrir CSV")
	}
	defer f.Close()

	rows, rowErrs, err := parseCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}
	for _, e := range rowErrs {
		log.Warn().Err(e).Msg("fila omitida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ledger := inventory.NewStockLedger(postgres.NewTxRunner(pool), postgres.NewUserRepository(pool),
		inventory.WithRetryPolicy(cfg.Ledger.MaxRetries, cfg.Ledger.RetryBackoff),
	)
	products := usecase.NewProductUseCase(postgres.NewProductRepository(pool), ledger)

	created, skipped := 0, 0
	for _, req := range rows {
		out, err := products.Create(ctx, *actor, req)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
			log.Info().Str("sku", req.SKU).Msg("ya existe, se omite")
		case err != nil:
			skipped++
			log.Error().Err(err).Str("sku", req.SKU).Msg("no se pudo crear")
		default:
			created++
			log.Debug().Str("sku", out.SKU).Int64("stock", out.CurrentStock).Msg("producto creado")
		}
	}

	log.Info().
		Int("creados", created).
		Int("omitidos", skipped+len(rowErrs)).
		Msg("importación terminada")
}
