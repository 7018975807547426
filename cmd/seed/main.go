// backend-go/cmd/seed/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFromContext(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

// forEachRecord streams a CSV file, skipping the header row.
func forEachRecord(path string, fn func(row []string) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		if err := fn(row); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func seedCompanies(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	count, err := forEachRecord(c.String("file"), func(row []string) error {
		_, err := db.ExecContext(c.Context, `
			INSERT INTO companies (id, company_name, currency)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET company_name = EXCLUDED.company_name, currency = EXCLUDED.currency
		`, row[0], row[1], row[2])
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("seeded %d companies", count)
	return nil
}

func seedCatalog(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	// products.csv: company_id,external_id,title,product_type,status,tags
	products, err := forEachRecord(c.String("products"), func(row []string) error {
		_, err := db.ExecContext(c.Context, `
			INSERT INTO products (company_id, external_id, title, product_type, status, tags, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			ON CONFLICT (company_id, external_id) DO UPDATE
			SET title = EXCLUDED.title, product_type = EXCLUDED.product_type,
			    status = EXCLUDED.status, tags = EXCLUDED.tags, updated_at = NOW()
		`, row[0], row[1], row[2], row[3], row[4], row[5])
		return err
	})
	if err != nil {
		return err
	}

	// variants.csv: company_id,external_id,product_external_id,sku,title,price,cost,inventory_quantity
	variants, err := forEachRecord(c.String("variants"), func(row []string) error {
		_, err := db.ExecContext(c.Context, `
			INSERT INTO variants (company_id, external_id, product_id, sku, title, price, cost, inventory_quantity)
			SELECT $1, $2, p.external_id, $4, $5, $6, $7, NULLIF($8, '')::int
			FROM products p
			WHERE p.company_id = $1 AND p.external_id = $3
			ON CONFLICT (company_id, external_id) DO UPDATE
			SET sku = EXCLUDED.sku, title = EXCLUDED.title, price = EXCLUDED.price,
			    cost = EXCLUDED.cost, inventory_quantity = EXCLUDED.inventory_quantity
		`, row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7])
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d products, %d variants", products, variants)
	return nil
}

func seedPurchaseOrders(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	// One upload batch per run so a bad file can be rolled back by batch_id.
	batchID := uuid.NewString()

	// purchase_orders.csv: company_id,purchase_order_id,sku,supplier_name,order_date,delivery_date,quantity_ordered
	// Dates and quantities are stored verbatim; normalization happens at read time.
	count, err := forEachRecord(c.String("file"), func(row []string) error {
		_, err := db.ExecContext(c.Context, `
			INSERT INTO purchase_orders
				(company_id, purchase_order_id, sku, supplier_name, order_date, delivery_date, quantity_ordered, batch_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, row[0], row[1], row[2], row[3], row[4], row[5], row[6], batchID)
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d purchase orders, batch %s", count, batchID)
	return nil
}

func seedForecasts(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	// forecasts.csv: company_id,sku,month,predicted_30,predicted_60,predicted_90,actual_30,live_inventory,reason
	count, err := forEachRecord(c.String("file"), func(row []string) error {
		_, err := db.ExecContext(c.Context, `
			INSERT INTO sku_forecast_history
				(company_id, sku, month, predicted_sales_30, predicted_sales_60, predicted_sales_90,
				 actual_sales_30, live_inventory, reason)
			VALUES ($1, $2, $3::date,
			        NULLIF($4, '')::int, NULLIF($5, '')::int, NULLIF($6, '')::int,
			        NULLIF($7, '')::int, NULLIF($8, '')::int, $9)
			ON CONFLICT (company_id, sku, month) DO UPDATE
			SET predicted_sales_30 = EXCLUDED.predicted_sales_30,
			    predicted_sales_60 = EXCLUDED.predicted_sales_60,
			    predicted_sales_90 = EXCLUDED.predicted_sales_90,
			    actual_sales_30 = EXCLUDED.actual_sales_30,
			    live_inventory = EXCLUDED.live_inventory,
			    reason = EXCLUDED.reason
		`, row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7], nullIfEmpty(row[8]))
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d forecast rows", count)
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with fixture data",
		Commands: []*cli.Command{
			{
				Name:  "companies",
				Usage: "Seed companies",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "file", Value: "./data/seeds/companies.csv"},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedCompanies,
			},
			{
				Name:  "catalog",
				Usage: "Seed products and variants",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "products", Value: "./data/seeds/products.csv"},
					&cli.StringFlag{Name: "variants", Value: "./data/seeds/variants.csv"},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedCatalog,
			},
			{
				Name:  "purchase-orders",
				Usage: "Seed a purchase order upload batch",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "file", Value: "./data/seeds/purchase_orders.csv"},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedPurchaseOrders,
			},
			{
				Name:  "forecasts",
				Usage: "Seed forecast history rows",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "file", Value: "./data/seeds/forecasts.csv"},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedForecasts,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
