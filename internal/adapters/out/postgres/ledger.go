// Package postgres is the durable Ledger Store. Each repository issues single-statement
// conditional writes; nothing here opens a transaction spanning more than one record.
//
// Usage:
//
//	db, err := postgres.Open(dsn)
//	if err != nil {
//	    return err
//	}
//	if err := postgres.Migrate(db); err != nil {
//	    return err
//	}
//	ledger := postgres.NewGormLedger(db)
//	order, err := ledger.Orders().Get(ctx, restaurantID, orderID)
package postgres

import (
	"fmt"

	"orderflow/internal/adapters/out/postgres/callbackrepo"
	"orderflow/internal/adapters/out/postgres/historyrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/productrepo"
	"orderflow/internal/adapters/out/postgres/tokenrepo"
	"orderflow/internal/core/ports"

	"github.com/lib/pq"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormLedger groups the GORM repositories over one connection pool.
type GormLedger struct {
	orders    *orderrepo.GormOrderRepository
	products  *productrepo.GormProductRepository
	history   *historyrepo.GormHistoryRepository
	callbacks *callbackrepo.GormCallbackRepository
}

var _ ports.Ledger = (*GormLedger)(nil)

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{
		orders:    orderrepo.NewGormOrderRepository(db),
		products:  productrepo.NewGormProductRepository(db),
		history:   historyrepo.NewGormHistoryRepository(db),
		callbacks: callbackrepo.NewGormCallbackRepository(db),
	}
}

func (l *GormLedger) Orders() ports.OrderRepository       { return l.orders }
func (l *GormLedger) Products() ports.ProductRepository   { return l.products }
func (l *GormLedger) History() ports.HistoryRepository    { return l.history }
func (l *GormLedger) Callbacks() ports.CallbackRepository { return l.callbacks }

// Open connects with driver errors translated to gorm's sentinels (gorm.ErrDuplicatedKey).
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table of the ledger.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&productrepo.ProductDTO{},
		&historyrepo.EntryDTO{},
		&callbackrepo.CallbackDTO{},
		&tokenrepo.AccessTokenDTO{},
	)
}

// ConnectionParams are the discrete settings used when no URL is given.
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns a key=value connection string. A postgres:// url takes precedence and is
// converted with pq.ParseURL.
func DSN(url string, p ConnectionParams) (string, error) {
	if url != "" {
		dsn, err := pq.ParseURL(url)
		if err != nil {
			return "", fmt.Errorf("parse DB_URL: %w", err)
		}
		return dsn, nil
	}
	if p.SSLMode == "" {
		p.SSLMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode), nil
}
