package postgres

import (
	"database/sql"
	"time"

	// postgres driver
	_ "github.com/lib/pq"
)

// New db connection from a connection URL (hosted mode)
func New(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
