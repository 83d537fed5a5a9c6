// Package internal instantiates the external dependencies of the commands
// using configuration defined in environment variables.
package internal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/agenda-tarefas/agenda-api/internal/envvar"
)

// NewMySQL instantiates the MySQL connection pool using configuration defined
// in environment variables. database/sql opens connections lazily and
// re-establishes broken ones before executing.
func NewMySQL(conf *envvar.Configuration) (*sql.DB, error) {
	get := func(v string) (string, error) {
		res, err := conf.Get(v)
		if err != nil {
			return "", fmt.Errorf("conf.Get %s: %w", v, err)
		}

		return res, nil
	}

	var (
		cfg = mysql.NewConfig()
		err error
	)

	host, err := get("DB_HOST")
	if err != nil {
		return nil, err
	}

	port, err := get("DB_PORT")
	if err != nil {
		return nil, err
	}

	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%s", host, port)

	if cfg.User, err = get("DB_USER"); err != nil {
		return nil, err
	}

	if cfg.Passwd, err = get("DB_PASSWORD"); err != nil {
		return nil, err
	}

	if cfg.DBName, err = get("DB_NAME"); err != nil {
		return nil, err
	}

	charset, err := get("DB_CHARSET")
	if err != nil {
		return nil, err
	}

	if cfg.Collation, err = get("DB_COLLATION"); err != nil {
		return nil, err
	}

	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": charset}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	return db, nil
}
