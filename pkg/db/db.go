package db

import (
	"github.com/caesium-cloud/dolphin/pkg/env"
	gsql "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported metadata store types.
const (
	TypeMySQL    = "mysql"
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Connection opens the metadata store configured in the environment.
func Connection() (*gorm.DB, error) {
	return Open(env.Variables().DatabaseType, env.Variables().DatabaseDSN)
}

// Open connects to the metadata store. MySQL DSNs are parsed and always
// get parseTime enabled so datetime columns scan as time.Time.
func Open(databaseType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch databaseType {
	case TypeMySQL:
		cfg, err := gsql.ParseDSN(dsn)
		if err != nil {
			return nil, errors.Wrap(err, "invalid mysql dsn")
		}
		cfg.ParseTime = true
		dialector = mysql.Open(cfg.FormatDSN())
	case TypePostgres:
		dialector = postgres.Open(dsn)
	case TypeSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database type %q", databaseType)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s database", databaseType)
	}
	return gdb, nil
}
