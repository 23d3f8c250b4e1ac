package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrPermissionDenied = errors.New("permission denied by database")
	ErrClaimInvalid     = errors.New("claim token invalid or already used")
)

const (
	pgUniqueViolation    = "23505"
	pgInsufficientPriv   = "42501"
	mysqlDuplicateEntry  = 1062
	mysqlTableAccessDeny = 1142
)

// translateError 将驱动相关的错误归一为包内哨兵错误，其余原样返回
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateKey
		case pgInsufficientPriv:
			return ErrPermissionDenied
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return ErrDuplicateKey
		case mysqlTableAccessDeny:
			return ErrPermissionDenied
		}
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateKey
	}
	return err
}
