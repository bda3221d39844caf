package pkg

import (
	"database/sql/driver"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
	"gorm.io/gorm"
)

// sqliteFold is a SQLite function lower-casing text with Unicode rules.
// The built-in LOWER and UPPER of SQLite only map ASCII letters.
const sqliteFold = "unicode_lower"

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(sqliteFold, 1, foldValue)
}

func foldValue(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// Folded wraps column in the lower-casing function of db's dialect. Compare
// the result with a ContainsPattern.
func Folded(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return sqliteFold + "(" + column + ")"
	}
	return "LOWER(" + column + ")"
}

// likeEscaper escapes LIKE wildcards; queries pair it with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a lower-cased LIKE pattern matching s anywhere.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
