package repositories

import (
	"fmt"
	"strings"
	"time"
)

// Dialect hides the differences between SQLite and PostgreSQL that the
// repositories care about. Queries are written with ? placeholders.
type Dialect interface {
	Name() string
	Rebind(query string) string
	RealType() string
	TimestampType() string
	// TimeArg converts t into the value bound for a timestamp column.
	TimeArg(t time.Time) any
}

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return sqliteDialect{}, nil
	case "postgres", "pgx":
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("dialect: unsupported driver %q", driver)
	}
}

// SQLite stores timestamps as fixed-width UTC text so that string
// comparison matches chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type sqliteDialect struct{}

func (sqliteDialect) Name() string               { return "sqlite" }
func (sqliteDialect) Rebind(query string) string { return query }
func (sqliteDialect) RealType() string           { return "REAL" }
func (sqliteDialect) TimestampType() string      { return "TEXT" }
func (sqliteDialect) TimeArg(t time.Time) any    { return t.UTC().Format(sqliteTimeLayout) }

type postgresDialect struct{}

func (postgresDialect) Name() string               { return "postgres" }
func (postgresDialect) Rebind(query string) string { return Rebind(query) }
func (postgresDialect) RealType() string           { return "DOUBLE PRECISION" }
func (postgresDialect) TimestampType() string      { return "TIMESTAMPTZ" }
func (postgresDialect) TimeArg(t time.Time) any    { return t.UTC() }

// Rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func Rebind(query string) string {
	n := 0
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}

// parseTime converts a scanned timestamp value to time.Time.
// SQLite returns text, PostgreSQL returns time.Time.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	case nil:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("parse time: unsupported type %T", v)
}

func parseTimeString(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time: unrecognized timestamp %q", s)
}
