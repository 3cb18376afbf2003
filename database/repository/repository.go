package repository

import (
	"strconv"
	"strings"

	"github.com/turbo/newton/database"
)

// Placeholder returns the bind parameter for the nth argument, counted from 1
func Placeholder(dialect string, n int) string {
	if dialect == database.DBPostgreSQL {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Rebind replaces every ? in the query with the dialect's bind parameters
func Rebind(dialect, query string) string {
	if dialect != database.DBPostgreSQL {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(Placeholder(dialect, n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
