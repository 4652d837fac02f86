package utils

import "regexp"

// statements and commands that write, change schema, or reach outside the warehouse file
var forbiddenSQL = regexp.MustCompile(`(?i)\b(DROP|DELETE|UPDATE|INSERT|ALTER|TRUNCATE|CREATE|ATTACH|DETACH|COPY|EXPORT|IMPORT|INSTALL|LOAD|PRAGMA|GRANT|REVOKE|MERGE|CALL|VACUUM|CHECKPOINT)\b`)

// ValidateSQL reports whether query is free of write and DDL keywords. It
// is a guard in front of the read-only connection, not a parser, so an
// identifier or literal using one of the words is rejected too.
func ValidateSQL(query string) bool {
	return !forbiddenSQL.MatchString(query)
}
