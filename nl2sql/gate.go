package nl2sql

import (
	"strings"

	"github.com/DachengChen/trinoai/apperr"
)

// RequireSelect rejects any statement whose trimmed, upper-cased form
// does not start with SELECT. It is a textual prefix check only: a WITH
// clause is rejected, and a SELECT prefix says nothing about what the
// rest of the statement does.
func RequireSelect(sql string) error {
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sql)), "SELECT") {
		return apperr.SelectOnly()
	}
	return nil
}
