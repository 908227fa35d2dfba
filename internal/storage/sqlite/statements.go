package sqlite

import (
	"fmt"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// Statement is one piece of a SQL text, as the database will see it.
type Statement struct {
	SQL         string
	Kind        string // select, insert, update, delete, drop, create, ...
	Destructive bool   // removes or rewrites existing data or schema
}

// SplitStatements cuts text at statement terminators and classifies each
// piece. Terminators inside string literals and comments do not split;
// comment-only pieces are dropped.
func SplitStatements(text string) ([]Statement, error) {
	// The tokenizer follows MySQL, where \' escapes a quote. SQLite has no
	// backslash escapes, so every backslash is doubled to read as a literal
	// one, and each piece is undoubled again afterwards.
	pieces, err := sqlparser.SplitStatementToPieces(strings.ReplaceAll(text, `\`, `\\`))
	if err != nil {
		return nil, fmt.Errorf("SplitStatements: %w", err)
	}

	out := make([]Statement, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.ReplaceAll(piece, `\\`, `\`)
		body := strings.TrimSpace(sqlparser.StripLeadingComments(piece))
		if body == "" || isLineComment(body) {
			continue
		}
		kind := classify(body)
		out = append(out, Statement{
			SQL:         body,
			Kind:        kind,
			Destructive: destructive(kind),
		})
	}
	return out, nil
}

// isLineComment catches a final "-- ..." with no newline after it, which
// StripLeadingComments leaves in place.
func isLineComment(s string) bool {
	return strings.HasPrefix(s, "--") && !strings.Contains(s, "\n")
}

func classify(body string) string {
	switch sqlparser.Preview(body) {
	case sqlparser.StmtSelect:
		return "select"
	case sqlparser.StmtInsert:
		return "insert"
	case sqlparser.StmtReplace:
		return "replace"
	case sqlparser.StmtUpdate:
		return "update"
	case sqlparser.StmtDelete:
		return "delete"
	case sqlparser.StmtDDL:
		// The parser's grammar does not cover every SQLite form, so fall
		// back to the leading keyword when it cannot name the action.
		if stmt, err := sqlparser.Parse(body); err == nil {
			if ddl, ok := stmt.(*sqlparser.DDL); ok && ddl.Action != "" {
				return ddl.Action
			}
		}
		return strings.ToLower(strings.Fields(body)[0])
	case sqlparser.StmtBegin, sqlparser.StmtCommit, sqlparser.StmtRollback:
		return "transaction"
	default:
		return "unknown"
	}
}

func destructive(kind string) bool {
	switch kind {
	case "delete", "update", "replace", "drop", "alter", "rename", "truncate":
		return true
	}
	return false
}
