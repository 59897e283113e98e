package auth

import (
	"context"

	"github.com/dmitrijs2005/sqlauth/internal/dbx"
)

// stubExecutor replays canned rows and counts how many reached the
// consumer before it asked to stop.
type stubExecutor struct {
	rows [][]any
	err  error

	calls     int
	delivered int
	lastQuery string
	lastArgs  []any
}

func (s *stubExecutor) Query(_ context.Context, query string, args []any, fn dbx.RowFunc) error {
	s.calls++
	s.lastQuery = query
	s.lastArgs = args
	if s.err != nil {
		return s.err
	}
	for _, r := range s.rows {
		s.delivered++
		next, err := fn(dbx.Row(r))
		if err != nil {
			return err
		}
		if !next {
			return nil
		}
	}
	return nil
}
