package persistence

import "strings"

// sortSpec whitelists the columns a listing may be ordered by. Anything
// else from the query string falls back to the default so user input never
// reaches the ORDER BY clause.
type sortSpec struct {
	columns   []string
	column    string
	direction string
}

var (
	brandSort    = sortSpec{columns: []string{"name", "created_at", "updated_at"}, column: "name", direction: "ASC"}
	discountSort = sortSpec{columns: []string{"name", "priority", "value", "start_date", "end_date", "created_at"}, column: "name", direction: "ASC"}
	orderSort    = sortSpec{columns: []string{"created_at", "updated_at", "status"}, column: "created_at", direction: "DESC"}
)

// orderBy returns a safe "column DIRECTION" clause
func (s sortSpec) orderBy(column, direction string) string {
	col := s.column
	if want := strings.ToLower(strings.TrimSpace(column)); want != "" {
		for _, allowed := range s.columns {
			if allowed == want {
				col = allowed
				break
			}
		}
	}

	dir := s.direction
	switch strings.ToUpper(strings.TrimSpace(direction)) {
	case "ASC":
		dir = "ASC"
	case "DESC":
		dir = "DESC"
	}
	return col + " " + dir
}
