package repositories

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	IsActive  *bool  `json:"is_active"`
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "title", "updated_at"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

var quizSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

// OrderClause returns a safe ORDER BY expression for the filters, newest
// first by default.
func (f QuizFilters) OrderClause() string {
	column, ok := quizSortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if f.SortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}
