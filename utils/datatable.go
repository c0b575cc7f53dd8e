package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DataTableQuery mirrors the paging protocol the admin datatables post:
// draw/start/length plus a free-text search term.
type DataTableQuery struct {
	Draw   int
	Start  int
	Length int
	Search string
}

func ParseDataTableQuery(c *gin.Context) DataTableQuery {
	q := DataTableQuery{
		Draw:   ParseIntDefault(c.Query("draw"), 1),
		Start:  ParseIntDefault(c.Query("start"), 0),
		Length: ParseIntDefault(c.Query("length"), 10),
		Search: strings.TrimSpace(c.Query("search")),
	}
	if q.Start < 0 {
		q.Start = 0
	}
	if q.Length <= 0 || q.Length > 100 {
		q.Length = 10
	}
	return q
}

// DataTableResponse is the envelope the datatable widgets expect.
type DataTableResponse struct {
	Draw            int         `json:"draw"`
	RecordsTotal    int64       `json:"recordsTotal"`
	RecordsFiltered int64       `json:"recordsFiltered"`
	Data            interface{} `json:"data"`
}
