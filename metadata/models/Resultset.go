package models

// Resultset provides paging metric information for query results
type Resultset struct {
	// TotalRows is the total number of rows matching the query regardless
	// of page size
	TotalRows int `json:"totalRows"`
	// PageCount is the total number of pages given the page size
	PageCount int `json:"pageCount"`
	// PageNumber is the requested page number
	PageNumber int `json:"pageNumber"`
	// PageSize is the requested page size
	PageSize int `json:"pageSize"`
	// PageRows is the number of rows in this page, which may be fewer than
	// the page size
	PageRows int `json:"pageRows"`
}
