package dto

// ListFilters are the query parameters accepted by GET on a collection
type ListFilters struct {
	UserID string `query:"userId"`
	Query  string `query:"q"`
}
