package review

// PaginatedResult represents a paginated history response with data and metadata
type PaginatedResult struct {
	Data     []*Review `json:"data"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}
