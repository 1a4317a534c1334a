package errcode

var (
	GetFeedFailed      = NewError(30001, "Get Feed Failed")
	SearchUnavailable  = NewError(30002, "Search Unavailable")
	FilterUnavailable  = NewError(30003, "Filter Unavailable")
	InvalidFilterValue = NewError(30004, "Invalid Filter Value")
	LoadMoreFailed     = NewError(30005, "Load More Failed")
	SyncIndexFailed    = NewError(30006, "Sync Index Failed")
)
