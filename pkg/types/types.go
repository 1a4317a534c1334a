package types

type (
	// AnySlice alias of []interface{}
	AnySlice = []interface{}

	// AnyMap alias of map[string]interface{}
	AnyMap = map[string]interface{}
)
