package store

// Declare database key prefix for objects
const (
	PrefixAccountState = "account_state:"
)
