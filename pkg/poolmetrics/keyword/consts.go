package keyword

var (
	Reserved  = "entrypool_reserved_total"
	Enabled   = "entrypool_enabled_total"
	Acquired  = "entrypool_acquired_total"
	Released  = "entrypool_released_total"
	Retired   = "entrypool_retired_total"
	Removed   = "entrypool_removed_total"
	Closed    = "entrypool_closed_total"
	PoolSize  = "entrypool_size"
	PendingCt = "entrypool_pending"
)
