package domain

import "errors"

var (
	// ErrDataUnavailable: the source returned nothing for this cycle.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrConfiguration: the sheet does not fit the column mapping.
	ErrConfiguration = errors.New("configuration error")

	ErrInvalidSnapshot     = errors.New("invalid snapshot")
	ErrSelectionNotFound   = errors.New("selection not found")
	ErrSyncThrottled       = errors.New("sync throttled")
	ErrSourceNotConfigured = errors.New("upstream source not configured")
)
