package auth

import "time"

const (
	// Token constants.
	TokenKeySize        = 32
	RefreshTokenKeySize = 32
	DefaultAccessTTL    = 15 * time.Minute
	DefaultRefreshTTL   = 7 * 24 * time.Hour
)
