package contacts

import "time"

// Config holds configuration for the contacts feature.
type Config struct {
	// Enabled toggles the HTTP routes.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Prefix is the object prefix of remote contacts in the storage bucket.
	Prefix string `mapstructure:"prefix" default:"contacts"`
	// CacheTTLSeconds is how long a remote listing is reused. Zero disables the cache.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"30"`
	// TwoWay enables creating remote contacts for unlinked local ones.
	TwoWay bool `mapstructure:"two_way" default:"false"`
	// SyncOnStart runs a synchronization in the background when the server starts.
	SyncOnStart bool `mapstructure:"sync_on_start" default:"false"`
}

// CacheTTL returns the remote listing cache lifetime.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
