package common

// KV keys for application state kept outside the entity collections
const (
	KeySyncToken     = "sync_token"
	KeySyncUser      = "sync_user"
	KeyWebDAVConfig  = "webdav_cfg"
	KeyEncryptionCfg = "encryption_cfg"
	KeySchemaVersion = "schema_version"
	KeyLastSync      = "last_sync"
)

// DefaultKVValue represents a default key/value pair that is seeded on startup
type DefaultKVValue struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// GetDefaultKVValues returns the values seeded when missing
func GetDefaultKVValues() []DefaultKVValue {
	return []DefaultKVValue{
		{
			Key:         KeySchemaVersion,
			Value:       "1",
			Description: "Local store schema version",
		},
	}
}
