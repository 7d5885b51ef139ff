package models

// SessionRecord is the persisted half of the session state machine. All
// three fields are written together.
type SessionRecord struct {
	// Credential is nil when no PIN has ever been configured. Its content is
	// whatever the configured verifier produced.
	Credential     *string `json:"credential"`
	IsUnlocked     bool    `json:"isUnlocked"`
	IsBootstrapped bool    `json:"isBootstrapped"`
}

func (r SessionRecord) HasCredential() bool {
	return r.Credential != nil
}
