package models

// Subscription tiers. The tier gates how often rate-limited providers are
// refreshed for a profile's sources.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// Profile is a user account record. It is owned by the account subsystem and
// read-only to the ingestion pipeline.
type Profile struct {
	ID        string `db:"id" json:"id"`
	Tier      string `db:"tier" json:"tier"`
	CreatedAt int64  `db:"created_at" json:"createdAt"`
}
