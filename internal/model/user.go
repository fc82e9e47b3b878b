package model

import "time"

// User represents an application account as stored in the `users` table.
// Role is one of USER, PARTNER or ADMIN.  Partners manage hubs and
// events; admins can do everything.  CurrentPlanID and
// SubscriptionStatus track the user's subscription tier.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – display name.
//  Email              – unique email address, stored lower-cased.
//  Phone              – optional phone number.
//  PasswordHash       – bcrypt hashed password.
//  Role               – USER, PARTNER or ADMIN.
//  AvatarURL          – optional avatar image reference.
//  CurrentPlanID      – subscription plan, nil when none.
//  SubscriptionStatus – e.g. "inactive", "active".
//  IsActive           – whether the account is enabled.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type User struct {
	ID                 uint64    // users.id
	Name               string    // users.name
	Email              string    // users.email
	Phone              *string   // users.phone (nullable)
	PasswordHash       string    // users.password_hash
	Role               string    // users.role
	AvatarURL          *string   // users.avatar_url (nullable)
	CurrentPlanID      *uint64   // users.current_plan_id (nullable)
	SubscriptionStatus string    // users.subscription_status
	IsActive           bool      // users.is_active
	CreatedAt          time.Time // users.created_at
	UpdatedAt          time.Time // users.updated_at
}

// RefreshToken models a row in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored; the raw value goes back to the
// client once and is never persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
