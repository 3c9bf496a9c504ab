package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  The password hash never
// leaves the repository/auth layer; handlers build response types from
// the resolved principal instead.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Pseudo       – public display handle.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role name (CLIENT or ADMIN).
//  IsActive     – whether the account is active.  Nullable: rows created
//                 before the column existed carry NULL and are treated
//                 as active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Pseudo       string    // users.pseudo
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     *bool     // users.is_active (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
