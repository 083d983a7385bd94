package services

import "errors"

// Sentinel errors for explicit error handling
// These errors allow callers to distinguish between different failure modes
// using errors.Is() instead of string matching

var (
	// ErrInvalidInput indicates a request field violated an input rule;
	// wrapped errors carry the specific message
	ErrInvalidInput = errors.New("invalid input")

	// ErrAdminExists indicates the username is already registered
	ErrAdminExists = errors.New("admin already exists")

	// ErrInvalidCredentials indicates authentication failed
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrShopNotFound indicates the requested shop does not exist
	ErrShopNotFound = errors.New("shop not found")

	// ErrNotShopOwner indicates the shop exists but belongs to another admin,
	// or does not exist at all; callers must not distinguish the two
	ErrNotShopOwner = errors.New("shop does not belong to this admin")

	// ErrDuplicateShopName indicates a name collision within the admin's shops
	ErrDuplicateShopName = errors.New("shop name already exists for this admin")
)
