package domain

import "github.com/google/uuid"

// Vehicle is a fleet vehicle owned by a group. Catalog references
// (type, brand, model) are optional and uuid.Nil when unset.
type Vehicle struct {
	ID             uuid.UUID
	GroupID        uuid.UUID
	TypeID         uuid.UUID
	BrandID        uuid.UUID
	ModelID        uuid.UUID
	Plate          string
	EconomicNumber string
	SerialNumber   string // VIN
	Color          string
	ModelYear      int
}

// Group is the tenant/organization owning vehicles, reports, and users.
type Group struct {
	ID      uuid.UUID
	Name    string
	LogoKey string // Blob storage key of the group logo, empty when none
}

// HasLogo reports whether the group has a stored logo.
func (g *Group) HasLogo() bool {
	return g.LogoKey != ""
}

// Profile is the per-group user profile referenced by report audit fields.
type Profile struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	GroupID uuid.UUID
	Name    string
	Email   string
	Role    string
}

// Catalog entries for vehicle classification.

// VehicleBrand is a manufacturer catalog entry.
type VehicleBrand struct {
	ID   uuid.UUID
	Name string
}

// VehicleModel is a model catalog entry belonging to a brand.
type VehicleModel struct {
	ID      uuid.UUID
	BrandID uuid.UUID
	Name    string
}

// VehicleType is a vehicle classification catalog entry.
type VehicleType struct {
	ID   uuid.UUID
	Name string
}
