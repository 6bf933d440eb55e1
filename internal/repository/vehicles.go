package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
)

const getVehicleByID = `
SELECT id, group_id, type_id, brand_id, model_id,
       plate, economic_number, serial_number, color, model_year
FROM vehicles
WHERE id = $1
`

// GetVehicleByID fetches a single vehicle record.
func (q *Queries) GetVehicleByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	row := q.db.QueryRowContext(ctx, getVehicleByID, id)

	var (
		v              domain.Vehicle
		typeID         uuid.NullUUID
		brandID        uuid.NullUUID
		modelID        uuid.NullUUID
		plate          sql.NullString
		economicNumber sql.NullString
		serialNumber   sql.NullString
		color          sql.NullString
		modelYear      sql.NullInt64
	)

	err := row.Scan(
		&v.ID, &v.GroupID, &typeID, &brandID, &modelID,
		&plate, &economicNumber, &serialNumber, &color, &modelYear,
	)
	if err != nil {
		return domain.Vehicle{}, err
	}

	v.TypeID = typeID.UUID
	v.BrandID = brandID.UUID
	v.ModelID = modelID.UUID
	v.Plate = plate.String
	v.EconomicNumber = economicNumber.String
	v.SerialNumber = serialNumber.String
	v.Color = color.String
	v.ModelYear = int(modelYear.Int64)

	return v, nil
}

const getGroupByID = `
SELECT id, name, logo_key
FROM groups
WHERE id = $1
`

// GetGroupByID fetches a single group record.
func (q *Queries) GetGroupByID(ctx context.Context, id uuid.UUID) (domain.Group, error) {
	row := q.db.QueryRowContext(ctx, getGroupByID, id)

	var (
		g       domain.Group
		logoKey sql.NullString
	)
	if err := row.Scan(&g.ID, &g.Name, &logoKey); err != nil {
		return domain.Group{}, err
	}
	g.LogoKey = logoKey.String
	return g, nil
}

const getVehicleBrandByID = `
SELECT id, name FROM vehicle_brands WHERE id = $1
`

// GetVehicleBrandByID fetches a brand catalog entry.
func (q *Queries) GetVehicleBrandByID(ctx context.Context, id uuid.UUID) (domain.VehicleBrand, error) {
	var b domain.VehicleBrand
	err := q.db.QueryRowContext(ctx, getVehicleBrandByID, id).Scan(&b.ID, &b.Name)
	return b, err
}

const getVehicleModelByID = `
SELECT id, brand_id, name FROM vehicle_models WHERE id = $1
`

// GetVehicleModelByID fetches a model catalog entry.
func (q *Queries) GetVehicleModelByID(ctx context.Context, id uuid.UUID) (domain.VehicleModel, error) {
	var m domain.VehicleModel
	err := q.db.QueryRowContext(ctx, getVehicleModelByID, id).Scan(&m.ID, &m.BrandID, &m.Name)
	return m, err
}

const getVehicleTypeByID = `
SELECT id, name FROM vehicle_types WHERE id = $1
`

// GetVehicleTypeByID fetches a vehicle type catalog entry.
func (q *Queries) GetVehicleTypeByID(ctx context.Context, id uuid.UUID) (domain.VehicleType, error) {
	var t domain.VehicleType
	err := q.db.QueryRowContext(ctx, getVehicleTypeByID, id).Scan(&t.ID, &t.Name)
	return t, err
}
