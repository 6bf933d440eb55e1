package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
)

const getReportByID = `
SELECT id, report_type, group_id, vehicle_id, title,
       service_date, service_type, odometer,
       workshop_name, workshop_address, workshop_phone, description,
       report_date, damage_type, damage_description,
       labor_cost, parts_cost, final_cost,
       created_by, finalized_by, created_at, finalized_at,
       report_file_id, report_file_name
FROM reports
WHERE id = $1
`

// GetReportByID fetches a single report record.
func (q *Queries) GetReportByID(ctx context.Context, id uuid.UUID) (domain.Report, error) {
	row := q.db.QueryRowContext(ctx, getReportByID, id)

	var (
		r               domain.Report
		reportType      string
		serviceDate     sql.NullString
		serviceType     sql.NullString
		odometer        sql.NullInt64
		workshopName    sql.NullString
		workshopAddress sql.NullString
		workshopPhone   sql.NullString
		description     sql.NullString
		reportDate      sql.NullString
		damageType      sql.NullString
		damageDesc      sql.NullString
		laborCost       sql.NullFloat64
		partsCost       sql.NullFloat64
		finalCost       sql.NullFloat64
		createdBy       uuid.NullUUID
		finalizedBy     uuid.NullUUID
		createdAt       sql.NullString
		finalizedAt     sql.NullString
		fileID          sql.NullString
		fileName        sql.NullString
	)

	err := row.Scan(
		&r.ID, &reportType, &r.GroupID, &r.VehicleID, &r.Title,
		&serviceDate, &serviceType, &odometer,
		&workshopName, &workshopAddress, &workshopPhone, &description,
		&reportDate, &damageType, &damageDesc,
		&laborCost, &partsCost, &finalCost,
		&createdBy, &finalizedBy, &createdAt, &finalizedAt,
		&fileID, &fileName,
	)
	if err != nil {
		return domain.Report{}, err
	}

	r.Type = domain.ReportType(reportType)
	r.ServiceDate = serviceDate.String
	r.ServiceType = serviceType.String
	r.Odometer = odometer.Int64
	r.WorkshopName = workshopName.String
	r.WorkshopAddress = workshopAddress.String
	r.WorkshopPhone = workshopPhone.String
	r.Description = description.String
	r.ReportDate = reportDate.String
	r.DamageType = damageType.String
	r.DamageDescription = damageDesc.String
	r.LaborCost = laborCost.Float64
	r.PartsCost = partsCost.Float64
	r.FinalCost = finalCost.Float64
	r.CreatedByID = createdBy.UUID
	r.FinalizedByID = finalizedBy.UUID
	r.CreatedAt = createdAt.String
	r.FinalizedAt = finalizedAt.String
	r.FileID = fileID.String
	r.FileName = fileName.String

	return r, nil
}

const listEnabledPartsByReportID = `
SELECT name, quantity, unit_cost
FROM report_parts
WHERE report_id = $1 AND enabled = TRUE
ORDER BY created_at, name
`

// ListEnabledPartsByReportID returns the enabled part line items of a report.
func (q *Queries) ListEnabledPartsByReportID(ctx context.Context, reportID uuid.UUID) ([]domain.PartLineItem, error) {
	rows, err := q.db.QueryContext(ctx, listEnabledPartsByReportID, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []domain.PartLineItem
	for rows.Next() {
		var p domain.PartLineItem
		if err := rows.Scan(&p.Name, &p.Quantity, &p.UnitCost); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// UpdateReportFileParams carries the artifact reference write-back.
type UpdateReportFileParams struct {
	ID       uuid.UUID
	FileID   string
	FileName string
}

const updateReportFile = `
UPDATE reports
SET report_file_id = $2, report_file_name = $3
WHERE id = $1
`

// UpdateReportFile records the generated artifact reference on the report.
// The report is the sole owner of this reference; callers overwrite any
// previous value.
func (q *Queries) UpdateReportFile(ctx context.Context, params UpdateReportFileParams) error {
	res, err := q.db.ExecContext(ctx, updateReportFile, params.ID, params.FileID, params.FileName)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
