package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dispatch-system/internal/entities"
	"dispatch-system/pkg/types"
)

type AssignmentHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, record *entities.AssignmentHistory) error
	GetHistory(ctx context.Context, filter types.Filter) ([]entities.AssignmentHistory, uint64, error)
	FindByOrderID(ctx context.Context, orderID uint64) ([]entities.AssignmentHistory, error)
}

type AssignmentHistoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssignmentHistoryRepository(storage *pgxpool.Pool, logger *zap.Logger) AssignmentHistoryRepositoryInterface {
	return &AssignmentHistoryRepository{storage: storage, logger: logger}
}

const assignmentHistoryColumns = `
	id, assignment_id, order_id, order_number, installer_id, installer_name,
	scheduled_date, scheduled_start_time, scheduled_end_time,
	action, assigned_by, assigned_by_name, notes, created_at`

func (r *AssignmentHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, record *entities.AssignmentHistory) error {
	query := `
		INSERT INTO assignment_history (
			assignment_id, order_id, order_number, installer_id, installer_name,
			scheduled_date, scheduled_start_time, scheduled_end_time,
			action, assigned_by, assigned_by_name, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := tx.Exec(ctx, query,
		record.AssignmentID, record.OrderID, record.OrderNumber,
		record.InstallerID, record.InstallerName,
		record.ScheduledDate, record.ScheduledStartTime, record.ScheduledEndTime,
		record.Action, record.AssignedBy, record.AssignedByName, record.Notes,
	)
	return translateError(err)
}

var assignmentHistoryFilterColumns = map[string]string{
	"order_id":     "order_id",
	"installer_id": "installer_id",
	"action":       "action",
	"created_at":   "created_at",
}

func (r *AssignmentHistoryRepository) GetHistory(ctx context.Context, filter types.Filter) ([]entities.AssignmentHistory, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("assignment_history")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"order_number": pattern},
			sq.ILike{"installer_name": pattern},
		})
	}
	if from, ok := filter.Filter["date_from"]; ok {
		base = base.Where(sq.GtOrEq{"scheduled_date": from})
		delete(filter.Filter, "date_from")
	}
	if to, ok := filter.Filter["date_to"]; ok {
		base = base.Where(sq.LtOrEq{"scheduled_date": to})
		delete(filter.Filter, "date_to")
	}

	countQuery, countArgs, err := applyFilterParams(base, filter, assignmentHistoryFilterColumns).
		Columns("COUNT(id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, translateError(err)
	}
	if totalCount == 0 {
		return []entities.AssignmentHistory{}, 0, nil
	}

	mainBuilder := applyListParams(base, filter, assignmentHistoryFilterColumns).
		Columns(assignmentHistoryColumns)
	if len(filter.Sort) == 0 {
		mainBuilder = mainBuilder.OrderBy("created_at DESC", "id DESC")
	}
	query, args, err := mainBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, translateError(err)
	}
	defer rows.Close()

	records, err := scanAssignmentHistoryRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, totalCount, nil
}

func (r *AssignmentHistoryRepository) FindByOrderID(ctx context.Context, orderID uint64) ([]entities.AssignmentHistory, error) {
	query := `
		SELECT ` + assignmentHistoryColumns + `
		FROM assignment_history
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return scanAssignmentHistoryRows(rows)
}

func scanAssignmentHistoryRows(rows pgx.Rows) ([]entities.AssignmentHistory, error) {
	var records []entities.AssignmentHistory
	for rows.Next() {
		var h entities.AssignmentHistory
		if err := rows.Scan(
			&h.ID, &h.AssignmentID, &h.OrderID, &h.OrderNumber, &h.InstallerID, &h.InstallerName,
			&h.ScheduledDate, &h.ScheduledStartTime, &h.ScheduledEndTime,
			&h.Action, &h.AssignedBy, &h.AssignedByName, &h.Notes, &h.CreatedAt,
		); err != nil {
			return nil, translateError(err)
		}
		records = append(records, h)
	}
	return records, rows.Err()
}
