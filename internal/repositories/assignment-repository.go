package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dispatch-system/internal/entities"
	"dispatch-system/pkg/types"
)

// AssignmentListItem joins in the order number and installer name so the
// schedule grid renders without N+1 lookups.
type AssignmentListItem struct {
	entities.Assignment
	OrderNumber   string `db:"order_number"`
	CustomerName  string `db:"customer_name"`
	InstallerName string `db:"installer_name"`
}

type AssignmentRepositoryInterface interface {
	GetAssignments(ctx context.Context, filter types.Filter) ([]AssignmentListItem, uint64, error)
	FindAssignmentByID(ctx context.Context, id uint64) (*entities.Assignment, error)
	FindAssignmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error)
	FindActiveByOrderID(ctx context.Context, orderID uint64) (*entities.Assignment, error)
	FindActiveByOrderIDInTx(ctx context.Context, tx pgx.Tx, orderID uint64) (*entities.Assignment, error)
	IsSlotOccupiedInTx(ctx context.Context, tx pgx.Tx, installerID uint64, date time.Time, startTime string, excludeID uint64) (bool, error)
	CreateAssignmentInTx(ctx context.Context, tx pgx.Tx, assignment *entities.Assignment) (uint64, error)
	UpdateAssignmentFieldsInTx(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error
	SoftDeleteAssignmentInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	SoftDeleteByOrderIDInTx(ctx context.Context, tx pgx.Tx, orderID uint64) (int64, error)
	DeleteAllAssignmentsInTx(ctx context.Context, tx pgx.Tx) (int64, error)
}

type AssignmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssignmentRepository(storage *pgxpool.Pool, logger *zap.Logger) AssignmentRepositoryInterface {
	return &AssignmentRepository{storage: storage, logger: logger}
}

const assignmentColumns = `
	a.id, a.order_id, a.installer_id,
	a.scheduled_date, a.scheduled_start_time, a.scheduled_end_time,
	a.status, a.notes, a.created_at, a.updated_at, a.deleted_at`

func scanAssignment(row pgx.Row) (*entities.Assignment, error) {
	var a entities.Assignment
	err := row.Scan(
		&a.ID, &a.OrderID, &a.InstallerID,
		&a.ScheduledDate, &a.ScheduledStartTime, &a.ScheduledEndTime,
		&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

var assignmentFilterColumns = map[string]string{
	"order_id":       "a.order_id",
	"installer_id":   "a.installer_id",
	"status":         "a.status",
	"scheduled_date": "a.scheduled_date",
}

func (r *AssignmentRepository) GetAssignments(ctx context.Context, filter types.Filter) ([]AssignmentListItem, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().
		From("assignments a").
		Join("orders o ON o.id = a.order_id").
		Join("installers i ON i.id = a.installer_id").
		Where("a.deleted_at IS NULL")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"o.order_number": pattern},
			sq.ILike{"o.customer_name": pattern},
			sq.ILike{"i.name": pattern},
		})
	}

	countQuery, countArgs, err := applyFilterParams(base, filter, assignmentFilterColumns).
		Columns("COUNT(a.id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, translateError(err)
	}
	if totalCount == 0 {
		return []AssignmentListItem{}, 0, nil
	}

	mainBuilder := applyListParams(base, filter, assignmentFilterColumns).
		Columns(assignmentColumns, "o.order_number", "o.customer_name", "i.name AS installer_name")
	if len(filter.Sort) == 0 {
		mainBuilder = mainBuilder.OrderBy("a.scheduled_date ASC", "a.scheduled_start_time ASC", "a.id ASC")
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

	var items []AssignmentListItem
	for rows.Next() {
		var item AssignmentListItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.InstallerID,
			&item.ScheduledDate, &item.ScheduledStartTime, &item.ScheduledEndTime,
			&item.Status, &item.Notes, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt,
			&item.OrderNumber, &item.CustomerName, &item.InstallerName,
		); err != nil {
			return nil, 0, translateError(err)
		}
		items = append(items, item)
	}
	return items, totalCount, rows.Err()
}

func (r *AssignmentRepository) FindAssignmentByID(ctx context.Context, id uint64) (*entities.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments a WHERE a.id = $1 AND a.deleted_at IS NULL`
	return scanAssignment(r.storage.QueryRow(ctx, query, id))
}

func (r *AssignmentRepository) FindAssignmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments a WHERE a.id = $1 AND a.deleted_at IS NULL FOR UPDATE`
	return scanAssignment(tx.QueryRow(ctx, query, id))
}

// FindActiveByOrderID is the read-path variant used after commit, e.g. to
// resolve the installer for a notification.
func (r *AssignmentRepository) FindActiveByOrderID(ctx context.Context, orderID uint64) (*entities.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments a WHERE a.order_id = $1 AND a.deleted_at IS NULL`
	return scanAssignment(r.storage.QueryRow(ctx, query, orderID))
}

// FindActiveByOrderIDInTx returns ErrNotFound when the order has no live
// assignment. Callers use it both to block duplicate assignment and to find
// the row a reassign replaces.
func (r *AssignmentRepository) FindActiveByOrderIDInTx(ctx context.Context, tx pgx.Tx, orderID uint64) (*entities.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments a WHERE a.order_id = $1 AND a.deleted_at IS NULL FOR UPDATE`
	return scanAssignment(tx.QueryRow(ctx, query, orderID))
}

// IsSlotOccupiedInTx is the advisory pre-check for the slot invariant; the
// partial unique index remains the backstop under concurrency. excludeID
// skips the assignment being edited so a no-op reschedule does not conflict
// with itself.
func (r *AssignmentRepository) IsSlotOccupiedInTx(ctx context.Context, tx pgx.Tx, installerID uint64, date time.Time, startTime string, excludeID uint64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM assignments
			WHERE installer_id = $1
			  AND scheduled_date = $2
			  AND scheduled_start_time = $3
			  AND deleted_at IS NULL
			  AND id <> $4
		)`

	var occupied bool
	err := tx.QueryRow(ctx, query, installerID, date, startTime, excludeID).Scan(&occupied)
	if err != nil {
		return false, translateError(err)
	}
	return occupied, nil
}

func (r *AssignmentRepository) CreateAssignmentInTx(ctx context.Context, tx pgx.Tx, assignment *entities.Assignment) (uint64, error) {
	query := `
		INSERT INTO assignments (
			order_id, installer_id,
			scheduled_date, scheduled_start_time, scheduled_end_time,
			status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		assignment.OrderID, assignment.InstallerID,
		assignment.ScheduledDate, assignment.ScheduledStartTime, assignment.ScheduledEndTime,
		assignment.Status, assignment.Notes,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *AssignmentRepository) UpdateAssignmentFieldsInTx(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Update("assignments").
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		Set("updated_at", sq.Expr("NOW()"))
	for col, val := range fields {
		builder = builder.Set(col, val)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

func (r *AssignmentRepository) SoftDeleteAssignmentInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE assignments SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

func (r *AssignmentRepository) SoftDeleteByOrderIDInTx(ctx context.Context, tx pgx.Tx, orderID uint64) (int64, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE assignments SET deleted_at = NOW(), updated_at = NOW() WHERE order_id = $1 AND deleted_at IS NULL`, orderID)
	if err != nil {
		return 0, translateError(err)
	}
	return tag.RowsAffected(), nil
}

func (r *AssignmentRepository) DeleteAllAssignmentsInTx(ctx context.Context, tx pgx.Tx) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM assignments`)
	if err != nil {
		return 0, translateError(err)
	}
	return tag.RowsAffected(), nil
}
