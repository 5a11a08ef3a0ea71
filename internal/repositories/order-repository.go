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

type OrderRepositoryInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error)
	FindOrderByID(ctx context.Context, id uint64) (*entities.Order, error)
	FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error)
	CreateOrderInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (uint64, error)
	UpdateOrderFieldsInTx(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error
	SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	DeleteOrderInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	DeleteAllOrdersInTx(ctx context.Context, tx pgx.Tx) (int64, error)
}

type OrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &OrderRepository{storage: storage, logger: logger}
}

const orderColumns = `
	id, order_number, service_number, ticket_number,
	customer_name, customer_phone, customer_email, address, building_name,
	appointment_date, appointment_time, estimated_duration,
	service_type, sales_modi_type, priority,
	status, reschedule_reason, rescheduled_date, rescheduled_time,
	docket_file_url, docket_file_name, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ServiceNumber, &o.TicketNumber,
		&o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.Address, &o.BuildingName,
		&o.AppointmentDate, &o.AppointmentTime, &o.EstimatedDuration,
		&o.ServiceType, &o.SalesModiType, &o.Priority,
		&o.Status, &o.RescheduleReason, &o.RescheduledDate, &o.RescheduledTime,
		&o.DocketFileURL, &o.DocketFileName, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

var orderFilterColumns = map[string]string{
	"status":           "status",
	"priority":         "priority",
	"service_type":     "service_type",
	"order_number":     "order_number",
	"appointment_date": "appointment_date",
	"created_at":       "created_at",
}

func (r *OrderRepository) GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("orders")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"order_number": pattern},
			sq.ILike{"customer_name": pattern},
			sq.ILike{"address": pattern},
		})
	}
	countQuery, countArgs, err := applyFilterParams(base, filter, orderFilterColumns).
		Columns("COUNT(id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, translateError(err)
	}
	if totalCount == 0 {
		return []entities.Order{}, 0, nil
	}

	mainBuilder := applyListParams(base, filter, orderFilterColumns).Columns(orderColumns)
	if len(filter.Sort) == 0 {
		mainBuilder = mainBuilder.OrderBy("id DESC")
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

	var orders []entities.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, totalCount, rows.Err()
}

func (r *OrderRepository) FindOrderByID(ctx context.Context, id uint64) (*entities.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.storage.QueryRow(ctx, query, id))
}

// FindOrderForUpdateInTx locks the row so the diff against the prior state
// and the subsequent write see a consistent snapshot.
func (r *OrderRepository) FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return scanOrder(tx.QueryRow(ctx, query, id))
}

func (r *OrderRepository) CreateOrderInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (uint64, error) {
	query := `
		INSERT INTO orders (
			order_number, service_number, ticket_number,
			customer_name, customer_phone, customer_email, address, building_name,
			appointment_date, appointment_time, estimated_duration,
			service_type, sales_modi_type, priority,
			status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		order.OrderNumber, order.ServiceNumber, order.TicketNumber,
		order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.Address, order.BuildingName,
		order.AppointmentDate, order.AppointmentTime, order.EstimatedDuration,
		order.ServiceType, order.SalesModiType, order.Priority,
		order.Status, order.Notes,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *OrderRepository) UpdateOrderFieldsInTx(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Update("orders").Where(sq.Eq{"id": id}).Set("updated_at", sq.Expr("NOW()"))
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

func (r *OrderRepository) SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	return r.UpdateOrderFieldsInTx(ctx, tx, id, map[string]interface{}{"status": status})
}

func (r *OrderRepository) DeleteOrderInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

func (r *OrderRepository) DeleteAllOrdersInTx(ctx context.Context, tx pgx.Tx) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM orders`)
	if err != nil {
		return 0, translateError(err)
	}
	return tag.RowsAffected(), nil
}
