package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dispatch-system/internal/entities"
)

type OrderHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, record *entities.OrderHistory) error
	CreateBatchInTx(ctx context.Context, tx pgx.Tx, records []entities.OrderHistory) error
	FindByOrderID(ctx context.Context, orderID uint64) ([]entities.OrderHistory, error)
}

type OrderHistoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderHistoryRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderHistoryRepositoryInterface {
	return &OrderHistoryRepository{storage: storage, logger: logger}
}

const orderHistoryInsert = `
	INSERT INTO order_history (order_id, user_id, user_name, action, field_name, old_value, new_value)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *OrderHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, record *entities.OrderHistory) error {
	_, err := tx.Exec(ctx, orderHistoryInsert,
		record.OrderID, record.UserID, record.UserName,
		record.Action, record.FieldName, record.OldValue, record.NewValue,
	)
	return translateError(err)
}

// CreateBatchInTx writes one row per changed field of a single update.
func (r *OrderHistoryRepository) CreateBatchInTx(ctx context.Context, tx pgx.Tx, records []entities.OrderHistory) error {
	for i := range records {
		if err := r.CreateInTx(ctx, tx, &records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderHistoryRepository) FindByOrderID(ctx context.Context, orderID uint64) ([]entities.OrderHistory, error) {
	query := `
		SELECT id, order_id, user_id, user_name, action, field_name, old_value, new_value, created_at
		FROM order_history
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var records []entities.OrderHistory
	for rows.Next() {
		var h entities.OrderHistory
		if err := rows.Scan(
			&h.ID, &h.OrderID, &h.UserID, &h.UserName,
			&h.Action, &h.FieldName, &h.OldValue, &h.NewValue, &h.CreatedAt,
		); err != nil {
			return nil, translateError(err)
		}
		records = append(records, h)
	}
	return records, rows.Err()
}
