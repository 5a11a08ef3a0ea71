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

type NoteRepositoryInterface interface {
	GetNotes(ctx context.Context, filter types.Filter) ([]entities.Note, uint64, error)
	FindNoteByID(ctx context.Context, id uint64) (*entities.Note, error)
	CreateNote(ctx context.Context, note *entities.Note) (uint64, error)
	UpdateNoteFields(ctx context.Context, id uint64, fields map[string]interface{}) error
	DeleteNote(ctx context.Context, id uint64) error
}

type NoteRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNoteRepository(storage *pgxpool.Pool, logger *zap.Logger) NoteRepositoryInterface {
	return &NoteRepository{storage: storage, logger: logger}
}

const noteColumns = `
	id, service_number, order_number, customer_name,
	note_type, priority, status, content, created_by, created_at, updated_at`

func scanNote(row pgx.Row) (*entities.Note, error) {
	var n entities.Note
	err := row.Scan(
		&n.ID, &n.ServiceNumber, &n.OrderNumber, &n.CustomerName,
		&n.NoteType, &n.Priority, &n.Status, &n.Content, &n.CreatedBy,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &n, nil
}

var noteFilterColumns = map[string]string{
	"note_type":  "note_type",
	"priority":   "priority",
	"status":     "status",
	"created_at": "created_at",
}

func (r *NoteRepository) GetNotes(ctx context.Context, filter types.Filter) ([]entities.Note, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("notes")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"service_number": pattern},
			sq.ILike{"order_number": pattern},
			sq.ILike{"customer_name": pattern},
			sq.ILike{"content": pattern},
		})
	}

	countQuery, countArgs, err := applyFilterParams(base, filter, noteFilterColumns).
		Columns("COUNT(id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, translateError(err)
	}
	if totalCount == 0 {
		return []entities.Note{}, 0, nil
	}

	mainBuilder := applyListParams(base, filter, noteFilterColumns).Columns(noteColumns)
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

	var notes []entities.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, *n)
	}
	return notes, totalCount, rows.Err()
}

func (r *NoteRepository) FindNoteByID(ctx context.Context, id uint64) (*entities.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	return scanNote(r.storage.QueryRow(ctx, query, id))
}

func (r *NoteRepository) CreateNote(ctx context.Context, note *entities.Note) (uint64, error) {
	query := `
		INSERT INTO notes (service_number, order_number, customer_name, note_type, priority, status, content, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		note.ServiceNumber, note.OrderNumber, note.CustomerName,
		note.NoteType, note.Priority, note.Status, note.Content, note.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *NoteRepository) UpdateNoteFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Update("notes").Where(sq.Eq{"id": id}).Set("updated_at", sq.Expr("NOW()"))
	for col, val := range fields {
		builder = builder.Set(col, val)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

func (r *NoteRepository) DeleteNote(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}
