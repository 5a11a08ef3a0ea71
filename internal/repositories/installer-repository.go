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

// InstallerListItem carries the roster row plus its active assignment count
// for the schedule grid.
type InstallerListItem struct {
	entities.Installer
	ActiveAssignments uint64 `db:"active_assignments"`
}

type InstallerRepositoryInterface interface {
	GetInstallers(ctx context.Context, filter types.Filter) ([]InstallerListItem, uint64, error)
	FindInstallerByID(ctx context.Context, id uint64) (*entities.Installer, error)
	CreateInstaller(ctx context.Context, installer *entities.Installer) (uint64, error)
	CreateInstallerInTx(ctx context.Context, tx pgx.Tx, installer *entities.Installer) (uint64, error)
	UpdateInstallerFields(ctx context.Context, id uint64, fields map[string]interface{}) error
}

type InstallerRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewInstallerRepository(storage *pgxpool.Pool, logger *zap.Logger) InstallerRepositoryInterface {
	return &InstallerRepository{storage: storage, logger: logger}
}

var installerFilterColumns = map[string]string{
	"is_active": "i.is_active",
	"name":      "i.name",
	"created_at": "i.created_at",
}

func (r *InstallerRepository) GetInstallers(ctx context.Context, filter types.Filter) ([]InstallerListItem, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("installers i")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"i.name": pattern},
			sq.ILike{"i.skills": pattern},
		})
	}

	countQuery, countArgs, err := applyFilterParams(base, filter, installerFilterColumns).
		Columns("COUNT(i.id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, translateError(err)
	}
	if totalCount == 0 {
		return []InstallerListItem{}, 0, nil
	}

	mainBuilder := applyListParams(base, filter, installerFilterColumns).Columns(
		"i.id", "i.name", "i.email", "i.phone", "i.skills", "i.is_active", "i.user_id",
		"i.created_at", "i.updated_at",
		`(SELECT COUNT(*) FROM assignments a
			WHERE a.installer_id = i.id AND a.deleted_at IS NULL) AS active_assignments`,
	)
	if len(filter.Sort) == 0 {
		mainBuilder = mainBuilder.OrderBy("i.name ASC")
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

	var installers []InstallerListItem
	for rows.Next() {
		var item InstallerListItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Email, &item.Phone, &item.Skills, &item.IsActive, &item.UserID,
			&item.CreatedAt, &item.UpdatedAt, &item.ActiveAssignments,
		); err != nil {
			return nil, 0, translateError(err)
		}
		installers = append(installers, item)
	}
	return installers, totalCount, rows.Err()
}

func (r *InstallerRepository) FindInstallerByID(ctx context.Context, id uint64) (*entities.Installer, error) {
	query := `
		SELECT id, name, email, phone, skills, is_active, user_id, created_at, updated_at
		FROM installers WHERE id = $1`

	var i entities.Installer
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.Name, &i.Email, &i.Phone, &i.Skills, &i.IsActive, &i.UserID,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &i, nil
}

func (r *InstallerRepository) CreateInstaller(ctx context.Context, installer *entities.Installer) (uint64, error) {
	return r.createInstaller(ctx, r.storage, installer)
}

func (r *InstallerRepository) CreateInstallerInTx(ctx context.Context, tx pgx.Tx, installer *entities.Installer) (uint64, error) {
	return r.createInstaller(ctx, tx, installer)
}

func (r *InstallerRepository) createInstaller(ctx context.Context, q querier, installer *entities.Installer) (uint64, error) {
	query := `
		INSERT INTO installers (name, email, phone, skills, is_active, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uint64
	err := q.QueryRow(ctx, query,
		installer.Name, installer.Email, installer.Phone, installer.Skills,
		installer.IsActive, installer.UserID,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *InstallerRepository) UpdateInstallerFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Update("installers").Where(sq.Eq{"id": id}).Set("updated_at", sq.Expr("NOW()"))
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
