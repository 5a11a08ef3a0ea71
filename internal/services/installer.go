package services

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"dispatch-system/internal/dto"
	"dispatch-system/internal/entities"
	"dispatch-system/internal/repositories"
	"dispatch-system/pkg/types"
)

type InstallerServiceInterface interface {
	GetInstallers(ctx context.Context, filter types.Filter) (*dto.InstallerListResponseDTO, error)
	FindInstaller(ctx context.Context, id uint64) (*dto.InstallerResponseDTO, error)
	CreateInstaller(ctx context.Context, payload dto.CreateInstallerDTO) (*dto.InstallerResponseDTO, error)
	BulkCreateInstallers(ctx context.Context, payload dto.BulkCreateInstallersDTO) ([]uint64, error)
	UpdateInstaller(ctx context.Context, id uint64, payload dto.UpdateInstallerDTO) (*dto.InstallerResponseDTO, error)
}

type InstallerService struct {
	installerRepo repositories.InstallerRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewInstallerService(
	installerRepo repositories.InstallerRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) InstallerServiceInterface {
	return &InstallerService{installerRepo: installerRepo, txManager: txManager, logger: logger}
}

func (s *InstallerService) GetInstallers(ctx context.Context, filter types.Filter) (*dto.InstallerListResponseDTO, error) {
	items, total, err := s.installerRepo.GetInstallers(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]dto.InstallerResponseDTO, 0, len(items))
	for i := range items {
		resp := toInstallerResponse(&items[i].Installer)
		resp.ActiveAssignments = items[i].ActiveAssignments
		list = append(list, *resp)
	}
	return &dto.InstallerListResponseDTO{List: list, TotalCount: total}, nil
}

func (s *InstallerService) FindInstaller(ctx context.Context, id uint64) (*dto.InstallerResponseDTO, error) {
	installer, err := s.installerRepo.FindInstallerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInstallerResponse(installer), nil
}

func (s *InstallerService) CreateInstaller(ctx context.Context, payload dto.CreateInstallerDTO) (*dto.InstallerResponseDTO, error) {
	installer := installerFromCreateDTO(payload)
	id, err := s.installerRepo.CreateInstaller(ctx, installer)
	if err != nil {
		return nil, err
	}
	return s.FindInstaller(ctx, id)
}

func (s *InstallerService) BulkCreateInstallers(ctx context.Context, payload dto.BulkCreateInstallersDTO) ([]uint64, error) {
	var ids []uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for i := range payload.Installers {
			id, err := s.installerRepo.CreateInstallerInTx(ctx, tx, installerFromCreateDTO(payload.Installers[i]))
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *InstallerService) UpdateInstaller(ctx context.Context, id uint64, payload dto.UpdateInstallerDTO) (*dto.InstallerResponseDTO, error) {
	fields := make(map[string]interface{})
	if payload.Name.Valid {
		fields["name"] = payload.Name.String
	}
	if payload.Email.Valid {
		fields["email"] = payload.Email.String
	}
	if payload.Phone.Valid {
		fields["phone"] = payload.Phone.String
	}
	if payload.Skills.Valid {
		fields["skills"] = payload.Skills.String
	}
	if payload.IsActive.Valid {
		fields["is_active"] = payload.IsActive.Bool
	}

	if len(fields) > 0 {
		if err := s.installerRepo.UpdateInstallerFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.FindInstaller(ctx, id)
}

func installerFromCreateDTO(payload dto.CreateInstallerDTO) *entities.Installer {
	installer := &entities.Installer{
		Name:     payload.Name,
		Email:    nullString(payload.Email),
		Phone:    nullString(payload.Phone),
		Skills:   nullString(payload.Skills),
		IsActive: true,
	}
	if payload.UserID != 0 {
		installer.UserID = sql.NullInt64{Int64: int64(payload.UserID), Valid: true}
	}
	return installer
}

func toInstallerResponse(i *entities.Installer) *dto.InstallerResponseDTO {
	resp := &dto.InstallerResponseDTO{
		ID:        i.ID,
		Name:      i.Name,
		Email:     i.Email.String,
		Phone:     i.Phone.String,
		Skills:    i.Skills.String,
		IsActive:  i.IsActive,
		CreatedAt: formatTimestamp(i.CreatedAt),
		UpdatedAt: formatTimestamp(i.UpdatedAt),
	}
	if i.UserID.Valid {
		resp.UserID = uint64(i.UserID.Int64)
	}
	return resp
}
