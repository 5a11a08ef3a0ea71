package services

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"dispatch-system/internal/entities"
	"dispatch-system/internal/repositories"
	apperrors "dispatch-system/pkg/errors"
	"dispatch-system/pkg/types"
)

func listFilter() types.Filter {
	return types.Filter{Limit: 100, Offset: 0}
}

// fakeTxManager runs fn with a nil transaction. The in-memory repositories
// below never touch the tx handle.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// --- orders ---

type fakeOrderRepo struct {
	orders map[uint64]*entities.Order
	nextID uint64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint64]*entities.Order), nextID: 1}
}

func (r *fakeOrderRepo) add(order entities.Order) *entities.Order {
	order.ID = r.nextID
	r.nextID++
	r.orders[order.ID] = &order
	return &order
}

func (r *fakeOrderRepo) GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error) {
	ids := make([]uint64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	list := make([]entities.Order, 0, len(ids))
	for _, id := range ids {
		list = append(list, *r.orders[id])
	}
	return list, uint64(len(list)), nil
}

func (r *fakeOrderRepo) FindOrderByID(ctx context.Context, id uint64) (*entities.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	return r.FindOrderByID(ctx, id)
}

func (r *fakeOrderRepo) CreateOrderInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (uint64, error) {
	created := r.add(*order)
	return created.ID, nil
}

func (r *fakeOrderRepo) UpdateOrderFieldsInTx(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	order, ok := r.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for column, value := range fields {
		applyOrderField(order, column, value)
	}
	return nil
}

func applyOrderField(o *entities.Order, column string, value interface{}) {
	switch column {
	case "order_number":
		o.OrderNumber = value.(string)
	case "service_number":
		o.ServiceNumber = sql.NullString{String: value.(string), Valid: true}
	case "ticket_number":
		o.TicketNumber = sql.NullString{String: value.(string), Valid: true}
	case "customer_name":
		o.CustomerName = sql.NullString{String: value.(string), Valid: true}
	case "customer_phone":
		o.CustomerPhone = sql.NullString{String: value.(string), Valid: true}
	case "customer_email":
		o.CustomerEmail = sql.NullString{String: value.(string), Valid: true}
	case "address":
		o.Address = sql.NullString{String: value.(string), Valid: true}
	case "building_name":
		o.BuildingName = sql.NullString{String: value.(string), Valid: true}
	case "appointment_date":
		o.AppointmentDate = sql.NullTime{Time: value.(time.Time), Valid: true}
	case "appointment_time":
		o.AppointmentTime = sql.NullString{String: value.(string), Valid: true}
	case "estimated_duration":
		o.EstimatedDuration = int(value.(int64))
	case "service_type":
		o.ServiceType = sql.NullString{String: value.(string), Valid: true}
	case "sales_modi_type":
		o.SalesModiType = sql.NullString{String: value.(string), Valid: true}
	case "priority":
		o.Priority = value.(string)
	case "status":
		o.Status = value.(string)
	case "reschedule_reason":
		o.RescheduleReason = sql.NullString{String: value.(string), Valid: true}
	case "rescheduled_date":
		o.RescheduledDate = sql.NullTime{Time: value.(time.Time), Valid: true}
	case "rescheduled_time":
		o.RescheduledTime = sql.NullString{String: value.(string), Valid: true}
	case "docket_file_url":
		o.DocketFileURL = sql.NullString{String: value.(string), Valid: true}
	case "docket_file_name":
		o.DocketFileName = sql.NullString{String: value.(string), Valid: true}
	case "notes":
		o.Notes = sql.NullString{String: value.(string), Valid: true}
	}
}

func (r *fakeOrderRepo) SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	order, ok := r.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	order.Status = status
	return nil
}

func (r *fakeOrderRepo) DeleteOrderInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.orders[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) DeleteAllOrdersInTx(ctx context.Context, tx pgx.Tx) (int64, error) {
	count := int64(len(r.orders))
	r.orders = make(map[uint64]*entities.Order)
	return count, nil
}

// --- assignments ---

type fakeAssignmentRepo struct {
	assignments map[uint64]*entities.Assignment
	nextID      uint64

	// orderNumbers feeds the denormalized list column the way the SQL join
	// does in the real repository.
	orderNumbers map[uint64]string
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		assignments:  make(map[uint64]*entities.Assignment),
		nextID:       1,
		orderNumbers: make(map[uint64]string),
	}
}

func (r *fakeAssignmentRepo) active(id uint64) (*entities.Assignment, bool) {
	a, ok := r.assignments[id]
	if !ok || a.DeletedAt.Valid {
		return nil, false
	}
	return a, true
}

func (r *fakeAssignmentRepo) GetAssignments(ctx context.Context, filter types.Filter) ([]repositories.AssignmentListItem, uint64, error) {
	ids := make([]uint64, 0, len(r.assignments))
	for id := range r.assignments {
		if _, ok := r.active(id); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	list := make([]repositories.AssignmentListItem, 0, len(ids))
	for _, id := range ids {
		a := r.assignments[id]
		list = append(list, repositories.AssignmentListItem{
			Assignment:  *a,
			OrderNumber: r.orderNumbers[a.OrderID],
		})
	}
	return list, uint64(len(list)), nil
}

func (r *fakeAssignmentRepo) FindAssignmentByID(ctx context.Context, id uint64) (*entities.Assignment, error) {
	a, ok := r.active(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssignmentRepo) FindAssignmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error) {
	return r.FindAssignmentByID(ctx, id)
}

func (r *fakeAssignmentRepo) FindActiveByOrderID(ctx context.Context, orderID uint64) (*entities.Assignment, error) {
	for id, a := range r.assignments {
		if a.OrderID != orderID {
			continue
		}
		if _, ok := r.active(id); ok {
			copied := *a
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeAssignmentRepo) FindActiveByOrderIDInTx(ctx context.Context, tx pgx.Tx, orderID uint64) (*entities.Assignment, error) {
	return r.FindActiveByOrderID(ctx, orderID)
}

func (r *fakeAssignmentRepo) IsSlotOccupiedInTx(ctx context.Context, tx pgx.Tx, installerID uint64, date time.Time, startTime string, excludeID uint64) (bool, error) {
	for id, a := range r.assignments {
		if id == excludeID {
			continue
		}
		if _, ok := r.active(id); !ok {
			continue
		}
		if a.InstallerID == installerID && a.ScheduledDate.Equal(date) && a.ScheduledStartTime == startTime {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAssignmentRepo) CreateAssignmentInTx(ctx context.Context, tx pgx.Tx, assignment *entities.Assignment) (uint64, error) {
	copied := *assignment
	copied.ID = r.nextID
	r.nextID++
	r.assignments[copied.ID] = &copied
	return copied.ID, nil
}

func (r *fakeAssignmentRepo) UpdateAssignmentFieldsInTx(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	a, ok := r.active(id)
	if !ok {
		return apperrors.ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "installer_id":
			a.InstallerID = value.(uint64)
		case "scheduled_date":
			a.ScheduledDate = value.(time.Time)
		case "scheduled_start_time":
			a.ScheduledStartTime = value.(string)
		case "scheduled_end_time":
			a.ScheduledEndTime = value.(string)
		case "status":
			a.Status = value.(string)
		case "notes":
			a.Notes = sql.NullString{String: value.(string), Valid: true}
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) SoftDeleteAssignmentInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	a, ok := r.active(id)
	if !ok {
		return apperrors.ErrNotFound
	}
	a.DeletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	return nil
}

func (r *fakeAssignmentRepo) SoftDeleteByOrderIDInTx(ctx context.Context, tx pgx.Tx, orderID uint64) (int64, error) {
	var count int64
	for id, a := range r.assignments {
		if a.OrderID != orderID {
			continue
		}
		if _, ok := r.active(id); ok {
			a.DeletedAt = sql.NullTime{Time: time.Now(), Valid: true}
			count++
		}
	}
	return count, nil
}

func (r *fakeAssignmentRepo) DeleteAllAssignmentsInTx(ctx context.Context, tx pgx.Tx) (int64, error) {
	count := int64(len(r.assignments))
	r.assignments = make(map[uint64]*entities.Assignment)
	return count, nil
}

// --- installers ---

type fakeInstallerRepo struct {
	installers map[uint64]*entities.Installer
	nextID     uint64
}

func newFakeInstallerRepo() *fakeInstallerRepo {
	return &fakeInstallerRepo{installers: make(map[uint64]*entities.Installer), nextID: 1}
}

func (r *fakeInstallerRepo) add(installer entities.Installer) *entities.Installer {
	installer.ID = r.nextID
	r.nextID++
	r.installers[installer.ID] = &installer
	return &installer
}

func (r *fakeInstallerRepo) GetInstallers(ctx context.Context, filter types.Filter) ([]repositories.InstallerListItem, uint64, error) {
	ids := make([]uint64, 0, len(r.installers))
	for id := range r.installers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	list := make([]repositories.InstallerListItem, 0, len(ids))
	for _, id := range ids {
		list = append(list, repositories.InstallerListItem{Installer: *r.installers[id]})
	}
	return list, uint64(len(list)), nil
}

func (r *fakeInstallerRepo) FindInstallerByID(ctx context.Context, id uint64) (*entities.Installer, error) {
	installer, ok := r.installers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *installer
	return &copied, nil
}

func (r *fakeInstallerRepo) CreateInstaller(ctx context.Context, installer *entities.Installer) (uint64, error) {
	created := r.add(*installer)
	return created.ID, nil
}

func (r *fakeInstallerRepo) CreateInstallerInTx(ctx context.Context, tx pgx.Tx, installer *entities.Installer) (uint64, error) {
	return r.CreateInstaller(ctx, installer)
}

func (r *fakeInstallerRepo) UpdateInstallerFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	installer, ok := r.installers[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if v, ok := fields["name"]; ok {
		installer.Name = v.(string)
	}
	if v, ok := fields["is_active"]; ok {
		installer.IsActive = v.(bool)
	}
	return nil
}

// --- history ---

type fakeOrderHistoryRepo struct {
	rows []entities.OrderHistory
}

func (r *fakeOrderHistoryRepo) CreateInTx(ctx context.Context, tx pgx.Tx, record *entities.OrderHistory) error {
	r.rows = append(r.rows, *record)
	return nil
}

func (r *fakeOrderHistoryRepo) CreateBatchInTx(ctx context.Context, tx pgx.Tx, records []entities.OrderHistory) error {
	r.rows = append(r.rows, records...)
	return nil
}

func (r *fakeOrderHistoryRepo) FindByOrderID(ctx context.Context, orderID uint64) ([]entities.OrderHistory, error) {
	var out []entities.OrderHistory
	for _, row := range r.rows {
		if row.OrderID == orderID {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeAssignmentHistoryRepo struct {
	rows []entities.AssignmentHistory
}

func (r *fakeAssignmentHistoryRepo) CreateInTx(ctx context.Context, tx pgx.Tx, record *entities.AssignmentHistory) error {
	r.rows = append(r.rows, *record)
	return nil
}

func (r *fakeAssignmentHistoryRepo) GetHistory(ctx context.Context, filter types.Filter) ([]entities.AssignmentHistory, uint64, error) {
	return r.rows, uint64(len(r.rows)), nil
}

func (r *fakeAssignmentHistoryRepo) FindByOrderID(ctx context.Context, orderID uint64) ([]entities.AssignmentHistory, error) {
	var out []entities.AssignmentHistory
	for _, row := range r.rows {
		if row.OrderID == orderID {
			out = append(out, row)
		}
	}
	return out, nil
}

// --- file storage ---

type fakeFileStorage struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{saved: make(map[string][]byte)}
}

func (s *fakeFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	path := prefix + "/" + originalFileName
	s.saved[path] = data
	return path, nil
}

func (s *fakeFileStorage) Delete(filePath string) error {
	s.deleted = append(s.deleted, filePath)
	delete(s.saved, filePath)
	return nil
}
