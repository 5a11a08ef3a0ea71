// pkg/constants/constants.go
package constants

//============== ROLES ==============

const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
)

//============== UPLOAD CONTEXTS ==============

// UploadContext defines the type for file upload contexts.
type UploadContext string

const (
	// UploadContextDocket is used for docket files attached to orders.
	UploadContextDocket UploadContext = "docket"
)

func (uc UploadContext) String() string {
	return string(uc)
}

//============== CACHE KEYS ==============

const (
	// Cached permission set of a role.
	// Format: role_permissions:<role> -> JSON array of permission codes
	CacheKeyRolePermissions = "role_permissions:%s"
)

//============== PERMISSIONS ==============

const (
	PermissionOrdersClearAll = "orders:clear_all"
	PermissionNotesDelete    = "notes:delete"
	PermissionUsersManage    = "users:manage"
)

//============== SCHEDULE GRID ==============

// Working window of the calendar grid. Slots are generated at 30-minute
// granularity from StartHour:00 through EndHour:00.
const (
	ScheduleStartHour = 8
	ScheduleEndHour   = 18
)

// DefaultEstimatedDurationMinutes applies when an order arrives without one.
const DefaultEstimatedDurationMinutes = 60
