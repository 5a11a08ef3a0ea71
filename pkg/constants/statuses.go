package constants

// --- ORDER STATUSES (match the CHECK constraint in the DB) ---
const (
	OrderStatusPending        = "pending"
	OrderStatusAssigned       = "assigned"
	OrderStatusOnTheWay       = "on_the_way"
	OrderStatusMetCustomer    = "met_customer"
	OrderStatusOrderCompleted = "order_completed"
	OrderStatusDocketReceived = "docket_received"
	OrderStatusDocketUploaded = "docket_uploaded"
	OrderStatusReadyToInvoice = "ready_to_invoice"
	OrderStatusInvoiced       = "invoiced"
	OrderStatusCompleted      = "completed"
	OrderStatusCustomerIssue  = "customer_issue"
	OrderStatusBuildingIssue  = "building_issue"
	OrderStatusNetworkIssue   = "network_issue"
	OrderStatusRescheduled    = "rescheduled"
	OrderStatusWithdrawn      = "withdrawn"
)

var OrderStatuses = []string{
	OrderStatusPending, OrderStatusAssigned, OrderStatusOnTheWay,
	OrderStatusMetCustomer, OrderStatusOrderCompleted, OrderStatusDocketReceived,
	OrderStatusDocketUploaded, OrderStatusReadyToInvoice, OrderStatusInvoiced,
	OrderStatusCompleted, OrderStatusCustomerIssue, OrderStatusBuildingIssue,
	OrderStatusNetworkIssue, OrderStatusRescheduled, OrderStatusWithdrawn,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// --- RESCHEDULE REASONS (required when an order enters "rescheduled") ---
const (
	RescheduleReasonCustomerIssue = "customer_issue"
	RescheduleReasonBuildingIssue = "building_issue"
	RescheduleReasonNetworkIssue  = "network_issue"
)

var RescheduleReasons = []string{
	RescheduleReasonCustomerIssue,
	RescheduleReasonBuildingIssue,
	RescheduleReasonNetworkIssue,
}

func IsValidRescheduleReason(reason string) bool {
	for _, r := range RescheduleReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// --- ORDER PRIORITIES ---
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var OrderPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

func IsValidPriority(priority string) bool {
	for _, p := range OrderPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

// --- ASSIGNMENT STATUSES (distinct from order statuses) ---
const (
	AssignmentStatusScheduled  = "scheduled"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
	AssignmentStatusCancelled  = "cancelled"
)

var AssignmentStatuses = []string{
	AssignmentStatusScheduled, AssignmentStatusInProgress,
	AssignmentStatusCompleted, AssignmentStatusCancelled,
}

func IsValidAssignmentStatus(status string) bool {
	for _, s := range AssignmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// --- HISTORY ACTIONS ---
const (
	HistoryActionCreated       = "created"
	HistoryActionUpdated       = "updated"
	HistoryActionStatusChanged = "status_changed"
	HistoryActionDeleted       = "deleted"
	HistoryActionReassigned    = "reassigned"
)

// --- NOTE ENUMS ---
const (
	NoteTypeGeneral    = "general"
	NoteTypeReschedule = "reschedule"
	NoteTypeFollowUp   = "follow_up"
	NoteTypeIncident   = "incident"
	NoteTypeComplaint  = "complaint"
)

var NoteTypes = []string{
	NoteTypeGeneral, NoteTypeReschedule, NoteTypeFollowUp,
	NoteTypeIncident, NoteTypeComplaint,
}

const (
	NoteStatusOpen       = "open"
	NoteStatusInProgress = "in_progress"
	NoteStatusResolved   = "resolved"
	NoteStatusClosed     = "closed"
)

var NoteStatuses = []string{
	NoteStatusOpen, NoteStatusInProgress, NoteStatusResolved, NoteStatusClosed,
}
