package events

// Events published after a mutation commits. Listeners format and deliver
// the owner notification out of band.

type OrderAssignedEvent struct {
	OrderID       uint64
	OrderNumber   string
	CustomerName  string
	InstallerName string
	ScheduledDate string
	StartTime     string
	EndTime       string
}

func (e OrderAssignedEvent) Name() string { return "order.assigned" }

type OrderCompletedEvent struct {
	OrderID       uint64
	OrderNumber   string
	CustomerName  string
	InstallerName string
}

func (e OrderCompletedEvent) Name() string { return "order.completed" }

type OrderRescheduledEvent struct {
	OrderID       uint64
	OrderNumber   string
	CustomerName  string
	InstallerName string
	Reason        string
	NewDate       string
	NewTime       string
}

func (e OrderRescheduledEvent) Name() string { return "order.rescheduled" }

type OrderWithdrawnEvent struct {
	OrderID      uint64
	OrderNumber  string
	CustomerName string
}

func (e OrderWithdrawnEvent) Name() string { return "order.withdrawn" }
