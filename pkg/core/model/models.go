package model

// ShiftKind tags a logged or scheduled shift
type ShiftKind string

const (
	ShiftBasic         ShiftKind = "basic"
	ShiftCover         ShiftKind = "cover"
	ShiftAnnualLeave   ShiftKind = "annual_leave"
	ShiftSickness      ShiftKind = "sickness"
	ShiftPublicHoliday ShiftKind = "public_holiday"
)

func (k ShiftKind) IsValid() bool {
	switch k {
	case ShiftBasic, ShiftCover, ShiftAnnualLeave, ShiftSickness, ShiftPublicHoliday:
		return true
	}
	return false
}

// Label is the human-readable name used in composite calendar labels
func (k ShiftKind) Label() string {
	switch k {
	case ShiftBasic:
		return "Shift"
	case ShiftCover:
		return "Cover"
	case ShiftAnnualLeave:
		return "Holiday"
	case ShiftSickness:
		return "Sickness"
	case ShiftPublicHoliday:
		return "Public Holiday"
	}
	return string(k)
}

// LeaveKind tags a leave request
type LeaveKind string

const (
	LeaveAnnual        LeaveKind = "annual_leave"
	LeaveSickness      LeaveKind = "sickness"
	LeavePublicHoliday LeaveKind = "public_holiday"
	LeaveCover         LeaveKind = "cover"
)

// ShiftKind maps a leave kind onto the calendar kind of its synthetic entry.
// Unknown leave kinds are shown as annual leave.
func (k LeaveKind) ShiftKind() ShiftKind {
	switch k {
	case LeaveSickness:
		return ShiftSickness
	case LeavePublicHoliday:
		return ShiftPublicHoliday
	case LeaveCover:
		return ShiftCover
	}
	return ShiftAnnualLeave
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveDenied   LeaveStatus = "denied"
)

// ShiftEntry is a logged or scheduled shift for one carer on one date
type ShiftEntry struct {
	ID        string     `yaml:"id"`
	NetworkID string     `yaml:"networkID"`
	Carer     CarerRef   `yaml:"carer"`
	CarerName string     `yaml:"carerName,omitempty"` // cached name, used when no profile resolves
	Date      Date       `yaml:"date"`
	Start     TimeOfDay  `yaml:"start"`
	End       *TimeOfDay `yaml:"end,omitempty"` // nil means zero-duration
	Kind      ShiftKind  `yaml:"kind"`
	Note      string     `yaml:"note,omitempty"`

	PendingExport bool `yaml:"pendingExport,omitempty"`
}

// LeaveRequest is a carer's request for leave over an inclusive date span
type LeaveRequest struct {
	ID        string      `yaml:"id"`
	NetworkID string      `yaml:"networkID"`
	Carer     CarerRef    `yaml:"carer"`
	CarerName string      `yaml:"carerName,omitempty"`
	Start     Date        `yaml:"start"`
	End       Date        `yaml:"end"`
	Kind      LeaveKind   `yaml:"kind"`
	Status    LeaveStatus `yaml:"status"`
	Hours     *float64    `yaml:"hours,omitempty"`
}

func (l LeaveRequest) Covers(d Date) bool {
	return !d.Before(l.Start) && !d.After(l.End)
}

// EntityType says what a recurring chain schedules
type EntityType string

const (
	EntityTask  EntityType = "task"
	EntityDose  EntityType = "dose"
	EntityLeave EntityType = "leave"
)

// RecurringEntity is one instance in a recurring chain of tasks, doses or leave.
// For a given ParentChainID and due key at most one instance exists.
type RecurringEntity struct {
	ID            string         `yaml:"id" validate:"required"`
	ParentChainID string         `yaml:"parentChainID" validate:"required"`
	NetworkID     string         `yaml:"networkID"`
	Title         string         `yaml:"title,omitempty"`
	EntityType    EntityType     `yaml:"entityType,omitempty" validate:"omitempty,oneof=task dose leave"`
	Recurrence    RecurrenceKind `yaml:"recurrence"`
	DueDate       *Date          `yaml:"dueDate,omitempty"`
	VisibleFrom   *Date          `yaml:"visibleFrom,omitempty"`
	Completed     bool           `yaml:"completed,omitempty"`
}

// ChainID returns the chain this instance belongs to. The first instance of a
// chain may omit ParentChainID, in which case it heads the chain itself.
func (r RecurringEntity) ChainID() string {
	if r.ParentChainID != "" {
		return r.ParentChainID
	}
	return r.ID
}

// RecurrenceKind is how often a recurring entity repeats
type RecurrenceKind string

const (
	RecurrenceNone    RecurrenceKind = "none"
	RecurrenceDaily   RecurrenceKind = "daily"
	RecurrenceWeekly  RecurrenceKind = "weekly"
	RecurrenceMonthly RecurrenceKind = "monthly"
)

func (k RecurrenceKind) IsKnown() bool {
	switch k {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// IsRecurring is false for "none" and for the empty kind
func (k RecurrenceKind) IsRecurring() bool {
	return k != RecurrenceNone && k != ""
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleCarer  Role = "carer"
	RoleViewer Role = "viewer"
)

// NetworkMembership binds a caller to a care network
type NetworkMembership struct {
	CallerID    string `yaml:"callerID"`
	NetworkID   string `yaml:"networkID"`
	NetworkName string `yaml:"networkName"`
	Role        Role   `yaml:"role"`
}

// CalendarEntry is a flat, display-ready record produced by reconciliation
type CalendarEntry struct {
	ID             string    `json:"id" yaml:"id"`
	NetworkID      string    `json:"network_id" yaml:"networkID"`
	NetworkName    string    `json:"network_name,omitempty" yaml:"networkName,omitempty"`
	CarerID        CarerRef  `json:"carer_id" yaml:"carerID"`
	DisplayName    string    `json:"display_name" yaml:"displayName"`
	Date           Date      `json:"date" yaml:"date"`
	Start          TimeOfDay `json:"start_time" yaml:"start"`
	End            TimeOfDay `json:"end_time" yaml:"end"`
	Kind           ShiftKind `json:"kind" yaml:"kind"`
	Label          string    `json:"label" yaml:"label"`
	Note           string    `json:"note,omitempty" yaml:"note,omitempty"`
	IsLeaveDerived bool      `json:"is_leave_derived" yaml:"isLeaveDerived"`
	PendingExport  bool      `json:"pending_export,omitempty" yaml:"pendingExport,omitempty"`
}
