package models

// StudentStatus is the disciplinary standing derived from a student's points
type StudentStatus string

const (
	StatusActive   StudentStatus = "Aktif"
	StatusWarning1 StudentStatus = "SPO1"
	StatusWarning2 StudentStatus = "SPO2"
	StatusWarning3 StudentStatus = "SPO3"
	StatusExpelled StudentStatus = "Drop Out"
)

// Point thresholds, evaluated from the highest down
const (
	ExpelledThreshold = 100
	Warning3Threshold = 75
	Warning2Threshold = 50
	Warning1Threshold = 25
)

// StatusForPoints maps a point total onto a disciplinary status.
func StatusForPoints(total int) StudentStatus {
	switch {
	case total >= ExpelledThreshold:
		return StatusExpelled
	case total >= Warning3Threshold:
		return StatusWarning3
	case total >= Warning2Threshold:
		return StatusWarning2
	case total >= Warning1Threshold:
		return StatusWarning1
	default:
		return StatusActive
	}
}

// IsValid reports whether s is one of the known statuses
func (s StudentStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusWarning1, StatusWarning2, StatusWarning3, StatusExpelled:
		return true
	}
	return false
}

// RuleCategory is the severity of a rule
type RuleCategory string

const (
	CategoryLight  RuleCategory = "Ringan"
	CategoryMedium RuleCategory = "Sedang"
	CategorySevere RuleCategory = "Berat"
)

// IsValid reports whether c is one of the known categories
func (c RuleCategory) IsValid() bool {
	switch c {
	case CategoryLight, CategoryMedium, CategorySevere:
		return true
	}
	return false
}

// ViolationStatus is the processing state of a violation record
type ViolationStatus string

const (
	ViolationPending    ViolationStatus = "ditunda"
	ViolationInProgress ViolationStatus = "diproses"
	ViolationResolved   ViolationStatus = "selesai"
)

// ViolationStatuses lists every processing status in display order
var ViolationStatuses = []ViolationStatus{ViolationPending, ViolationInProgress, ViolationResolved}

// Label returns the capitalized form shown to guardians
func (s ViolationStatus) Label() string {
	switch s {
	case ViolationPending:
		return "Ditunda"
	case ViolationInProgress:
		return "Diproses"
	case ViolationResolved:
		return "Selesai"
	}
	return string(s)
}

// IsValid reports whether s is one of the known processing statuses
func (s ViolationStatus) IsValid() bool {
	switch s {
	case ViolationPending, ViolationInProgress, ViolationResolved:
		return true
	}
	return false
}

// Activity kinds written to the activity log
const (
	ActivityCreate = "create"
	ActivityUpdate = "update"
	ActivityDelete = "delete"
	ActivityFonnte = "fonnte"
)

// User roles carried in the access token
const (
	RoleAdmin           = "Admin"
	RoleHomeroomTeacher = "Wali Kelas"
	RoleCounselor       = "Guru BK"
)
