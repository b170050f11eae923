package models

import "time"

// Student represents an enrolled student and their discipline standing
type Student struct {
	ID            int64         `json:"id"`
	NISN          string        `json:"nisn"`
	Name          string        `json:"name"`
	ClassID       *int64        `json:"classId,omitempty"`
	ClassName     *string       `json:"className,omitempty"`
	GuardianName  string        `json:"guardianName"`
	GuardianPhone string        `json:"guardianPhone"`
	TotalPoints   int           `json:"totalPoints"`
	Status        StudentStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ClassLabel returns the class name or a dash when the student has no class
func (s *Student) ClassLabel() string {
	if s.ClassName == nil || *s.ClassName == "" {
		return "-"
	}
	return *s.ClassName
}
