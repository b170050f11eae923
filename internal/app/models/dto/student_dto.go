package dto

// StudentRequest is the body of student create and update requests. Points
// and status are derived server-side.
type StudentRequest struct {
	NISN          string `json:"nisn" binding:"required,max=20" example:"0051234567"`
	Name          string `json:"name" binding:"required,max=100" example:"Budi Santoso"`
	ClassID       *int64 `json:"classId" binding:"omitempty,gt=0" example:"3"`
	GuardianName  string `json:"guardianName" binding:"required,max=100" example:"Santoso"`
	GuardianPhone string `json:"guardianPhone" binding:"required,max=32" example:"0812-3456-7890"`
}
