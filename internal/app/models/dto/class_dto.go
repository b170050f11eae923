package dto

// ClassRequest is the body of class create and update requests
type ClassRequest struct {
	Name            string `json:"name" binding:"required,max=255" example:"XII - RPL"`
	HomeroomUserID  *int64 `json:"homeroomUserId" binding:"omitempty,gt=0"`
	StudentCapacity *int   `json:"studentCapacity" binding:"omitempty,gte=0" example:"27"`
}
