package dto

// RuleRequest is the body of rule create and update requests
type RuleRequest struct {
	Description string `json:"description" binding:"required,max=255" example:"Terlambat Masuk Sekolah"`
	Category    string `json:"category" binding:"required,oneof=Ringan Sedang Berat" example:"Ringan"`
	Points      int    `json:"points" binding:"required,gt=0" example:"5"`
}
