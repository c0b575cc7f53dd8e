package dto

type BuildingDTO struct {
	Name string `json:"name" binding:"required"`
}

type FloorDTO struct {
	BuildingID string `json:"buildingId" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

type CctvDTO struct {
	FloorID   string `json:"floorId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
	StreamURL string `json:"streamUrl" binding:"required,url"`
	IsActive  *bool  `json:"isActive"`
}

type CctvUpdateDTO struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	StreamURL string `json:"streamUrl" binding:"omitempty,url"`
	IsActive  *bool  `json:"isActive"`
}
