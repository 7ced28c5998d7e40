package dto

// UpdateCartItemRequest 加入购物车/修改数量
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=999" example:"2"`
}
