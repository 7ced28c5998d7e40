package dto

// PublishBookRequest HTTP上架请求
type PublishBookRequest struct {
	Title          string `json:"title" binding:"required,max=200" example:"Go语言圣经"`
	Author         string `json:"author" binding:"max=100" example:"Alan Donovan"`
	Price          int64  `json:"price" binding:"min=0,max=99999999" example:"999"` // 价格(分)
	PhysicalCopies int    `json:"physical_copies" binding:"min=0" example:"5"`
}

// UpdateBookRequest HTTP修改图书请求,未传的字段不修改
type UpdateBookRequest struct {
	Title  string `json:"title" binding:"max=200" example:"Go语言圣经(第2版)"`
	Author string `json:"author" binding:"max=100" example:"Alan Donovan"`
	Price  *int64 `json:"price" binding:"omitempty,min=0,max=99999999" example:"1200"`
}

// RestockRequest HTTP补货请求
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=100000" example:"10"`
}

// AdjustStockRequest HTTP盘点/报损请求,physical_copies为调整后的实体库存
type AdjustStockRequest struct {
	PhysicalCopies *int `json:"physical_copies" binding:"required,min=0,max=1000000" example:"3"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc sold_desc created_at_desc" example:"created_at_desc"`
}

// PageRequest 通用分页参数
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"10"`
}
