package book

import (
	"context"
	"strings"

	"github.com/xiebiao/readingroom/internal/domain/book"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// 支持的排序方式,其余取值按上架时间倒序
var sortOptions = map[string]bool{
	"price_asc":       true,
	"price_desc":      true,
	"sold_desc":       true,
	"created_at_desc": true,
}

// ListBooksUseCase 目录浏览,所有人可用
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建目录浏览用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 分页与筛选条件
type ListBooksRequest struct {
	Page     int
	PageSize int
	Keyword  string // 匹配书名或作者
	SortBy   string
}

func (r *ListBooksRequest) normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	switch {
	case r.PageSize < 1:
		r.PageSize = defaultPageSize
	case r.PageSize > maxPageSize:
		r.PageSize = maxPageSize
	}
	r.Keyword = strings.TrimSpace(r.Keyword)
	if !sortOptions[r.SortBy] {
		r.SortBy = "created_at_desc"
	}
}

// ListBooksResponse 目录分页结果,每项带当前可用库存
type ListBooksResponse struct {
	List       []*BookView `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// Execute 查询一页图书
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	req.normalize()

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams(req))
	if err != nil {
		return nil, err
	}

	views := make([]*BookView, 0, len(books))
	for _, b := range books {
		views = append(views, toView(b))
	}

	return &ListBooksResponse{
		List:       views,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: int((total + int64(req.PageSize) - 1) / int64(req.PageSize)),
	}, nil
}
