package book

type CreateBookReq struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	ISBN        *string `json:"isbn,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	Description *string `json:"description,omitempty"`
	TotalCount  int64   `json:"total_count" validate:"gte=0"`
}

type UpdateBookReq struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	ISBN        *string `json:"isbn,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	Description *string `json:"description,omitempty"`
}

type AddCopiesReq struct {
	Count int64 `json:"count" validate:"required,gt=0"`
}
