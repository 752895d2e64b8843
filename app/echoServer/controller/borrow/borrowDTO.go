package borrow

import "time"

type CreateBorrowReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

type ApproveReq struct {
	IssueDate *time.Time `json:"issue_date" validate:"required"`
	DueDate   *time.Time `json:"due_date" validate:"required"`
	Remarks   *string    `json:"remarks,omitempty"`
}

type RejectReq struct {
	Remarks *string `json:"remarks,omitempty"`
}
