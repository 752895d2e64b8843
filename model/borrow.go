// model/borrow.go
package model

import "time"

type BorrowStatus string

const (
	BorrowPending  BorrowStatus = "pending"
	BorrowApproved BorrowStatus = "approved"
	BorrowRejected BorrowStatus = "rejected"
	BorrowReturned BorrowStatus = "returned"
)

var validBorrowStatuses = map[BorrowStatus]bool{
	BorrowPending:  true,
	BorrowApproved: true,
	BorrowRejected: true,
	BorrowReturned: true,
}

func IsValidBorrowStatus(s BorrowStatus) bool { return validBorrowStatuses[s] }

type BorrowRequest struct {
	ID         int64        `json:"id"`
	StudentID  int64        `json:"student_id"`
	BookID     int64        `json:"book_id"`
	Status     BorrowStatus `json:"status"`
	IssueDate  *time.Time   `json:"issue_date,omitempty"`
	DueDate    *time.Time   `json:"due_date,omitempty"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Remarks    *string      `json:"remarks,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
