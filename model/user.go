package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile carries the library-facing details of a user. borrow_limit is
// stored but not enforced on request creation.
type Profile struct {
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	RollNo      *string   `json:"roll_no,omitempty"`
	Department  *string   `json:"department,omitempty"`
	Year        *int      `json:"year,omitempty"`
	BorrowLimit int       `json:"borrow_limit"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	RollNo     *string `json:"roll_no,omitempty"`
	Department *string `json:"department,omitempty"`
	Year       *int    `json:"year,omitempty" validate:"omitempty,gte=1,lte=8"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
