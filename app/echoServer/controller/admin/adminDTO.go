package admin

type DeleteUserReq struct {
	Email string `json:"email" validate:"required,email"`
}

type ManageRoleReq struct {
	Email  string `json:"email" validate:"required,email"`
	Action string `json:"action" validate:"required,oneof=grant revoke"`
}
