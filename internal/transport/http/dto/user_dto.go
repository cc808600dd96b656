package dto

type UsersListResponse struct {
	Users []UserResponse `json:"users"`
}
