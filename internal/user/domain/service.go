package domain

import (
	"context"
	"errors"
)

type RegisterRequest struct {
	Name     string
	Email    string
	Tel      string
	Country  string
	Address  string
	Category string
	Password string
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type UpdateUserRequest struct {
	ID      string
	Name    string
	Tel     string
	Country string
	Address string
}

type Service interface {
	Register(context.Context, RegisterRequest) (User, error)
	Login(context.Context, LoginRequest) (LoginResult, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(context.Context, UpdateUserRequest) (User, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound           = errors.New("user_not_found")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidID          = errors.New("invalid_user_id")
)
