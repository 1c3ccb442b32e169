package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims for signed-in users
type UserClaims struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignInRequest is the request body for sign-in
type SignInRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse is returned after successful sign-in
type SignInResponse struct {
	Token    string `json:"token"`
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// AuthEvent is broadcast on every sign-in/sign-out transition
type AuthEvent struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}
