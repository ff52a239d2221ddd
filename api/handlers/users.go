package handlers

import (
	"net/http"

	"github.com/firewatch-geo/firewatch-services/api/services"
)

func Register(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.RegisterService(w, r)
	}
}

func Login(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.LoginService(w, r)
	}
}

func ChangePassword(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ChangePasswordService(w, r)
	}
}

func MyProfile(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.MyProfileService(w, r)
	}
}

func UpdateProfile(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.UpdateProfileService(w, r)
	}
}

func ListUsers(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListUsersService(w, r)
	}
}
