package handlers

import (
	"net/http"

	"github.com/firewatch-geo/firewatch-services/api/services"
)

func AdminListUsers(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.AdminListUsersService(w, r)
	}
}

func AdminCreateUser(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.AdminCreateUserService(w, r)
	}
}

func AdminDeleteUser(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.AdminDeleteUserService(w, r)
	}
}

func AdminStats(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.AdminStatsService(w, r)
	}
}
