package handlers

import (
	"net/http"

	"github.com/firewatch-geo/firewatch-services/api/services"
)

func ListGroups(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListGroupsService(w, r)
	}
}

func CreateGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.CreateGroupService(w, r)
	}
}

func UpdateGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.UpdateGroupService(w, r)
	}
}

func DeleteGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.DeleteGroupService(w, r)
	}
}

func AddMember(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.AddMemberService(w, r)
	}
}

func RemoveMember(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.RemoveMemberService(w, r)
	}
}

func ListMembers(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListMembersService(w, r)
	}
}
