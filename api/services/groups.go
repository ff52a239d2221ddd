package services

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/firewatch-geo/firewatch-services/internal/authz"
	"github.com/firewatch-geo/firewatch-services/internal/events"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type createGroupRequest struct {
	Name        string             `json:"name"`
	AccessLevel models.AccessLevel `json:"access_level"`
}

type addMemberRequest struct {
	GroupID int64 `json:"group_id"`
	UserID  int64 `json:"user_id"`
}

// membersResponse pairs the group header with its roster.
type membersResponse struct {
	Group   models.AccessGroup  `json:"group"`
	Members []models.Membership `json:"members"`
}

func groupIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["group-id"], 10, 64)
	if err != nil {
		return 0, models.Validation("invalid group id")
	}
	return id, nil
}

// ListGroupsService lists the groups visible to the caller: managers and
// admins see all groups, everyone else only the groups they belong to.
func (svc *Service) ListGroupsService(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var groups []models.GroupSummary
	var err error
	if principal.Caps.IsManager {
		groups, err = svc.DB.ListGroups()
	} else {
		groups, err = svc.DB.ListGroupsForUser(principal.User.ID)
	}
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	if groups == nil {
		groups = []models.GroupSummary{}
	}
	WriteResponse(w, http.StatusOK, groups)
}

// CreateGroupService creates a new access group owned by the caller.
func (svc *Service) CreateGroupService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if !authz.CanManageGroups(principal) {
		HandleErrResponse(w, r, models.Forbidden("manager access required"))
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleErrResponse(w, r, models.Validation("invalid request payload"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		HandleErrResponse(w, r, models.Validation("group name is required"))
		return
	}
	if !req.AccessLevel.Valid() {
		HandleErrResponse(w, r, models.Validation("access_level must be read or write"))
		return
	}

	group, err := svc.DB.CreateGroup(req.Name, req.AccessLevel, principal.User.ID)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	svc.publishAudit(r, events.NewAuditEvent("create", "access_group", group.ID, principal.User.Username))
	logger.Info().Str("group_name", group.Name).Msg("group created")

	WriteResponse(w, http.StatusCreated, group)
}

// UpdateGroupService applies a partial update to a group's name or access
// level.
func (svc *Service) UpdateGroupService(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if !authz.CanManageGroups(principal) {
		HandleErrResponse(w, r, models.Forbidden("manager access required"))
		return
	}

	groupID, err := groupIDFromPath(r)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	var patch models.GroupPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		HandleErrResponse(w, r, models.Validation("invalid request payload"))
		return
	}

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			HandleErrResponse(w, r, models.Validation("group name cannot be empty"))
			return
		}
		patch.Name = &trimmed
	}
	if patch.AccessLevel != nil && !patch.AccessLevel.Valid() {
		HandleErrResponse(w, r, models.Validation("access_level must be read or write"))
		return
	}

	group, err := svc.DB.UpdateGroup(groupID, patch)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	svc.publishAudit(r, events.NewAuditEvent("update", "access_group", group.ID, principal.User.Username))
	WriteResponse(w, http.StatusOK, group)
}

// DeleteGroupService removes a group and, by cascade, its memberships.
func (svc *Service) DeleteGroupService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if !authz.CanManageGroups(principal) {
		HandleErrResponse(w, r, models.Forbidden("manager access required"))
		return
	}

	groupID, err := groupIDFromPath(r)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	if err := svc.DB.DeleteGroup(groupID); err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	svc.publishAudit(r, events.NewAuditEvent("delete", "access_group", groupID, principal.User.Username))
	logger.Info().Int64("group_id", groupID).Msg("group deleted")

	WriteResponse(w, http.StatusOK, map[string]string{"detail": "group deleted"})
}

// AddMemberService adds a user to a group. Adding an existing member is a
// tagged conflict, not a duplicate row.
func (svc *Service) AddMemberService(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if !authz.CanManageGroups(principal) {
		HandleErrResponse(w, r, models.Forbidden("manager access required"))
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleErrResponse(w, r, models.Validation("invalid request payload"))
		return
	}

	membership, err := svc.DB.AddMember(req.GroupID, req.UserID)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	svc.publishAudit(r, events.NewAuditEvent("add_member", "group_member", membership.ID, principal.User.Username))
	WriteResponse(w, http.StatusCreated, membership)
}

// RemoveMemberService removes a user from a group.
func (svc *Service) RemoveMemberService(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if !authz.CanManageGroups(principal) {
		HandleErrResponse(w, r, models.Forbidden("manager access required"))
		return
	}

	groupID, err := groupIDFromPath(r)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	userID, err := strconv.ParseInt(mux.Vars(r)["user-id"], 10, 64)
	if err != nil {
		HandleErrResponse(w, r, models.Validation("invalid user id"))
		return
	}

	if err := svc.DB.RemoveMember(groupID, userID); err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	svc.publishAudit(r, events.NewAuditEvent("remove_member", "group_member", groupID, principal.User.Username))
	WriteResponse(w, http.StatusOK, map[string]string{"detail": "member removed"})
}

// ListMembersService lists a group's roster. Managers and admins may read
// any roster; other callers only rosters of groups they belong to.
func (svc *Service) ListMembersService(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	groupID, err := groupIDFromPath(r)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	// 404 before 403: a roster read on a deleted group reports NotFound
	group, err := svc.DB.GetGroup(groupID)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	isMember, err := svc.DB.IsMember(groupID, principal.User.ID)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if !authz.CanViewGroup(principal, isMember) {
		HandleErrResponse(w, r, models.Forbidden("you do not have access to this group's members"))
		return
	}

	members, err := svc.DB.ListMembers(groupID)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if members == nil {
		members = []models.Membership{}
	}

	WriteResponse(w, http.StatusOK, membersResponse{Group: *group, Members: members})
}
