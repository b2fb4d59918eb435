// internal/app/features/groups/meeting.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/policy"
	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/clients/meeting"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.uber.org/zap"
)

type meetingResponse struct {
	MeetingID string `json:"meeting_id"`
	JoinURL   string `json:"join_url"`
}

// HandleCreateMeeting handles POST /groups/{id}/meeting.
//
// Provisions (or re-provisions; the server treats an existing meeting
// ID as idempotent) the group's meeting room and returns a join link.
// Group admins, the owner, and global admins join as moderators;
// everyone else joins as attendee.
func (h *Handler) HandleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}
	if !h.Meeting.Configured() {
		httpx.Error(w, http.StatusNotImplemented, "meeting integration is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	allowed, err := h.Policy.Check(ctx, r, policy.CapGroupMeeting, policy.Target{GroupID: g.ID, OwnerID: g.OwnerID})
	if err != nil {
		h.Log.Error("meeting create: authorization check failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "meeting creation failed")
		return
	}
	if !allowed {
		httpx.Error(w, http.StatusForbidden, policy.ReasonNotPermitted)
		return
	}

	meetingID := meeting.MeetingID(g.ID.Hex(), g.Slug)
	if err := h.Meeting.Create(ctx, meeting.CreateParams{
		MeetingID:   meetingID,
		Name:        g.Name,
		AttendeePW:  g.MeetingAttendeePW,
		ModeratorPW: g.MeetingModeratorPW,
	}); err != nil {
		// The client has already logged the cause; callers get the
		// generic domain error only.
		httpx.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	password := g.MeetingAttendeePW
	moderator, err := h.isModerator(ctx, r, g)
	if err != nil {
		h.Log.Error("meeting create: moderator check failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "meeting creation failed")
		return
	}
	if moderator {
		password = g.MeetingModeratorPW
	}

	name := ""
	if u, ok := auth.CurrentUser(r); ok {
		name = u.Name
	}

	httpx.JSON(w, http.StatusOK, meetingResponse{
		MeetingID: meetingID,
		JoinURL:   h.Meeting.JoinURL(meetingID, name, password),
	})
}

// HandleMeetingStatus handles GET /groups/{id}/meeting.
//
// Provider errors are swallowed by the client; callers just see
// running=false.
func (h *Handler) HandleMeetingStatus(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}
	if !h.Meeting.Configured() {
		httpx.Error(w, http.StatusNotImplemented, "meeting integration is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	running := h.Meeting.IsRunning(ctx, meeting.MeetingID(g.ID.Hex(), g.Slug))
	httpx.JSON(w, http.StatusOK, map[string]bool{"running": running})
}

// isModerator reports whether the caller should get the moderator
// password: global admins, the owner, and group admins/animators.
func (h *Handler) isModerator(ctx context.Context, r *http.Request, g models.Group) (bool, error) {
	return h.Policy.Check(ctx, r, policy.CapMemberManage, policy.Target{GroupID: g.ID, OwnerID: g.OwnerID})
}
