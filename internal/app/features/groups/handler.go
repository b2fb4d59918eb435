// internal/app/features/groups/handler.go
package groups

import (
	"github.com/dalemusser/teamhub/internal/app/policy"
	bookmarkstore "github.com/dalemusser/teamhub/internal/app/store/bookmarks"
	groupstore "github.com/dalemusser/teamhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/teamhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/clients/directory"
	"github.com/dalemusser/teamhub/internal/clients/meeting"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// It holds the stores, the authorization checker, and the external
// integrations so the per-operation handlers can all share the same
// core dependencies.
type Handler struct {
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Users       *userstore.Store
	Bookmarks   *bookmarkstore.Store
	Policy      *policy.Checker
	Meeting     *meeting.Client
	Directory   directory.Sync
	Log         *zap.Logger
}

// NewHandler constructs a groups Handler. It is typically called from
// the bootstrap BuildHandler function, where the stores and clients are
// already initialized.
func NewHandler(
	groups *groupstore.Store,
	memberships *membershipstore.Store,
	users *userstore.Store,
	bookmarks *bookmarkstore.Store,
	checker *policy.Checker,
	meet *meeting.Client,
	dir directory.Sync,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Groups:      groups,
		Memberships: memberships,
		Users:       users,
		Bookmarks:   bookmarks,
		Policy:      checker,
		Meeting:     meet,
		Directory:   dir,
		Log:         logger,
	}
}
