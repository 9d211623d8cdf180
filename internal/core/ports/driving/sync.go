package driving

import (
	"context"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// MemberSync coordinates synchronisation between JustGo members and local users.
// Every method reports failures in the returned SyncResult rather than as
// an error, except write-safety violations which are returned immediately.
type MemberSync interface {
	// SyncMemberToLocal pulls one member by MID into the local user model.
	SyncMemberToLocal(ctx context.Context, mid string, users driven.LocalUserStore) *domain.SyncResult

	// BulkSyncToLocal pulls many members sequentially. One failure never
	// stops the rest of the batch.
	BulkSyncToLocal(ctx context.Context, mids []string, users driven.LocalUserStore) []*domain.SyncResult

	// SyncLocalToJustGo pushes a local user to JustGo, updating, linking, or
	// (when createIfMissing is set) creating the remote member.
	// Returns domain.ErrReadOnlyMode when writes are disabled.
	SyncLocalToJustGo(
		ctx context.Context, user *domain.LocalUser, createIfMissing bool, users driven.LocalUserStore,
	) (*domain.SyncResult, error)
}
