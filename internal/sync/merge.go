// ABOUTME: Connect-time reconciliation of local cache and remote snapshot.
// ABOUTME: Union policy: remote wins on collision, local-only survives.

package sync

import (
	"github.com/google/uuid"
	"github.com/harper/cellar/internal/models"
)

// MergeResult is the outcome of reconciling a local and a remote
// collection. Collection is the canonical merged state; PushWines and
// PushArchived are the local-only records that must be written to the
// remote so they survive.
type MergeResult struct {
	Collection   models.Collection
	PushWines    []models.Wine
	PushArchived []models.ArchivedWine
}

// Merge reconciles the locally cached collection with a remote snapshot
// using the union policy: records are keyed by ID, the remote copy wins
// whenever both sides hold the same ID, and records present only locally
// are kept and scheduled for a remote push. The merged collection is
// sorted newest-first with stable ties.
func Merge(local, rem models.Collection) MergeResult {
	remoteWines := rem.WinesByID()
	remoteArchived := rem.ArchivedByID()

	result := MergeResult{Collection: rem.Clone()}

	seen := make(map[uuid.UUID]bool, len(remoteWines))
	for id := range remoteWines {
		seen[id] = true
	}
	for _, w := range local.Wines {
		if seen[w.ID] {
			continue
		}
		result.Collection.Wines = append(result.Collection.Wines, w)
		result.PushWines = append(result.PushWines, w)
	}

	seenArch := make(map[uuid.UUID]bool, len(remoteArchived))
	for id := range remoteArchived {
		seenArch[id] = true
	}
	for _, a := range local.Archived {
		if seenArch[a.ID] {
			continue
		}
		result.Collection.Archived = append(result.Collection.Archived, a)
		result.PushArchived = append(result.PushArchived, a)
	}

	result.Collection.Sort()
	return result
}
