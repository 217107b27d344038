// ABOUTME: Tests for the union-merge reconciliation policy.
// ABOUTME: Remote wins on collision, local-only records survive and push.

package sync

import (
	"testing"
	"time"

	"github.com/harper/cellar/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeUnionPolicy(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	a := *models.NewWine("A", models.TypeRed)
	a.AddedAt = base.Add(-3 * time.Hour)
	b := *models.NewWine("B", models.TypeWhite)
	b.AddedAt = base.Add(-2 * time.Hour)

	// B' is B as the remote knows it, with diverged fields.
	bPrime := b
	bPrime.Name = "B remote"
	bPrime.Quantity = 4
	c := *models.NewWine("C", models.TypeRose)
	c.AddedAt = base.Add(-time.Hour)

	local := models.Collection{Wines: []models.Wine{a, b}}
	rem := models.Collection{Wines: []models.Wine{bPrime, c}}

	result := Merge(local, rem)

	require.Len(t, result.Collection.Wines, 3)

	// Sorted newest-first: C, B', A.
	assert.Equal(t, c.ID, result.Collection.Wines[0].ID)
	assert.Equal(t, b.ID, result.Collection.Wines[1].ID)
	assert.Equal(t, a.ID, result.Collection.Wines[2].ID)

	// Remote wins on the colliding ID.
	assert.Equal(t, "B remote", result.Collection.Wines[1].Name)
	assert.Equal(t, 4, result.Collection.Wines[1].Quantity)

	// The local-only record is scheduled for push.
	require.Len(t, result.PushWines, 1)
	assert.Equal(t, a.ID, result.PushWines[0].ID)
}

func TestMergeArchivedUnion(t *testing.T) {
	localOnly := models.Archive(*models.NewWine("local", models.TypeRed), 3, models.RebuyNo, "")
	shared := models.Archive(*models.NewWine("shared", models.TypeWhite), 2, models.RebuyMaybe, "")
	remoteShared := shared
	remoteShared.Rating = 5

	local := models.Collection{Archived: []models.ArchivedWine{localOnly, shared}}
	rem := models.Collection{Archived: []models.ArchivedWine{remoteShared}}

	result := Merge(local, rem)

	require.Len(t, result.Collection.Archived, 2)
	got, ok := result.Collection.FindArchived(shared.ID)
	require.True(t, ok)
	assert.Equal(t, 5, got.Rating, "remote copy must win on collision")

	require.Len(t, result.PushArchived, 1)
	assert.Equal(t, localOnly.ID, result.PushArchived[0].ID)
}

func TestMergeEmptySides(t *testing.T) {
	w := *models.NewWine("only", models.TypeRed)
	col := models.Collection{Wines: []models.Wine{w}}

	onlyLocal := Merge(col, models.Collection{})
	require.Len(t, onlyLocal.Collection.Wines, 1)
	require.Len(t, onlyLocal.PushWines, 1)

	onlyRemote := Merge(models.Collection{}, col)
	require.Len(t, onlyRemote.Collection.Wines, 1)
	assert.Empty(t, onlyRemote.PushWines)

	neither := Merge(models.Collection{}, models.Collection{})
	assert.Empty(t, neither.Collection.Wines)
	assert.Empty(t, neither.PushWines)
}
