// ABOUTME: Tests for the channel contract using the in-memory implementation.
// ABOUTME: Covers snapshot fan-out, echo delivery, and delete confirmation.

package remote

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/harper/cellar/internal/models"
)

func TestPutFansOutToSubscriberIncludingWriter(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryChannel()

	var got []Snapshot
	sub, err := m.Subscribe(ctx, func(s Snapshot) { got = append(got, s) })
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Cancel()

	w := *models.NewWine("Barolo", models.TypeRed)
	if err := m.PutWine(ctx, w); err != nil {
		t.Fatalf("PutWine() error = %v", err)
	}

	// The writer's own subscription sees the change too.
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(got))
	}
	if _, ok := got[0].Wines[w.ID]; !ok {
		t.Error("snapshot missing the written wine")
	}
}

func TestSetActiveReplacesWholeMap(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryChannel()

	old := *models.NewWine("old", models.TypeRed)
	if err := m.PutWine(ctx, old); err != nil {
		t.Fatal(err)
	}

	next := *models.NewWine("next", models.TypeWhite)
	err := m.SetActive(ctx, map[uuid.UUID]models.Wine{next.ID: next})
	if err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	snap, err := m.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if _, ok := snap.Wines[old.ID]; ok {
		t.Error("SetActive must drop records absent from the new map")
	}
	if _, ok := snap.Wines[next.ID]; !ok {
		t.Error("SetActive must keep records present in the new map")
	}
}

func TestSetArchiveReplacesWholeMap(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryChannel()

	a := models.Archive(*models.NewWine("drunk", models.TypeRed), 4, models.RebuyYes, "")
	err := m.SetArchive(ctx, map[uuid.UUID]models.ArchivedWine{a.ID: a})
	if err != nil {
		t.Fatalf("SetArchive() error = %v", err)
	}

	snap, _ := m.Fetch(ctx)
	if len(snap.Archived) != 1 {
		t.Fatalf("expected 1 archived record, got %d", len(snap.Archived))
	}
}

func TestDeleteConfirmsByReread(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryChannel()

	w := *models.NewWine("gone", models.TypeRed)
	if err := m.PutWine(ctx, w); err != nil {
		t.Fatal(err)
	}

	confirmed, err := m.DeleteWine(ctx, w.ID)
	if err != nil {
		t.Fatalf("DeleteWine() error = %v", err)
	}
	if !confirmed {
		t.Error("delete of existing record must confirm")
	}

	// Deleting an absent ID still confirms: the record is not there.
	confirmed, err = m.DeleteWine(ctx, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if !confirmed {
		t.Error("delete of absent record must confirm")
	}
}

func TestCancelDetachesSubscriber(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryChannel()

	calls := 0
	sub, err := m.Subscribe(ctx, func(Snapshot) { calls++ })
	if err != nil {
		t.Fatal(err)
	}
	if m.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", m.SubscriberCount())
	}

	sub.Cancel()
	sub.Cancel() // idempotent

	if m.SubscriberCount() != 0 {
		t.Fatalf("SubscriberCount() = %d after cancel, want 0", m.SubscriberCount())
	}
	if err := m.PutWine(ctx, *models.NewWine("w", models.TypeRed)); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("cancelled subscriber received %d snapshots", calls)
	}
}

func TestSnapshotCollectionSortsDescending(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryChannel()

	older := *models.NewWine("older", models.TypeRed)
	newer := *models.NewWine("newer", models.TypeWhite)
	newer.AddedAt = older.AddedAt.Add(1)
	if err := m.PutWine(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := m.PutWine(ctx, newer); err != nil {
		t.Fatal(err)
	}

	snap, _ := m.Fetch(ctx)
	col := snap.Collection()
	if len(col.Wines) != 2 {
		t.Fatalf("expected 2 wines, got %d", len(col.Wines))
	}
	if col.Wines[0].Name != "newer" {
		t.Errorf("expected newest first, got %q", col.Wines[0].Name)
	}
}

func TestContextCancellationPropagates(t *testing.T) {
	m := NewMemoryChannel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Fetch(ctx); err == nil {
		t.Error("Fetch must fail on a cancelled context")
	}
	if err := m.PutWine(ctx, *models.NewWine("w", models.TypeRed)); err == nil {
		t.Error("PutWine must fail on a cancelled context")
	}
}
