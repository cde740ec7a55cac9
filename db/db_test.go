package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
	"github.com/nrtkbb/fsorg/rulestore"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := SetupDatabase(filepath.Join(t.TempDir(), "nested", "fsorg.db"))
	if err != nil {
		t.Fatalf("SetupDatabase() error = %v", err)
	}
	t.Cleanup(func() { Close(db) })
	return db
}

func TestSetupDatabase_Migrates(t *testing.T) {
	db := setupTestDB(t)
	if NeedsMigration(db) {
		t.Error("NeedsMigration() = true right after setup")
	}
	if got := LatestVersion(); got != 2 {
		t.Errorf("LatestVersion() = %d, want 2", got)
	}
	for _, table := range []string{"organized_directories", "runs", "moves"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n); err != nil || n != 1 {
			t.Errorf("table %s missing (%v)", table, err)
		}
	}
}

func TestRuleStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewRuleStore(setupTestDB(t))
	rec := rulestore.Record{
		Path:          "/a/b",
		Rules:         organize.Rules{OrganizeByDate: true, AddCustomName: true, RemoveOriginalFileName: true},
		DateKind:      models.DateCreated,
		CustomName:    "trip",
		Order:         []organize.Component{organize.ComponentCustomFileName, organize.ComponentDate},
		IndexPosition: organize.IndexAfter,
	}
	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := store.Lookup(ctx, "/a/b")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("Lookup() = %+v, want %+v", got, rec)
	}

	if _, err := store.Lookup(ctx, "a/"); err != nil {
		t.Errorf("Lookup() by containment error = %v", err)
	}
	if _, err := store.Lookup(ctx, "/zzz"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Lookup() error = %v, want ErrNotFound", err)
	}

	if err := store.Remove(ctx, "/a/b"); err != nil {
		t.Fatal(err)
	}
	if all, _ := store.All(ctx); len(all) != 0 {
		t.Errorf("All() after Remove() = %+v", all)
	}
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	j, err := BeginRun(ctx, db, "organize", "/home/me/Docs")
	if err != nil {
		t.Fatal(err)
	}
	if err := j.RecordMove(ctx, "/home/me/a.txt", "/home/me/Docs/txt/a.txt", 12); err != nil {
		t.Fatal(err)
	}
	if err := j.Finish(ctx, nil); err != nil {
		t.Fatal(err)
	}

	runs, err := RecentRuns(ctx, db, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].MovedFiles != 1 || runs[0].Status != "ok" {
		t.Errorf("RecentRuns() = %+v", runs)
	}
	moves, err := Moves(ctx, db, j.RunID)
	if err != nil {
		t.Fatal(err)
	}
	want := []Move{{Origin: "/home/me/a.txt", Destination: "/home/me/Docs/txt/a.txt", SizeBytes: 12}}
	if !reflect.DeepEqual(moves, want) {
		t.Errorf("Moves() = %+v", moves)
	}

	failed, _ := BeginRun(ctx, db, "insert", "/x")
	_ = failed.Finish(ctx, errors.New("boom"))
	runs, _ = RecentRuns(ctx, db, 1)
	if runs[0].Status != "failed" || runs[0].Error != "boom" {
		t.Errorf("failed run = %+v", runs[0])
	}
}

func TestImportRules(t *testing.T) {
	ctx := context.Background()
	csvStore := rulestore.NewCSVStore(t.TempDir())
	_ = csvStore.Append(ctx, rulestore.Record{Path: "/one", Rules: organize.Rules{UseOnlyASCII: true}})
	_ = csvStore.Append(ctx, rulestore.Record{Path: "/two", DateKind: models.DateAccessed})

	db := setupTestDB(t)
	store := NewRuleStore(db)
	_ = store.Append(ctx, rulestore.Record{Path: "/two"})

	imported, skipped, err := ImportRules(ctx, csvStore, db)
	if err != nil {
		t.Fatalf("ImportRules() error = %v", err)
	}
	if imported != 1 || skipped != 1 {
		t.Errorf("ImportRules() = %d imported, %d skipped", imported, skipped)
	}
	rec, err := store.Lookup(ctx, "/one")
	if err != nil || !rec.Rules.UseOnlyASCII {
		t.Errorf("imported record = %+v, %v", rec, err)
	}
}
