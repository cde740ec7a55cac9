package app

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nrtkbb/fsorg/db"
	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
	"github.com/nrtkbb/fsorg/rulestore"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func assertExists(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
}

func assertMissing(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s still exists (%v)", p, err)
		}
	}
}

func newTestSession(t *testing.T) (*Session, string) {
	t.Helper()
	base := t.TempDir()
	work := filepath.Join(base, "work")
	if err := os.Mkdir(work, 0755); err != nil {
		t.Fatal(err)
	}
	s := NewSession(Options{Store: rulestore.NewCSVStore(base)})
	t.Cleanup(func() { s.Close() })
	return s, work
}

func TestOrganize_ByFileType(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	writeFiles(t, work, "a.txt", "b.jpg", "c.txt", "keep.md")

	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if err := s.Select("a.txt", "b.jpg", "c.txt"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	out, err := s.Organize(ctx, OrganizeInput{
		DirectoryName: "sorted",
		Rules:         organize.Rules{OrganizeByFileType: true},
	})
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	if out.Moved != 3 || out.Shape != "type" {
		t.Errorf("outcome = %+v", out)
	}

	assertExists(t,
		filepath.Join(work, "sorted", "txt", "a.txt"),
		filepath.Join(work, "sorted", "txt", "c.txt"),
		filepath.Join(work, "sorted", "jpg", "b.jpg"),
		filepath.Join(work, "keep.md"),
	)
	assertMissing(t, filepath.Join(work, "a.txt"))

	listing, err := s.Listing()
	if err != nil {
		t.Fatal(err)
	}
	if len(listing.Directories) != 1 || listing.Directories[0].Name != "sorted" {
		t.Errorf("directories = %+v", listing.Directories)
	}
	if len(listing.Files) != 1 || listing.Files[0].Selected {
		t.Errorf("files = %+v, want keep.md unselected", listing.Files)
	}

	rec, err := s.Rules(ctx, filepath.Join(work, "sorted"))
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}
	if !rec.Rules.OrganizeByFileType || rec.Rules.OrganizeByDate {
		t.Errorf("stored rules = %+v", rec.Rules)
	}
}

func TestOrganize_Validation(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	writeFiles(t, work, "a.txt")
	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Organize(ctx, OrganizeInput{DirectoryName: "out"}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("empty selection: error = %v, want ErrInvalidInput", err)
	}
	if err := s.SelectAll(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   OrganizeInput
		want error
	}{
		{"invalid name", OrganizeInput{DirectoryName: "a/b"}, models.ErrInvalidInput},
		{"name taken by file", OrganizeInput{DirectoryName: "a.txt"}, models.ErrDuplicateName},
		{
			"original removed without custom name",
			OrganizeInput{DirectoryName: "out", Rules: organize.Rules{RemoveOriginalFileName: true}},
			models.ErrInvalidInput,
		},
		{
			"custom name without index",
			OrganizeInput{DirectoryName: "out", Rules: organize.Rules{AddCustomName: true}, CustomName: "x"},
			models.ErrInvalidInput,
		},
		{
			"date without kind",
			OrganizeInput{DirectoryName: "out", Rules: organize.Rules{OrganizeByDate: true}},
			models.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Organize(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	assertExists(t, filepath.Join(work, "a.txt"))
	assertMissing(t, filepath.Join(work, "out"))
	if got := s.Selection(); len(got) != 1 {
		t.Errorf("Selection() = %v, want selection kept after rejections", got)
	}
}

func TestOrganize_StoredPathRejected(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	writeFiles(t, work, "a.txt")

	if err := s.Store().Append(ctx, rulestore.Record{Path: filepath.Join(work, "out")}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Organize(ctx, OrganizeInput{DirectoryName: "out"}); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("error = %v, want ErrDuplicateName", err)
	}
}

func TestInsertAndExtract(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	writeFiles(t, work, "a.txt", "b.jpg")

	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectAll(); err != nil {
		t.Fatal(err)
	}
	rules := organize.Rules{OrganizeByFileType: true, InsertDirectoryNameToFileName: true}
	if _, err := s.Organize(ctx, OrganizeInput{DirectoryName: "trip", Rules: rules}); err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	sorted := filepath.Join(work, "trip")
	assertExists(t, filepath.Join(sorted, "txt", "trip_a.txt"), filepath.Join(sorted, "jpg", "trip_b.jpg"))

	writeFiles(t, work, "c.txt", "d.png")
	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectAll(); err != nil {
		t.Fatal(err)
	}

	out, err := s.Insert(ctx, sorted)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if out.Moved != 2 {
		t.Errorf("Insert() moved %d, want 2", out.Moved)
	}
	assertExists(t, filepath.Join(sorted, "txt", "trip_c.txt"), filepath.Join(sorted, "png", "trip_d.png"))

	out, err = s.Extract(ctx, "trip")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if out.Moved != 4 {
		t.Errorf("Extract() moved %d, want 4", out.Moved)
	}
	assertExists(t,
		filepath.Join(work, "trip_a.txt"),
		filepath.Join(work, "trip_b.jpg"),
		filepath.Join(work, "trip_c.txt"),
		filepath.Join(work, "trip_d.png"),
	)
	assertMissing(t, sorted)

	if _, err := s.Rules(ctx, sorted); !rulestore.IsNotFound(err) {
		t.Errorf("Rules() after extract error = %v, want not found", err)
	}
	listing, _ := s.Listing()
	if len(listing.Directories) != 0 || len(listing.Files) != 4 {
		t.Errorf("listing = %+v", listing)
	}
}

func TestInsert_Collision(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	writeFiles(t, work, "a.txt")

	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Organize(ctx, OrganizeInput{DirectoryName: "docs"}); err != nil {
		t.Fatal(err)
	}

	writeFiles(t, work, "a.txt")
	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(ctx, filepath.Join(work, "docs")); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("Insert() error = %v, want ErrDuplicateName", err)
	}
	assertExists(t, filepath.Join(work, "a.txt"), filepath.Join(work, "docs", "a.txt"))
}

func TestInsert_UnknownTarget(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	writeFiles(t, work, "a.txt")
	if err := os.Mkdir(filepath.Join(work, "plain"), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(ctx, filepath.Join(work, "plain")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Insert() error = %v, want ErrNotFound", err)
	}
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	writeFiles(t, work, "My File.txt", "other.txt")

	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}
	if err := s.Select("My File.txt"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Rename(ctx, OrganizeInput{Rules: organize.Rules{OrganizeByDate: true}}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("bucketing rename: error = %v, want ErrInvalidInput", err)
	}

	rules := organize.Rules{RemoveUppercase: true, ReplaceSpacesWithUnderscores: true}
	out, err := s.Rename(ctx, OrganizeInput{Rules: rules})
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if out.Moved != 1 {
		t.Errorf("moved = %d, want 1", out.Moved)
	}
	assertExists(t, filepath.Join(work, "my_file.txt"), filepath.Join(work, "other.txt"))
	assertMissing(t, filepath.Join(work, "My File.txt"))
}

func newDBSession(t *testing.T) (*Session, *sql.DB, string) {
	t.Helper()
	base := t.TempDir()
	database, err := db.SetupDatabase(filepath.Join(base, "fsorg.db"))
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(Options{Store: db.NewRuleStore(database), DB: database, Journal: true})
	t.Cleanup(func() { s.Close() })

	work := filepath.Join(base, "work")
	if err := os.Mkdir(work, 0755); err != nil {
		t.Fatal(err)
	}
	return s, database, work
}

func selectIn(t *testing.T, s *Session, dir string, names ...string) {
	t.Helper()
	if _, err := s.Navigate(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	var err error
	if len(names) == 0 {
		err = s.SelectAll()
	} else {
		err = s.Select(names...)
	}
	if err != nil {
		t.Fatal(err)
	}
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	s, database, work := newDBSession(t)

	writeFiles(t, work, "a.txt", "b.txt")
	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Organize(ctx, OrganizeInput{DirectoryName: "out"}); err != nil {
		t.Fatalf("Organize() error = %v", err)
	}

	runs, err := db.RecentRuns(ctx, database, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Status != "ok" || runs[0].MovedFiles != 2 || runs[0].Operation != "organize" {
		t.Fatalf("runs = %+v", runs)
	}
	moves, err := db.Moves(ctx, database, runs[0].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 2 || moves[0].Destination != filepath.Join(work, "out", "a.txt") {
		t.Errorf("moves = %+v", moves)
	}

	if _, err := s.Rules(ctx, filepath.Join(work, "out")); err != nil {
		t.Errorf("Rules() error = %v", err)
	}
}

func TestStat(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	writeFiles(t, work, "a.txt")
	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}

	info, err := s.Stat("a.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if len(info.Mode) != 10 || info.Mode[0] != '-' {
		t.Errorf("mode = %q", info.Mode)
	}
	if info.Size == nil || *info.Size != 5 {
		t.Errorf("size = %v, want 5", info.Size)
	}
	if _, err := s.Stat("missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Stat(missing) error = %v", err)
	}
}

func TestExtract_EmptyDirectory(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	if err := os.MkdirAll(filepath.Join(work, "empty", "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}

	out, err := s.Extract(ctx, "empty")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if out.Moved != 0 {
		t.Errorf("moved = %d, want 0", out.Moved)
	}
	assertMissing(t, filepath.Join(work, "empty"))
}

func TestInsert_IndexContinues(t *testing.T) {
	ctx := context.Background()
	s, _, work := newDBSession(t)
	writeFiles(t, work, "a.jpg")
	selectIn(t, s, work)

	_, err := s.Organize(ctx, OrganizeInput{
		DirectoryName: "album",
		Rules:         organize.Rules{OrganizeByFileType: true, AddCustomName: true, RemoveOriginalFileName: true},
		CustomName:    "trip",
		IndexPosition: organize.IndexAfter,
	})
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}

	album := filepath.Join(work, "album")
	for _, name := range []string{"b.jpg", "c.jpg"} {
		writeFiles(t, work, name)
		selectIn(t, s, work, name)
		if _, err := s.Insert(ctx, album); err != nil {
			t.Fatalf("Insert(%s) error = %v", name, err)
		}
	}
	assertExists(t,
		filepath.Join(album, "jpg", "trip_01.jpg"),
		filepath.Join(album, "jpg", "trip_02.jpg"),
		filepath.Join(album, "jpg", "trip_03.jpg"),
	)
}

func TestRename_IndexSkipsExistingFiles(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	writeFiles(t, work, "trip_01.jpg", "IMG 7.jpg")
	selectIn(t, s, work, "IMG 7.jpg")

	_, err := s.Rename(ctx, OrganizeInput{
		Rules:         organize.Rules{AddCustomName: true, RemoveOriginalFileName: true},
		CustomName:    "trip",
		IndexPosition: organize.IndexAfter,
	})
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	assertExists(t, filepath.Join(work, "trip_01.jpg"), filepath.Join(work, "trip_02.jpg"))
	assertMissing(t, filepath.Join(work, "IMG 7.jpg"))
}

func TestInsert_DefaultOrder(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	work := filepath.Join(base, "work")
	if err := os.Mkdir(work, 0755); err != nil {
		t.Fatal(err)
	}
	s := NewSession(Options{
		Store:        rulestore.NewCSVStore(base),
		DefaultOrder: []organize.Component{organize.ComponentOriginalFileName, organize.ComponentDirectoryName},
	})
	t.Cleanup(func() { s.Close() })

	writeFiles(t, work, "a.txt")
	selectIn(t, s, work)
	rules := organize.Rules{InsertDirectoryNameToFileName: true}
	if _, err := s.Organize(ctx, OrganizeInput{DirectoryName: "trip", Rules: rules}); err != nil {
		t.Fatalf("Organize() error = %v", err)
	}

	writeFiles(t, work, "b.txt")
	selectIn(t, s, work)
	if _, err := s.Insert(ctx, filepath.Join(work, "trip")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	assertExists(t, filepath.Join(work, "trip", "a_trip.txt"), filepath.Join(work, "trip", "b_trip.txt"))
}

func TestExtract_NestedFileNamedLikeDirectory(t *testing.T) {
	ctx := context.Background()
	s, work := newTestSession(t)
	nested := filepath.Join(work, "trip", "sub")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, nested, "trip", "a.txt")
	if _, err := s.Navigate(ctx, work); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Extract(ctx, "trip"); !errors.Is(err, models.ErrDuplicateName) {
		t.Fatalf("Extract() error = %v, want ErrDuplicateName", err)
	}
	assertExists(t, filepath.Join(nested, "trip"), filepath.Join(nested, "a.txt"))
	assertMissing(t, filepath.Join(work, "a.txt"))

	listing, err := s.Listing()
	if err != nil {
		t.Fatal(err)
	}
	if len(listing.Directories) != 1 {
		t.Errorf("listing = %+v, want the directory kept", listing)
	}
}
