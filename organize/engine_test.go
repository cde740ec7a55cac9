package organize

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/tree"
)

func selection(files ...*models.File) map[string]*models.File {
	m := make(map[string]*models.File)
	for _, f := range files {
		m[f.Name()] = f
	}
	return m
}

func TestMoveInto_ByFileType(t *testing.T) {
	now := time.Now()
	target := tree.NewLoaded(nil)
	report, photo := fileAt("report.txt", now), fileAt("photo.jpg", now)

	result, err := MoveInto(target, "/dst", Request{
		Files: selection(report, photo),
		Rules: Rules{OrganizeByFileType: true},
	})
	if err != nil {
		t.Fatalf("MoveInto() error = %v", err)
	}

	if got := target.DirectoryNames(); !reflect.DeepEqual(got, []string{"jpg", "txt"}) {
		t.Fatalf("DirectoryNames() = %v", got)
	}
	txt, _ := target.Directory("txt")
	jpg, _ := target.Directory("jpg")
	if !reflect.DeepEqual(txt.FileNames(), []string{"report.txt"}) || !reflect.DeepEqual(jpg.FileNames(), []string{"photo.jpg"}) {
		t.Errorf("bucket contents txt=%v jpg=%v", txt.FileNames(), jpg.FileNames())
	}

	if result.Shape != "type" || len(result.Files) != 2 {
		t.Fatalf("result = %+v", result)
	}
	if got := report.Metadata.DestinationPath; got != filepath.Join("/dst", "txt", "report.txt") {
		t.Errorf("DestinationPath = %q", got)
	}
	if result.Files[0] != photo {
		t.Error("result files are not sorted by destination")
	}
}

func TestMoveInto_DuplicateLeavesTargetUnchanged(t *testing.T) {
	now := time.Now()
	target := tree.NewLoaded(nil)
	txt := tree.NewLoaded(nil)
	existing := fileAt("report.txt", now)
	_ = txt.InsertFile("report.txt", existing)
	_ = target.InsertDirectory("txt", txt)

	report, photo := fileAt("report.txt", now), fileAt("photo.jpg", now)
	_, err := MoveInto(target, "/dst", Request{
		Files: selection(report, photo),
		Rules: Rules{OrganizeByFileType: true},
	})
	if !errors.Is(err, models.ErrDuplicateName) {
		t.Fatalf("MoveInto() error = %v, want ErrDuplicateName", err)
	}

	if got := target.DirectoryNames(); !reflect.DeepEqual(got, []string{"txt"}) {
		t.Errorf("DirectoryNames() = %v, want only txt", got)
	}
	if f, _ := txt.File("report.txt"); f != existing || txt.FileCount() != 1 {
		t.Error("existing bucket was modified")
	}
	if report.Metadata.DestinationPath != "" || photo.Metadata.DestinationPath != "" {
		t.Error("destination assigned after a failed merge")
	}
}

func TestMoveInto_TypeAndDateChecksWholeSubtree(t *testing.T) {
	day := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)

	target := tree.NewLoaded(nil)
	txt := tree.NewLoaded(nil)
	dated := tree.NewLoaded(nil)
	_ = dated.InsertFile("report.txt", fileAt("report.txt", day))
	_ = txt.InsertDirectory("20240101", dated)
	_ = target.InsertDirectory("txt", txt)

	req := Request{
		Files:    selection(fileAt("report.txt", day), fileAt("notes.md", day)),
		Rules:    Rules{OrganizeByFileType: true, OrganizeByDate: true},
		DateKind: models.DateModified,
	}
	if _, err := MoveInto(target, "/dst", req); !errors.Is(err, models.ErrDuplicateName) {
		t.Fatalf("MoveInto() error = %v, want ErrDuplicateName", err)
	}
	if _, ok := target.Directory("md"); ok {
		t.Error("md bucket committed despite the collision")
	}

	// a different day merges next to the existing bucket
	other := day.AddDate(0, 0, 1)
	req.Files = selection(fileAt("report.txt", other))
	if _, err := MoveInto(target, "/dst", req); err != nil {
		t.Fatalf("MoveInto() error = %v", err)
	}
	if got := txt.DirectoryNames(); !reflect.DeepEqual(got, []string{"20240101", "20240102"}) {
		t.Errorf("merged date buckets = %v", got)
	}
}

func TestMoveInto_UnexploredBucket(t *testing.T) {
	target := tree.NewLoaded(nil)
	_ = target.InsertDirectory("txt", tree.NewDirectory(nil))

	_, err := MoveInto(target, "/dst", Request{
		Files: selection(fileAt("a.txt", time.Now())),
		Rules: Rules{OrganizeByFileType: true},
	})
	if !errors.Is(err, tree.ErrUnexplored) {
		t.Errorf("MoveInto() error = %v, want ErrUnexplored", err)
	}
}

func TestCreateDirectory(t *testing.T) {
	day := time.Date(2024, 5, 6, 9, 0, 0, 0, time.Local)

	t.Run("plain keeps names", func(t *testing.T) {
		parent := tree.NewLoaded(nil)
		a := fileAt("a.txt", day)
		if _, err := CreateDirectory(parent, "/home", Request{Files: selection(a), DirectoryName: "Docs"}); err != nil {
			t.Fatal(err)
		}
		docs, ok := parent.Directory("Docs")
		if !ok || !reflect.DeepEqual(docs.FileNames(), []string{"a.txt"}) {
			t.Fatalf("Docs = %v", docs)
		}
		if a.Metadata.DestinationPath != filepath.Join("/home", "Docs", "a.txt") {
			t.Errorf("DestinationPath = %q", a.Metadata.DestinationPath)
		}
	})

	t.Run("type and date", func(t *testing.T) {
		parent := tree.NewLoaded(nil)
		req := Request{
			Files:         selection(fileAt("a.txt", day), fileAt("B.TXT", day), fileAt("c.jpg", day)),
			Rules:         Rules{OrganizeByFileType: true, OrganizeByDate: true, AddCustomName: true, RemoveOriginalFileName: true},
			DirectoryName: "Sorted",
			CustomName:    "doc",
			IndexPosition: IndexAfter,
			DateKind:      models.DateModified,
		}
		if _, err := CreateDirectory(parent, "/home", req); err != nil {
			t.Fatal(err)
		}
		sorted, _ := parent.Directory("Sorted")
		if got := sorted.DirectoryNames(); !reflect.DeepEqual(got, []string{"jpg", "txt"}) {
			t.Fatalf("type buckets = %v", got)
		}
		txt, _ := sorted.Directory("txt")
		if txt.FileCount() != 0 {
			t.Errorf("type bucket holds files directly: %v", txt.FileNames())
		}
		daily, _ := txt.Directory("20240506")
		if got := daily.FileNames(); !reflect.DeepEqual(got, []string{"doc_01.TXT", "doc_02.txt"}) {
			t.Errorf("renamed files = %v", got)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		parent := tree.NewLoaded(nil)
		_ = parent.InsertDirectory("Docs", tree.NewDirectory(nil))
		files := selection(fileAt("a.txt", day))

		if _, err := CreateDirectory(parent, "/home", Request{Files: files, DirectoryName: "Docs"}); !errors.Is(err, models.ErrDuplicateName) {
			t.Errorf("existing directory: error = %v", err)
		}
		if _, err := CreateDirectory(parent, "/home", Request{Files: files, DirectoryName: "New", Rules: Rules{OrganizeByDate: true}}); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("missing date kind: error = %v", err)
		}
		if _, err := CreateDirectory(parent, "/home", Request{Files: files, DirectoryName: "New", Rules: Rules{OrganizeByFileType: true, InsertDateToFileName: true}}); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("type with date in name: error = %v", err)
		}
		if _, err := CreateDirectory(parent, "/home", Request{DirectoryName: "New"}); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("empty selection: error = %v", err)
		}
		if _, err := CreateDirectory(tree.NewDirectory(nil), "/home", Request{Files: files, DirectoryName: "New"}); !errors.Is(err, tree.ErrUnexplored) {
			t.Errorf("unexplored parent: error = %v", err)
		}
		if got := parent.DirectoryNames(); !reflect.DeepEqual(got, []string{"Docs"}) {
			t.Errorf("parent changed by failed calls: %v", got)
		}
	})

	t.Run("renamed names collide", func(t *testing.T) {
		parent := tree.NewLoaded(nil)
		req := Request{
			Files:         selection(fileAt("A.txt", day), fileAt("a.txt", day)),
			Rules:         Rules{RemoveUppercase: true},
			DirectoryName: "Lower",
		}
		if _, err := CreateDirectory(parent, "/home", req); !errors.Is(err, models.ErrDuplicateName) {
			t.Errorf("error = %v, want ErrDuplicateName", err)
		}
		if _, ok := parent.Directory("Lower"); ok {
			t.Error("directory inserted after a failed rename")
		}
	})
}

func TestRenameInPlace(t *testing.T) {
	dir := tree.NewLoaded(nil)
	a := fileAt("My File.txt", time.Now())
	keep := fileAt("other.txt", time.Now())
	_ = dir.InsertFile("My File.txt", a)
	_ = dir.InsertFile("other.txt", keep)

	if _, err := RenameInPlace(dir, "/d", Request{Files: selection(a), Rules: Rules{ReplaceSpacesWithUnderscores: true}}); err != nil {
		t.Fatal(err)
	}
	if got := dir.FileNames(); !reflect.DeepEqual(got, []string{"My_File.txt", "other.txt"}) {
		t.Errorf("FileNames() = %v", got)
	}

	// renaming onto an unselected sibling fails and restores the selection
	b := fileAt("Other.txt", time.Now())
	_ = dir.InsertFile("Other.txt", b)
	_, err := RenameInPlace(dir, "/d", Request{Files: selection(b), Rules: Rules{RemoveUppercase: true}})
	if !errors.Is(err, models.ErrDuplicateName) {
		t.Fatalf("error = %v, want ErrDuplicateName", err)
	}
	if f, ok := dir.File("Other.txt"); !ok || f != b {
		t.Error("selection not restored after a failed rename")
	}
}

func TestMoveInto_IndexContinuesInExistingBucket(t *testing.T) {
	now := time.Now()
	rules := Rules{OrganizeByFileType: true, AddCustomName: true, RemoveOriginalFileName: true}
	req := func(files ...*models.File) Request {
		return Request{Files: selection(files...), Rules: rules, CustomName: "trip", IndexPosition: IndexAfter}
	}

	target := tree.NewLoaded(nil)
	if _, err := MoveInto(target, "/dst", req(fileAt("first.jpg", now))); err != nil {
		t.Fatalf("first MoveInto() error = %v", err)
	}
	if _, err := MoveInto(target, "/dst", req(fileAt("new.jpg", now), fileAt("other.jpg", now), fileAt("notes.txt", now))); err != nil {
		t.Fatalf("second MoveInto() error = %v", err)
	}

	jpg, _ := target.Directory("jpg")
	if got := jpg.FileNames(); !reflect.DeepEqual(got, []string{"trip_01.jpg", "trip_02.jpg", "trip_03.jpg"}) {
		t.Errorf("jpg = %v", got)
	}
	txt, _ := target.Directory("txt")
	if got := txt.FileNames(); !reflect.DeepEqual(got, []string{"trip_01.txt"}) {
		t.Errorf("txt = %v", got)
	}
}

func TestMoveInto_TypeAndDateIndexContinues(t *testing.T) {
	now := time.Now()
	first := fileAt("a.jpg", now)
	day := DateKey(first, models.DateModified)
	req := func(f *models.File) Request {
		return Request{
			Files:         selection(f),
			Rules:         Rules{OrganizeByFileType: true, OrganizeByDate: true, AddCustomName: true, RemoveOriginalFileName: true},
			CustomName:    "trip",
			DateKind:      models.DateModified,
			IndexPosition: IndexBefore,
		}
	}

	target := tree.NewLoaded(nil)
	if _, err := MoveInto(target, "/dst", req(first)); err != nil {
		t.Fatal(err)
	}
	second := fileAt("b.jpg", now)
	if _, err := MoveInto(target, "/dst", req(second)); err != nil {
		t.Fatalf("MoveInto() error = %v", err)
	}
	if want := filepath.Join("/dst", "jpg", day, "02_trip.jpg"); second.Metadata.DestinationPath != want {
		t.Errorf("DestinationPath = %q, want %q", second.Metadata.DestinationPath, want)
	}
}

func TestRenameInPlace_IndexSkipsUnselectedFiles(t *testing.T) {
	now := time.Now()
	dir := tree.NewLoaded(nil)
	_ = dir.InsertFile("trip_01.jpg", fileAt("trip_01.jpg", now))
	photo := fileAt("IMG 2.jpg", now)
	_ = dir.InsertFile("IMG 2.jpg", photo)

	_, err := RenameInPlace(dir, "/d", Request{
		Files:         selection(photo),
		Rules:         Rules{AddCustomName: true, RemoveOriginalFileName: true},
		CustomName:    "trip",
		IndexPosition: IndexAfter,
	})
	if err != nil {
		t.Fatalf("RenameInPlace() error = %v", err)
	}
	if got := dir.FileNames(); !reflect.DeepEqual(got, []string{"trip_01.jpg", "trip_02.jpg"}) {
		t.Errorf("FileNames() = %v", got)
	}
}

func TestPrune(t *testing.T) {
	root := tree.NewLoaded(nil)
	full := tree.NewLoaded(nil)
	_ = full.InsertFile("x", fileAt("x", time.Now()))
	nested := tree.NewLoaded(nil)
	_ = nested.InsertDirectory("empty", tree.NewLoaded(nil))
	_ = root.InsertDirectory("full", full)
	_ = root.InsertDirectory("nested", nested)
	_ = root.InsertDirectory("unexplored", tree.NewDirectory(nil))

	if removed := Prune(root); removed != 2 {
		t.Errorf("Prune() removed %d, want 2", removed)
	}
	if got := root.DirectoryNames(); !reflect.DeepEqual(got, []string{"full", "unexplored"}) {
		t.Errorf("remaining = %v", got)
	}
}

func TestFlatten(t *testing.T) {
	root := tree.NewLoaded(nil)
	sub := tree.NewLoaded(nil)
	_ = root.InsertFile("a", fileAt("a", time.Now()))
	_ = sub.InsertFile("b", fileAt("b", time.Now()))
	_ = root.InsertDirectory("sub", sub)

	files, err := Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files["b"] == nil {
		t.Errorf("Flatten() = %v", files)
	}

	_ = sub.InsertFile("a", fileAt("a", time.Now()))
	if _, err := Flatten(root); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("Flatten() error = %v, want ErrDuplicateName", err)
	}
}
