// Package ledger stages the files of one directory for an organizing action.
package ledger

import (
	"fmt"
	"sort"

	"github.com/nrtkbb/fsorg/models"
)

// Select toggles name between available and selected. A selected name goes
// back to available, which fails if available already holds that name;
// otherwise the name moves from available into selected.
func Select(available, selected map[string]*models.File, name string) error {
	if f, ok := selected[name]; ok {
		if _, dup := available[name]; dup {
			return fmt.Errorf("%w: %s", models.ErrDuplicateName, name)
		}
		delete(selected, name)
		available[name] = f
		return nil
	}

	f, ok := available[name]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrNotFound, name)
	}
	delete(available, name)
	selected[name] = f
	return nil
}

// Ledger is the available/selected partition of the files of Path.
type Ledger struct {
	Path      string
	Available map[string]*models.File
	Selected  map[string]*models.File
}

// New puts every file in available. The map is copied so the ledger never
// aliases a cache node.
func New(path string, files map[string]*models.File) *Ledger {
	available := make(map[string]*models.File, len(files))
	for name, f := range files {
		available[name] = f
	}
	return &Ledger{
		Path:      path,
		Available: available,
		Selected:  make(map[string]*models.File),
	}
}

func (l *Ledger) Select(name string) error {
	return Select(l.Available, l.Selected, name)
}

// SelectAll moves every available name into selected.
func (l *Ledger) SelectAll() {
	for name, f := range l.Available {
		l.Selected[name] = f
	}
	l.Available = make(map[string]*models.File)
}

func (l *Ledger) IsSelected(name string) bool {
	_, ok := l.Selected[name]
	return ok
}

// Names returns both sides in name order.
func (l *Ledger) Names() (available, selected []string) {
	return sortedNames(l.Available), sortedNames(l.Selected)
}

// Take hands the selection over and starts a new, empty one.
func (l *Ledger) Take() map[string]*models.File {
	taken := l.Selected
	l.Selected = make(map[string]*models.File)
	return taken
}

func sortedNames(m map[string]*models.File) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
