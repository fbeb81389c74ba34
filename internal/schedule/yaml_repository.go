package schedule

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/at-ishikawa/recall/internal/yamlfile"
)

const (
	preferencesFileName = "preferences.yml"
	dispatchesFileName  = "dispatches.yml"
)

type preferencesDocument struct {
	Preferences []Record `yaml:"preferences"`
}

type dispatchesDocument struct {
	NextID     int64      `yaml:"next_id"`
	Dispatches []Dispatch `yaml:"dispatches"`
}

// YAMLPreferencesRepository implements PreferencesRepository on a YAML file.
type YAMLPreferencesRepository struct {
	mu   sync.Mutex
	path string
}

// NewYAMLPreferencesRepository creates a repository backed by directory/preferences.yml.
func NewYAMLPreferencesRepository(directory string) *YAMLPreferencesRepository {
	return &YAMLPreferencesRepository{path: filepath.Join(directory, preferencesFileName)}
}

func (r *YAMLPreferencesRepository) load() (preferencesDocument, error) {
	doc, err := yamlfile.Read[preferencesDocument](r.path)
	if err != nil {
		return doc, fmt.Errorf("yamlfile.Read(%s) > %w", r.path, err)
	}
	return doc, nil
}

func (r *YAMLPreferencesRepository) store(doc preferencesDocument) error {
	if err := yamlfile.Write(r.path, doc); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", r.path, err)
	}
	return nil
}

// update applies fn to the record of the user, starting from the defaults
// when none is stored.
func (r *YAMLPreferencesRepository) update(userID int64, fn func(record *Record)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(doc.Preferences, func(record Record) bool {
		return record.UserID == userID
	})
	if i < 0 {
		doc.Preferences = append(doc.Preferences, DefaultPreferences(userID).Record())
		i = len(doc.Preferences) - 1
	}
	fn(&doc.Preferences[i])
	doc.Preferences[i].UpdatedAt = time.Now().UTC()
	slices.SortFunc(doc.Preferences, func(a, b Record) int {
		return cmp.Compare(a.UserID, b.UserID)
	})
	return r.store(doc)
}

func (r *YAMLPreferencesRepository) FindByUser(_ context.Context, userID int64) (Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return Preferences{}, err
	}
	for _, record := range doc.Preferences {
		if record.UserID != userID {
			continue
		}
		prefs, err := NewPreferences(record)
		if err != nil {
			return Preferences{}, fmt.Errorf("NewPreferences(user %d) > %w", userID, err)
		}
		return prefs, nil
	}
	return DefaultPreferences(userID), nil
}

func (r *YAMLPreferencesRepository) FindEnabled(_ context.Context) ([]Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, record := range doc.Preferences {
		if record.RecallEnabled {
			records = append(records, record)
		}
	}
	return toPreferences(records), nil
}

func (r *YAMLPreferencesRepository) Save(_ context.Context, prefs Preferences) error {
	return r.update(prefs.UserID, func(record *Record) {
		*record = prefs.Record()
	})
}

func (r *YAMLPreferencesRepository) UpdateLastNotificationAt(_ context.Context, userID int64, at time.Time) error {
	return r.update(userID, func(record *Record) {
		at := at.UTC()
		record.LastNotificationAt = &at
	})
}

func (r *YAMLPreferencesRepository) SetPaused(_ context.Context, userID int64, paused bool) error {
	return r.update(userID, func(record *Record) {
		record.RecallPaused = paused
	})
}

// YAMLDispatchLog implements DispatchLog on a YAML file.
type YAMLDispatchLog struct {
	mu   sync.Mutex
	path string
}

// NewYAMLDispatchLog creates a log backed by directory/dispatches.yml.
func NewYAMLDispatchLog(directory string) *YAMLDispatchLog {
	return &YAMLDispatchLog{path: filepath.Join(directory, dispatchesFileName)}
}

func (l *YAMLDispatchLog) Record(_ context.Context, dispatch *Dispatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := yamlfile.Read[dispatchesDocument](l.path)
	if err != nil {
		return fmt.Errorf("yamlfile.Read(%s) > %w", l.path, err)
	}
	doc.NextID++
	dispatch.ID = doc.NextID
	dispatch.DispatchedAt = dispatch.DispatchedAt.UTC()
	doc.Dispatches = append(doc.Dispatches, *dispatch)
	if err := yamlfile.Write(l.path, doc); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", l.path, err)
	}
	return nil
}

func (l *YAMLDispatchLog) CountSince(_ context.Context, userID int64, since time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := yamlfile.Read[dispatchesDocument](l.path)
	if err != nil {
		return 0, fmt.Errorf("yamlfile.Read(%s) > %w", l.path, err)
	}
	count := 0
	for _, dispatch := range doc.Dispatches {
		if dispatch.UserID == userID && !dispatch.DispatchedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
