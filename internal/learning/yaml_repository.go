package learning

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/at-ishikawa/recall/internal/yamlfile"
)

const (
	itemsFileName      = "items.yml"
	reviewLogsFileName = "review_logs.yml"
)

type itemsDocument struct {
	NextID int64  `yaml:"next_id"`
	Items  []Item `yaml:"items"`
}

type reviewLogsDocument struct {
	NextID int64       `yaml:"next_id"`
	Logs   []ReviewLog `yaml:"logs"`
}

// fileLocks holds one mutex per YAML file, shared by every repository of the
// process so that items and review logs can be written together.
var fileLocks sync.Map

// lockFile locks path and returns the unlock function.
func lockFile(path string) func() {
	value, _ := fileLocks.LoadOrStore(path, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// YAMLItemRepository stores items in a single YAML file.
// All operations, including Modify, are serialized by a lock on the file.
type YAMLItemRepository struct {
	path           string
	reviewLogsPath string
}

// NewYAMLItemRepository creates a repository backed by directory/items.yml.
// RecordReview appends to directory/review_logs.yml.
func NewYAMLItemRepository(directory string) *YAMLItemRepository {
	return &YAMLItemRepository{
		path:           filepath.Join(directory, itemsFileName),
		reviewLogsPath: filepath.Join(directory, reviewLogsFileName),
	}
}

func (r *YAMLItemRepository) load() (itemsDocument, error) {
	doc, err := yamlfile.Read[itemsDocument](r.path)
	if err != nil {
		return doc, fmt.Errorf("yamlfile.Read(%s) > %w", r.path, err)
	}
	return doc, nil
}

func (r *YAMLItemRepository) store(doc itemsDocument) error {
	if err := yamlfile.Write(r.path, doc); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", r.path, err)
	}
	return nil
}

// FindByUser returns every item owned by the user ordered by id.
func (r *YAMLItemRepository) FindByUser(_ context.Context, userID int64) ([]Item, error) {
	defer lockFile(r.path)()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, item := range doc.Items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// FindByID returns the item or an error wrapping ErrNotFound.
func (r *YAMLItemRepository) FindByID(_ context.Context, id int64) (*Item, error) {
	defer lockFile(r.path)()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	index := findItem(doc.Items, id)
	if index < 0 {
		return nil, fmt.Errorf("learning item %d: %w", id, ErrNotFound)
	}
	item := doc.Items[index]
	return &item, nil
}

// Create appends the item and assigns its id.
func (r *YAMLItemRepository) Create(_ context.Context, item *Item) error {
	defer lockFile(r.path)()

	doc, err := r.load()
	if err != nil {
		return err
	}
	doc.NextID++
	item.ID = doc.NextID
	doc.Items = append(doc.Items, *item)
	return r.store(doc)
}

// Save replaces the stored item with the same id.
func (r *YAMLItemRepository) Save(_ context.Context, item *Item) error {
	defer lockFile(r.path)()

	doc, err := r.load()
	if err != nil {
		return err
	}
	index := findItem(doc.Items, item.ID)
	if index < 0 {
		return fmt.Errorf("learning item %d: %w", item.ID, ErrNotFound)
	}
	doc.Items[index] = *item
	return r.store(doc)
}

// Modify applies fn while holding the repository lock.
func (r *YAMLItemRepository) Modify(_ context.Context, id int64, fn func(item *Item) error) error {
	defer lockFile(r.path)()

	doc, err := r.load()
	if err != nil {
		return err
	}
	index := findItem(doc.Items, id)
	if index < 0 {
		return fmt.Errorf("learning item %d: %w", id, ErrNotFound)
	}
	item := doc.Items[index]
	if err := fn(&item); err != nil {
		return err
	}
	doc.Items[index] = item
	return r.store(doc)
}

// RecordReview appends the review log before the item is written and drops
// it again when the item cannot be stored.
func (r *YAMLItemRepository) RecordReview(_ context.Context, id int64, fn func(item *Item) (ReviewLog, error)) (ReviewLog, error) {
	defer lockFile(r.path)()
	defer lockFile(r.reviewLogsPath)()

	doc, err := r.load()
	if err != nil {
		return ReviewLog{}, err
	}
	index := findItem(doc.Items, id)
	if index < 0 {
		return ReviewLog{}, fmt.Errorf("learning item %d: %w", id, ErrNotFound)
	}
	logs, err := yamlfile.Read[reviewLogsDocument](r.reviewLogsPath)
	if err != nil {
		return ReviewLog{}, fmt.Errorf("yamlfile.Read(%s) > %w", r.reviewLogsPath, err)
	}

	item := doc.Items[index]
	log, err := fn(&item)
	if err != nil {
		return ReviewLog{}, err
	}

	previous := logs
	logs.NextID++
	log.ID = logs.NextID
	logs.Logs = append(slices.Clone(logs.Logs), log)
	if err := yamlfile.Write(r.reviewLogsPath, logs); err != nil {
		return ReviewLog{}, fmt.Errorf("yamlfile.Write(%s) > %w", r.reviewLogsPath, err)
	}

	doc.Items[index] = item
	if err := r.store(doc); err != nil {
		if restoreErr := yamlfile.Write(r.reviewLogsPath, previous); restoreErr != nil {
			return ReviewLog{}, errors.Join(err, fmt.Errorf("restore %s > %w", r.reviewLogsPath, restoreErr))
		}
		return ReviewLog{}, err
	}
	return log, nil
}

func findItem(items []Item, id int64) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// YAMLReviewLogRepository stores review logs in a single YAML file.
type YAMLReviewLogRepository struct {
	path string
}

// NewYAMLReviewLogRepository creates a repository backed by directory/review_logs.yml.
func NewYAMLReviewLogRepository(directory string) *YAMLReviewLogRepository {
	return &YAMLReviewLogRepository{path: filepath.Join(directory, reviewLogsFileName)}
}

// FindByUser returns all review logs of a user, oldest first.
func (r *YAMLReviewLogRepository) FindByUser(_ context.Context, userID int64) ([]ReviewLog, error) {
	defer lockFile(r.path)()

	doc, err := yamlfile.Read[reviewLogsDocument](r.path)
	if err != nil {
		return nil, fmt.Errorf("yamlfile.Read(%s) > %w", r.path, err)
	}
	var logs []ReviewLog
	for _, log := range doc.Logs {
		if log.UserID == userID {
			logs = append(logs, log)
		}
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].ReviewedAt.Before(logs[j].ReviewedAt) })
	return logs, nil
}

// Create appends a review log and assigns its id.
func (r *YAMLReviewLogRepository) Create(_ context.Context, log *ReviewLog) error {
	defer lockFile(r.path)()

	doc, err := yamlfile.Read[reviewLogsDocument](r.path)
	if err != nil {
		return fmt.Errorf("yamlfile.Read(%s) > %w", r.path, err)
	}
	doc.NextID++
	log.ID = doc.NextID
	doc.Logs = append(doc.Logs, *log)
	if err := yamlfile.Write(r.path, doc); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", r.path, err)
	}
	return nil
}
