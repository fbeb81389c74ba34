// Package datasync copies items, review logs and preferences between storage drivers.
package datasync

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/at-ishikawa/recall/internal/learning"
	"github.com/at-ishikawa/recall/internal/schedule"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	ItemsNew           int
	ItemsSkipped       int
	ItemsUpdated       int
	ReviewLogsNew      int
	ReviewLogsSkipped  int
	ReviewLogsWarnings int
	PreferencesNew     int
	PreferencesSkipped int
	PreferencesUpdated int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// ExportData holds the stored data of one user.
type ExportData struct {
	UserID      int64
	Items       []learning.Item
	ReviewLogs  []learning.ReviewLog
	Preferences schedule.Preferences
}

// Exporter reads the data of a user from one storage.
type Exporter struct {
	items       learning.ItemRepository
	reviewLogs  learning.ReviewLogRepository
	preferences schedule.PreferencesRepository
}

// NewExporter creates a new Exporter.
func NewExporter(items learning.ItemRepository, reviewLogs learning.ReviewLogRepository, preferences schedule.PreferencesRepository) *Exporter {
	return &Exporter{
		items:       items,
		reviewLogs:  reviewLogs,
		preferences: preferences,
	}
}

// Export reads all data of the user.
func (e *Exporter) Export(ctx context.Context, userID int64) (*ExportData, error) {
	items, err := e.items.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("items.FindByUser() > %w", err)
	}
	logs, err := e.reviewLogs.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reviewLogs.FindByUser() > %w", err)
	}
	prefs, err := e.preferences.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("preferences.FindByUser() > %w", err)
	}
	return &ExportData{
		UserID:      userID,
		Items:       items,
		ReviewLogs:  logs,
		Preferences: prefs,
	}, nil
}

// Importer writes exported data into another storage.
// Items are matched by kind and prompt, review logs by item and review time.
type Importer struct {
	items       learning.ItemRepository
	reviewLogs  learning.ReviewLogRepository
	preferences schedule.PreferencesRepository
	writer      io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(items learning.ItemRepository, reviewLogs learning.ReviewLogRepository, preferences schedule.PreferencesRepository, writer io.Writer) *Importer {
	return &Importer{
		items:       items,
		reviewLogs:  reviewLogs,
		preferences: preferences,
		writer:      writer,
	}
}

// Import imports items, then their review logs, then the preferences.
func (imp *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	itemIDs, err := imp.importItems(ctx, data.UserID, data.Items, opts, &result)
	if err != nil {
		return nil, fmt.Errorf("importItems() > %w", err)
	}
	if err := imp.importReviewLogs(ctx, data.UserID, data.ReviewLogs, itemIDs, opts, &result); err != nil {
		return nil, fmt.Errorf("importReviewLogs() > %w", err)
	}
	if err := imp.importPreferences(ctx, data.Preferences, opts, &result); err != nil {
		return nil, fmt.Errorf("importPreferences() > %w", err)
	}
	return &result, nil
}

// ImportItems imports items of the user without review history.
func (imp *Importer) ImportItems(ctx context.Context, userID int64, items []learning.Item, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	if _, err := imp.importItems(ctx, userID, items, opts, &result); err != nil {
		return nil, fmt.Errorf("importItems() > %w", err)
	}
	return &result, nil
}

type itemKey struct {
	kind   learning.Kind
	prompt string
}

// importItems returns the target id of each source item. Items created in a
// dry run map to 0.
func (imp *Importer) importItems(ctx context.Context, userID int64, items []learning.Item, opts ImportOptions, result *ImportResult) (map[int64]int64, error) {
	existing, err := imp.items.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("items.FindByUser(%d) > %w", userID, err)
	}
	byKey := make(map[itemKey]learning.Item, len(existing))
	for _, item := range existing {
		byKey[itemKey{kind: item.Kind, prompt: item.Prompt}] = item
	}

	itemIDs := make(map[int64]int64, len(items))
	for _, item := range items {
		item.UserID = userID
		key := itemKey{kind: item.Kind, prompt: item.Prompt}

		if target, ok := byKey[key]; ok {
			itemIDs[item.ID] = target.ID
			if !opts.UpdateExisting {
				fmt.Fprintf(imp.writer, "  [SKIP]  %q\n", item.Prompt)
				result.ItemsSkipped++
				continue
			}
			updated := item
			updated.ID = target.ID
			if !opts.DryRun {
				if err := imp.items.Save(ctx, &updated); err != nil {
					return nil, fmt.Errorf("items.Save(%d) > %w", target.ID, err)
				}
			}
			fmt.Fprintf(imp.writer, "  [UPDATE]  %q\n", item.Prompt)
			result.ItemsUpdated++
			continue
		}

		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("item %q > %w", item.Prompt, err)
		}
		created := item
		created.ID = 0
		if !opts.DryRun {
			if err := imp.items.Create(ctx, &created); err != nil {
				return nil, fmt.Errorf("items.Create(%q) > %w", item.Prompt, err)
			}
		}
		itemIDs[item.ID] = created.ID
		byKey[key] = created
		fmt.Fprintf(imp.writer, "  [NEW]  %q\n", item.Prompt)
		result.ItemsNew++
	}
	return itemIDs, nil
}

type reviewLogKey struct {
	itemID     int64
	reviewedAt int64
}

func (imp *Importer) importReviewLogs(ctx context.Context, userID int64, logs []learning.ReviewLog, itemIDs map[int64]int64, opts ImportOptions, result *ImportResult) error {
	existing, err := imp.reviewLogs.FindByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("reviewLogs.FindByUser(%d) > %w", userID, err)
	}
	// Second precision, the storage drivers keep different fractions
	seen := make(map[reviewLogKey]struct{}, len(existing))
	for _, log := range existing {
		seen[reviewLogKey{itemID: log.ItemID, reviewedAt: log.ReviewedAt.Unix()}] = struct{}{}
	}

	for _, log := range logs {
		itemID, ok := itemIDs[log.ItemID]
		if !ok {
			fmt.Fprintf(imp.writer, "  [WARN]  item %d not found for review log %d\n", log.ItemID, log.ID)
			result.ReviewLogsWarnings++
			continue
		}
		if itemID != 0 {
			key := reviewLogKey{itemID: itemID, reviewedAt: log.ReviewedAt.Unix()}
			if _, ok := seen[key]; ok {
				result.ReviewLogsSkipped++
				continue
			}
			seen[key] = struct{}{}
		}

		if !opts.DryRun {
			imported := log
			imported.ID = 0
			imported.ItemID = itemID
			imported.UserID = userID
			if err := imp.reviewLogs.Create(ctx, &imported); err != nil {
				return fmt.Errorf("reviewLogs.Create(item %d) > %w", itemID, err)
			}
		}
		result.ReviewLogsNew++
	}
	return nil
}

// importPreferences treats stored defaults as absent, since FindByUser cannot
// tell them apart.
func (imp *Importer) importPreferences(ctx context.Context, prefs schedule.Preferences, opts ImportOptions, result *ImportResult) error {
	defaults := schedule.DefaultPreferences(prefs.UserID).Record()
	source := prefs.Record()
	if sameRecord(source, defaults) {
		result.PreferencesSkipped++
		return nil
	}

	current, err := imp.preferences.FindByUser(ctx, prefs.UserID)
	if err != nil {
		return fmt.Errorf("preferences.FindByUser(%d) > %w", prefs.UserID, err)
	}
	target := current.Record()
	isNew := sameRecord(target, defaults)
	if sameRecord(target, source) || (!isNew && !opts.UpdateExisting) {
		fmt.Fprintf(imp.writer, "  [SKIP]  preferences of user %d\n", prefs.UserID)
		result.PreferencesSkipped++
		return nil
	}

	if !opts.DryRun {
		if err := imp.preferences.Save(ctx, prefs); err != nil {
			return fmt.Errorf("preferences.Save(%d) > %w", prefs.UserID, err)
		}
	}
	if isNew {
		fmt.Fprintf(imp.writer, "  [NEW]  preferences of user %d\n", prefs.UserID)
		result.PreferencesNew++
	} else {
		fmt.Fprintf(imp.writer, "  [UPDATE]  preferences of user %d\n", prefs.UserID)
		result.PreferencesUpdated++
	}
	return nil
}

// sameRecord compares the settings of two records, ignoring when they were
// stored and the location of the last notification time.
func sameRecord(a, b schedule.Record) bool {
	if !sameTime(a.LastNotificationAt, b.LastNotificationAt) {
		return false
	}
	a.LastNotificationAt, b.LastNotificationAt = nil, nil
	a.UpdatedAt, b.UpdatedAt = time.Time{}, time.Time{}
	return reflect.DeepEqual(a, b)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
