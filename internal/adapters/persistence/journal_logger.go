package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// LogEntry represents a stored log entry
type LogEntry struct {
	ID        int
	RunID     string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// JournalLogger writes application log entries next to the event journal.
// Identical messages within the dedup window are written once.
type JournalLogger struct {
	db    *gorm.DB
	clock shared.Clock
	runID func() string

	dedupCache   map[string]time.Time // key: level+message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewJournalLogger creates a logger filing entries under the journal's
// active run. If clock is nil, uses RealClock.
func NewJournalLogger(db *gorm.DB, journal *GormJournalRepository, clock shared.Clock) *JournalLogger {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &JournalLogger{
		db:           db,
		clock:        clock,
		runID:        journal.RunID,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  10 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Log implements logging.Logger. Write failures are dropped.
func (l *JournalLogger) Log(level, message string, metadata map[string]interface{}) {
	_ = l.write(context.Background(), level, message, metadata)
}

func (l *JournalLogger) write(ctx context.Context, level, message string, metadata map[string]interface{}) error {
	now := l.clock.Now()
	cacheKey := level + "|" + message

	l.dedupMu.Lock()
	if lastLogged, exists := l.dedupCache[cacheKey]; exists && now.Sub(lastLogged) < l.dedupWindow {
		l.dedupMu.Unlock()
		return nil
	}
	if len(l.dedupCache) >= l.dedupMaxSize {
		l.cleanupDedupCache(now)
	}
	l.dedupCache[cacheKey] = now
	l.dedupMu.Unlock()

	var metadataJSON string
	if len(metadata) > 0 {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	return l.db.WithContext(ctx).Create(&LogEntryModel{
		RunID:     l.runID(),
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}).Error
}

// cleanupDedupCache must be called while holding dedupMu
func (l *JournalLogger) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-l.dedupWindow)
	for key, timestamp := range l.dedupCache {
		if timestamp.Before(cutoff) {
			delete(l.dedupCache, key)
		}
	}
}

// Entries retrieves the newest log entries of a run
func (l *JournalLogger) Entries(ctx context.Context, runID string, limit int, level *string) ([]LogEntry, error) {
	var models []LogEntryModel

	query := l.db.WithContext(ctx).Where("run_id = ?", runID)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	query = query.Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]LogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = LogEntry{
			ID:        model.ID,
			RunID:     model.RunID,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}
