package persistence

import "time"

// RunModel represents the runs table, one row per simulation run
type RunModel struct {
	ID         string     `gorm:"column:id;primaryKey;not null"`
	Scenario   string     `gorm:"column:scenario;not null"`
	Status     string     `gorm:"column:status;not null;default:'RUNNING'"`
	Ticks      int64      `gorm:"column:ticks;default:0"`
	StartedAt  time.Time  `gorm:"column:started_at;not null"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
}

func (RunModel) TableName() string {
	return "runs"
}

// EventModel represents the events table
type EventModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID      string    `gorm:"column:run_id;not null;index:idx_events_run_tick"`
	Run        *RunModel `gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tick       int64     `gorm:"column:tick;not null;index:idx_events_run_tick"`
	GameTime   float64   `gorm:"column:game_time;not null"`
	Type       string    `gorm:"column:type;not null;index"`
	DivisionID int64     `gorm:"column:division_id;not null"`
	OtherID    int64     `gorm:"column:other_id"`
	Detail     string    `gorm:"column:detail;type:text"`
}

func (EventModel) TableName() string {
	return "events"
}

// LogEntryModel represents the log_entries table
type LogEntryModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;index"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"`
}

func (LogEntryModel) TableName() string {
	return "log_entries"
}
