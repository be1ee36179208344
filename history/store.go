package history

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists matches in SQLite.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates the
// schema. An empty path opens a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if path == "" {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON;").Error; err != nil {
		return nil, fmt.Errorf("error setting PRAGMA: %w", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	if path != "" {
		log.Debug().Str("path", path).Msg("opened history database")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveMatch inserts the match together with its events and sets its ID.
func (s *Store) SaveMatch(m *MatchRecord) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save match %q: %w", m.Name, err)
	}
	return nil
}

// Matches returns up to limit matches, newest first. Events are not loaded.
func (s *Store) Matches(limit int) ([]MatchRecord, error) {
	var matches []MatchRecord
	q := s.db.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// Match loads a single match without its events.
func (s *Store) Match(id uint) (*MatchRecord, error) {
	var m MatchRecord
	if err := s.db.First(&m, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load match %d: %w", id, err)
	}
	return &m, nil
}

// Events returns a match's events in the order they happened.
func (s *Store) Events(matchID uint) ([]EventRecord, error) {
	var events []EventRecord
	err := s.db.Where("match_id = ?", matchID).Order("seq").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load events of match %d: %w", matchID, err)
	}
	return events, nil
}

// DeleteMatch removes a match and its events.
func (s *Store) DeleteMatch(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", id).Delete(&EventRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&MatchRecord{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("no match %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}
