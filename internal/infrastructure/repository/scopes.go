package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsertionOrder returns a GORM scope that orders rows the way they were
// committed in memory
func InsertionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC").Order("id ASC")
}

// upsert overwrites every column of an existing row with the same primary key.
// Mirror jobs may be retried, so plain inserts would fail on the second try.
func upsert(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.OnConflict{UpdateAll: true})
}

// insertOnce skips rows whose primary key already exists
func insertOnce(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.OnConflict{DoNothing: true})
}
