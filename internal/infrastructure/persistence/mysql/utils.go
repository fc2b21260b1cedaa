package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 唯一索引冲突
// MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// SQLite: UNIQUE constraint failed: table.column
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isLockConflict 可以整体重试的锁冲突
// MySQL 1213: Deadlock found when trying to get lock
// MySQL 1205: Lock wait timeout exceeded
// SQLite: database is locked
func isLockConflict(err error) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		msg := err.Error()
		if strings.Contains(msg, "Deadlock found") ||
			strings.Contains(msg, "Lock wait timeout") ||
			strings.Contains(msg, "database is locked") {
			return true
		}
	}
	return false
}

// newestFirst 按创建时间倒序，同一时刻创建的按ID倒序，保证分页稳定
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// paginate pageSize<=0时不分页，page<1按第1页处理
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}
