package mysql

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/readingroom/internal/domain/book"
)

// newTestDB 每个测试一个独立的SQLite文件库
// 单连接串行化写入,避免SQLite的database is locked
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	dsn := filepath.Join(t.TempDir(), "readingroom.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := Open(sqlite.Open(dsn), log, logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func seedBook(t *testing.T, db *gorm.DB, title string, price int64, physical int) *book.Book {
	t.Helper()
	b := book.NewBook(title, "author", price, physical)
	require.NoError(t, NewBookRepository(db).Create(t.Context(), b))
	return b
}
