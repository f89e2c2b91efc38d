package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestGetTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("event_id", "INT UNSIGNED", "NO", "PRI", nil, "").
		AddRow("Quantity", "INT", "NO", "", "0", "").
		AddRow("quantity_returned", "INT", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `event_materials`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "event_materials")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	// Field and type names are normalized to lowercase.
	assert.Equal(t, "event_id", columns[0].Field)
	assert.Equal(t, "int unsigned", columns[0].Type)
	assert.Equal(t, "quantity", columns[1].Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("event_id", "int unsigned", "NO", "PRI", nil, "").
		AddRow("quantity", "int", "NO", "", "0", "")
	mock.ExpectQuery("SHOW COLUMNS FROM `event_materials`").WillReturnRows(rows)

	missing, err := HasColumns(db, "event_materials",
		[]string{"quantity", "quantity_returned"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"quantity_returned"}, missing)

	assert.NoError(t, mock.ExpectationsWereMet())
}
