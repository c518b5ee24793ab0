package content

import (
	"context"
	"errors"
	"testing"

	"flashdeck/core/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
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

func TestStore_CountQuestions_Query(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := NewStore(gormDB)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `questions` WHERE set_code = \\?").
		WithArgs("PH1S1").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	count, err := store.CountQuestions(context.Background(), "PH1S1")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CountQuestions_WrapsFailure(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := NewStore(gormDB)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `questions`").
		WillReturnError(errors.New("connection reset"))

	_, err := store.CountQuestions(context.Background(), "PH1S1")
	var storeErr *apperr.StoreError
	assert.ErrorAs(t, err, &storeErr)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStore_FindModuleByCode_MissingIsNil(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := NewStore(gormDB)

	mock.ExpectQuery("SELECT \\* FROM `modules`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "module_code"}))

	module, err := store.FindModuleByCode(context.Background(), "NOPE")
	assert.NoError(t, err)
	assert.Nil(t, module)
}
