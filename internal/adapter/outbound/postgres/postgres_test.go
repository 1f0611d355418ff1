package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/uniedit/seeder/internal/model"
)

const unreachableDSN = "host=127.0.0.1 port=1 user=postgres dbname=uniedit sslmode=disable connect_timeout=2"

// newDryRunDB returns a gorm handle that builds statements without a server.
// Every executed create statement is captured.
func newDryRunDB(t *testing.T) (*gorm.DB, *[]*gorm.Statement) {
	t.Helper()
	db, err := gorm.Open(postgres.Open(unreachableDSN), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var captured []*gorm.Statement
	err = db.Callback().Create().After("gorm:create").Register("test:capture", func(tx *gorm.DB) {
		captured = append(captured, tx.Statement)
	})
	require.NoError(t, err)
	return db, &captured
}

func TestBannerAdapter_Create(t *testing.T) {
	db, captured := newDryRunDB(t)
	adapter := NewBannerAdapter(db)

	imageID := uuid.New()
	banner := &model.Banner{
		Title:       "Summer Sale",
		CTALabel:    "Shop",
		CTAURL:      "/sale",
		ImageID:     &imageID,
		PublishedAt: time.Now(),
	}
	require.NoError(t, adapter.Create(context.Background(), banner))

	assert.NotEqual(t, uuid.Nil, banner.ID)
	require.Len(t, *captured, 1)
	sql := (*captured)[0].SQL.String()
	assert.True(t, strings.HasPrefix(sql, `INSERT INTO "banners"`), sql)
	assert.Contains(t, sql, `"cta_label"`)
	assert.Contains(t, sql, `"cta_url"`)
	assert.Contains(t, sql, `"image_id"`)
}

func TestBannerAdapter_CreateKeepsID(t *testing.T) {
	db, _ := newDryRunDB(t)
	id := uuid.New()
	banner := &model.Banner{ID: id, Title: "Fixed"}

	require.NoError(t, NewBannerAdapter(db).Create(context.Background(), banner))
	assert.Equal(t, id, banner.ID)
}

func TestBannerAdapter_CreateJoinsContextTransaction(t *testing.T) {
	db, captured := newDryRunDB(t)
	tx := db.Set("test:tx", true).Session(&gorm.Session{})
	ctx := context.WithValue(context.Background(), txContextKey, tx)

	require.NoError(t, NewBannerAdapter(db).Create(ctx, &model.Banner{Title: "In tx"}))
	require.NoError(t, NewUploadFileAdapter(db).Create(ctx, &model.UploadFile{Name: "in-tx", Hash: "1_in-tx"}))

	require.Len(t, *captured, 2)
	for _, stmt := range *captured {
		v, ok := stmt.Settings.Load("test:tx")
		assert.True(t, ok)
		assert.Equal(t, true, v)
	}
}

func TestUploadFileAdapter_Create(t *testing.T) {
	db, captured := newDryRunDB(t)
	file := &model.UploadFile{
		Name:     "banner-summer-sale",
		Hash:     "1700000000_banner-summer-sale",
		Ext:      ".webp",
		Mime:     "image/webp",
		Size:     12.5,
		Provider: "local",
	}

	require.NoError(t, NewUploadFileAdapter(db).Create(context.Background(), file))

	assert.NotEqual(t, uuid.Nil, file.ID)
	require.Len(t, *captured, 1)
	assert.True(t, strings.HasPrefix((*captured)[0].SQL.String(), `INSERT INTO "upload_files"`))
}

func TestConn_WithoutTransaction(t *testing.T) {
	db, _ := newDryRunDB(t)
	ctx := context.Background()

	got := conn(ctx, db)
	assert.Equal(t, ctx, got.Statement.Context)
}

// newUnreachableDB returns a gorm handle whose queries fail to connect.
func newUnreachableDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open(unreachableDSN), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestBannerAdapter_HasTableReportsQueryError(t *testing.T) {
	adapter := NewBannerAdapter(newUnreachableDB(t))

	ok, err := adapter.HasTable(context.Background())
	require.Error(t, err)
	assert.False(t, ok)
}

func TestBannerAdapter_HasTableCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBannerAdapter(newUnreachableDB(t)).HasTable(ctx)
	assert.Error(t, err)
}

func TestBannerAdapter_ExistsReportsQueryError(t *testing.T) {
	_, err := NewBannerAdapter(newUnreachableDB(t)).Exists(context.Background())
	assert.Error(t, err)
}

func TestTransactionAdapter_BeginFailure(t *testing.T) {
	called := false
	err := NewTransactionAdapter(newUnreachableDB(t)).RunInTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
}
