package inquiries

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	"github.com/geosynthix/catalog-backend/pkg/enums"
	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("CATALOG_DB_DSN")
	if dsn == "" {
		t.Skip("CATALOG_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return conn
}

func TestRepositoryInquiryFlow(t *testing.T) {
	tx := openTestDB(t).Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })

	repo := NewRepository(tx)
	ctx := context.Background()

	source := enums.InquirySourceWebsite
	created, err := repo.Create(ctx, &models.Inquiry{
		CustomerName:  "Dana Osei",
		CustomerEmail: "dana@example.com",
		CustomerPhone: "+233501234567",
		City:          "Accra",
		Purpose:       enums.InquiryPurposePricing,
		Source:        &source,
		Message:       "Looking for bulk pricing on geotextiles.",
		Consent:       true,
		Status:        enums.InquiryStatusNew,
	})
	require.NoError(t, err)
	require.NotEqual(t, created.ID.String(), "00000000-0000-0000-0000-000000000000")

	reply, err := repo.AddReply(ctx, &models.InquiryReply{
		InquiryID: created.ID,
		Message:   "Thanks for reaching out, quote attached.",
	})
	require.NoError(t, err)

	second, err := repo.AddReply(ctx, &models.InquiryReply{
		InquiryID: created.ID,
		Message:   "Following up on the quote.",
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, enums.InquiryStatusInProgress))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.InquiryStatusInProgress, found.Status)
	require.Len(t, found.Replies, 2)
	assert.Equal(t, reply.ID, found.Replies[0].ID)
	assert.Equal(t, second.ID, found.Replies[1].ID)

	status := enums.InquiryStatusInProgress
	rows, total, err := repo.List(ctx, ListFilters{Status: &status}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(1))

	seen := false
	for _, row := range rows {
		if row.ID == created.ID {
			seen = true
		}
	}
	assert.True(t, seen, "created inquiry should appear in the filtered listing")

	err = repo.UpdateStatus(ctx, uuid.New(), enums.InquiryStatusClosed)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
