package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/pelicanmedia/pelican/internal/viewing/repository"
	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/models"
	"github.com/pelicanmedia/pelican/test/testutil"
)

type GormRepositoryTestSuite struct {
	suite.Suite

	container *testutil.PostgresContainer
	repo      repository.Repository
	ctx       context.Context

	user  *models.User
	media *models.Media
}

func (suite *GormRepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	suite.container = testutil.SetupPostgresContainer(suite.T())
	suite.Require().NoError(suite.container.MigrateAll())
}

func (suite *GormRepositoryTestSuite) SetupTest() {
	suite.repo = repository.NewGormRepository(suite.container.DB)
	suite.Require().NoError(suite.container.TruncateAll())

	suite.user = testutil.CreateTestUser("Viewer", "viewer@example.com")
	suite.Require().NoError(suite.container.DB.Create(suite.user).Error)

	suite.media = testutil.CreateTestMedia("Fixture Film", "drama", suite.user.ID)
	suite.Require().NoError(suite.container.DB.Create(suite.media).Error)
}

// History

func (suite *GormRepositoryTestSuite) TestListHistory_NewestFirst() {
	older := testutil.CreateTestHistoryEntry(suite.user.ID, suite.media.ID)
	older.WatchedAt = time.Now().Add(-time.Hour)
	newer := testutil.CreateTestHistoryEntry(suite.user.ID, suite.media.ID)

	suite.Require().NoError(suite.repo.CreateHistoryEntry(suite.ctx, older))
	suite.Require().NoError(suite.repo.CreateHistoryEntry(suite.ctx, newer))

	entries, err := suite.repo.ListHistory(suite.ctx, suite.user.ID)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal(newer.ID, entries[0].ID)
	suite.Require().NotNil(entries[0].Media)
	suite.Equal(suite.media.Title, entries[0].Media.Title)
}

func (suite *GormRepositoryTestSuite) TestHistoryEntryExists() {
	exists, err := suite.repo.HistoryEntryExists(suite.ctx, suite.user.ID, suite.media.ID)
	suite.Require().NoError(err)
	suite.False(exists)

	entry := testutil.CreateTestHistoryEntry(suite.user.ID, suite.media.ID)
	suite.Require().NoError(suite.repo.CreateHistoryEntry(suite.ctx, entry))

	exists, err = suite.repo.HistoryEntryExists(suite.ctx, suite.user.ID, suite.media.ID)
	suite.Require().NoError(err)
	suite.True(exists)
}

func (suite *GormRepositoryTestSuite) TestDeleteHistoryEntry_RemovesOneEntry() {
	first := testutil.CreateTestHistoryEntry(suite.user.ID, suite.media.ID)
	second := testutil.CreateTestHistoryEntry(suite.user.ID, suite.media.ID)
	suite.Require().NoError(suite.repo.CreateHistoryEntry(suite.ctx, first))
	suite.Require().NoError(suite.repo.CreateHistoryEntry(suite.ctx, second))

	suite.Require().NoError(suite.repo.DeleteHistoryEntry(suite.ctx, suite.user.ID, suite.media.ID))

	entries, err := suite.repo.ListHistory(suite.ctx, suite.user.ID)
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *GormRepositoryTestSuite) TestDeleteHistoryEntry_AbsentIsNotFound() {
	err := suite.repo.DeleteHistoryEntry(suite.ctx, suite.user.ID, uuid.New())

	suite.Require().Error(err)
	suite.True(errors.IsNotFound(err))
}

func (suite *GormRepositoryTestSuite) TestClearHistory() {
	for range 3 {
		entry := testutil.CreateTestHistoryEntry(suite.user.ID, suite.media.ID)
		suite.Require().NoError(suite.repo.CreateHistoryEntry(suite.ctx, entry))
	}

	suite.Require().NoError(suite.repo.ClearHistory(suite.ctx, suite.user.ID))

	entries, err := suite.repo.ListHistory(suite.ctx, suite.user.ID)
	suite.Require().NoError(err)
	suite.Empty(entries)
}

// Progress

func (suite *GormRepositoryTestSuite) TestUpsertProgress_KeepsSingleRow() {
	first := &models.WatchProgress{
		ID: uuid.New(), UserID: suite.user.ID, MediaID: suite.media.ID, Position: 10,
	}
	second := &models.WatchProgress{
		ID: uuid.New(), UserID: suite.user.ID, MediaID: suite.media.ID, Position: 99.5,
	}

	suite.Require().NoError(suite.repo.UpsertProgress(suite.ctx, first))
	suite.Require().NoError(suite.repo.UpsertProgress(suite.ctx, second))

	var count int64
	suite.Require().NoError(suite.container.DB.Model(&models.WatchProgress{}).
		Where("user_id = ? AND media_id = ?", suite.user.ID, suite.media.ID).
		Count(&count).Error)
	suite.Equal(int64(1), count)

	progress, err := suite.repo.GetProgress(suite.ctx, suite.user.ID, suite.media.ID)
	suite.Require().NoError(err)
	suite.InDelta(99.5, progress.Position, 1e-9)
}

func (suite *GormRepositoryTestSuite) TestGetProgress_AbsentIsNotFound() {
	_, err := suite.repo.GetProgress(suite.ctx, suite.user.ID, suite.media.ID)

	suite.Require().Error(err)
	suite.True(errors.IsNotFound(err))
}

func (suite *GormRepositoryTestSuite) TestProgress_RemovedWithMedia() {
	progress := &models.WatchProgress{
		ID: uuid.New(), UserID: suite.user.ID, MediaID: suite.media.ID, Position: 30,
	}
	suite.Require().NoError(suite.repo.UpsertProgress(suite.ctx, progress))

	suite.Require().NoError(suite.container.DB.Delete(&models.Media{}, "id = ?", suite.media.ID).Error)

	_, err := suite.repo.GetProgress(suite.ctx, suite.user.ID, suite.media.ID)
	suite.Require().Error(err)
	suite.True(errors.IsNotFound(err))
}

// Watchlist

func (suite *GormRepositoryTestSuite) TestCreateWatchlistEntry_DuplicateConflicts() {
	first := &models.WatchlistEntry{ID: uuid.New(), UserID: suite.user.ID, MediaID: suite.media.ID}
	second := &models.WatchlistEntry{ID: uuid.New(), UserID: suite.user.ID, MediaID: suite.media.ID}

	suite.Require().NoError(suite.repo.CreateWatchlistEntry(suite.ctx, first))

	err := suite.repo.CreateWatchlistEntry(suite.ctx, second)
	suite.Require().Error(err)
	suite.True(errors.IsConflict(err))

	entries, listErr := suite.repo.ListWatchlist(suite.ctx, suite.user.ID)
	suite.Require().NoError(listErr)
	suite.Len(entries, 1)
}

func (suite *GormRepositoryTestSuite) TestDeleteWatchlistEntry_AbsentIsNoop() {
	suite.Require().NoError(suite.repo.DeleteWatchlistEntry(suite.ctx, suite.user.ID, uuid.New()))
}

func (suite *GormRepositoryTestSuite) TestListWatchlist_PreloadsMedia() {
	entry := &models.WatchlistEntry{ID: uuid.New(), UserID: suite.user.ID, MediaID: suite.media.ID}
	suite.Require().NoError(suite.repo.CreateWatchlistEntry(suite.ctx, entry))

	entries, err := suite.repo.ListWatchlist(suite.ctx, suite.user.ID)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Require().NotNil(entries[0].Media)
	suite.Equal(suite.media.Title, entries[0].Media.Title)
}

func TestGormRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed tests in short mode")
	}
	suite.Run(t, new(GormRepositoryTestSuite))
}
