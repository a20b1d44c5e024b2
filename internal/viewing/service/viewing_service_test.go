package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pelicanmedia/pelican/internal/viewing/service"
	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/events"
	"github.com/pelicanmedia/pelican/pkg/logger"
	"github.com/pelicanmedia/pelican/pkg/models"
	"github.com/pelicanmedia/pelican/test/mocks"
	"github.com/pelicanmedia/pelican/test/testutil"
)

type ViewingServiceTestSuite struct {
	suite.Suite

	ctx         context.Context
	mockRepo    *mocks.MockViewingRepository
	mockCatalog *mocks.MockCatalogRepository
	svc         *service.ViewingService

	userID uuid.UUID
}

func (suite *ViewingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(mocks.MockViewingRepository)
	suite.mockCatalog = new(mocks.MockCatalogRepository)
	suite.userID = uuid.New()

	suite.svc = service.NewViewingService(
		suite.mockRepo,
		suite.mockCatalog,
		events.NewLocalEventBus(logger.NewNoop()),
		logger.NewNoop(),
	)
}

func (suite *ViewingServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCatalog.AssertExpectations(suite.T())
}

func (suite *ViewingServiceTestSuite) historyEntry(category string) *models.HistoryEntry {
	media := testutil.CreateTestMedia("Some Title", category, uuid.New())
	return &models.HistoryEntry{
		ID:        uuid.New(),
		UserID:    suite.userID,
		MediaID:   media.ID,
		Media:     media,
		WatchedAt: time.Now(),
	}
}

func (suite *ViewingServiceTestSuite) TestGetProgress_DefaultsToZero() {
	mediaID := uuid.New()
	suite.mockRepo.On("GetProgress", suite.ctx, suite.userID, mediaID).
		Return(nil, errors.NotFound("no progress recorded"))

	position, err := suite.svc.GetProgress(suite.ctx, suite.userID, mediaID)

	suite.Require().NoError(err)
	suite.Zero(position)
}

func (suite *ViewingServiceTestSuite) TestGetProgress_ReturnsSavedPosition() {
	mediaID := uuid.New()
	suite.mockRepo.On("GetProgress", suite.ctx, suite.userID, mediaID).
		Return(&models.WatchProgress{Position: 42.5}, nil)

	position, err := suite.svc.GetProgress(suite.ctx, suite.userID, mediaID)

	suite.Require().NoError(err)
	suite.InDelta(42.5, position, 1e-9)
}

func (suite *ViewingServiceTestSuite) TestSaveProgress_RejectsNegativePosition() {
	err := suite.svc.SaveProgress(suite.ctx, suite.userID, uuid.New(), -1)

	suite.Require().Error(err)
	suite.True(errors.IsBadRequest(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertProgress", mock.Anything, mock.Anything)
}

func (suite *ViewingServiceTestSuite) TestSaveProgress_Upserts() {
	mediaID := uuid.New()
	suite.mockRepo.On("UpsertProgress", suite.ctx, mock.MatchedBy(func(p *models.WatchProgress) bool {
		return p.UserID == suite.userID && p.MediaID == mediaID && p.Position == 127.3
	})).Return(nil)

	err := suite.svc.SaveProgress(suite.ctx, suite.userID, mediaID, 127.3)

	suite.Require().NoError(err)
}

func (suite *ViewingServiceTestSuite) TestRecordOnAccess_InsertsFirstAccess() {
	mediaID := uuid.New()
	suite.mockRepo.On("HistoryEntryExists", suite.ctx, suite.userID, mediaID).Return(false, nil)
	suite.mockRepo.On("CreateHistoryEntry", suite.ctx, mock.MatchedBy(func(e *models.HistoryEntry) bool {
		return e.UserID == suite.userID && e.MediaID == mediaID
	})).Return(nil)

	err := suite.svc.RecordOnAccess(suite.ctx, suite.userID, mediaID)

	suite.Require().NoError(err)
}

func (suite *ViewingServiceTestSuite) TestRecordOnAccess_DeduplicatesRepeatAccess() {
	mediaID := uuid.New()
	suite.mockRepo.On("HistoryEntryExists", suite.ctx, suite.userID, mediaID).Return(true, nil)

	err := suite.svc.RecordOnAccess(suite.ctx, suite.userID, mediaID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateHistoryEntry", mock.Anything, mock.Anything)
}

func (suite *ViewingServiceTestSuite) TestRecordHistory_AlwaysInserts() {
	media := testutil.CreateTestMedia("Rewatched", "drama", uuid.New())
	suite.mockCatalog.On("GetMedia", suite.ctx, media.ID).Return(media, nil).Twice()
	suite.mockRepo.On("CreateHistoryEntry", suite.ctx, mock.AnythingOfType("*models.HistoryEntry")).
		Return(nil).Twice()

	_, err := suite.svc.RecordHistory(suite.ctx, suite.userID, media.ID)
	suite.Require().NoError(err)
	_, err = suite.svc.RecordHistory(suite.ctx, suite.userID, media.ID)
	suite.Require().NoError(err)
}

func (suite *ViewingServiceTestSuite) TestRecordHistory_UnknownMedia() {
	mediaID := uuid.New()
	suite.mockCatalog.On("GetMedia", suite.ctx, mediaID).Return(nil, errors.NotFound("media not found"))

	_, err := suite.svc.RecordHistory(suite.ctx, suite.userID, mediaID)

	suite.Require().Error(err)
	suite.True(errors.IsNotFound(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateHistoryEntry", mock.Anything, mock.Anything)
}

func (suite *ViewingServiceTestSuite) TestListHistory_SkipsDanglingEntries() {
	kept := suite.historyEntry("comedy")
	dangling := &models.HistoryEntry{ID: uuid.New(), UserID: suite.userID, MediaID: uuid.New()}
	suite.mockRepo.On("ListHistory", suite.ctx, suite.userID).
		Return([]*models.HistoryEntry{kept, dangling}, nil)

	entries, err := suite.svc.ListHistory(suite.ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal(kept.ID, entries[0].ID)
}

func (suite *ViewingServiceTestSuite) TestAddToWatchlist_DuplicateConflicts() {
	media := testutil.CreateTestMedia("Bookmarked", "thriller", uuid.New())
	suite.mockCatalog.On("GetMedia", suite.ctx, media.ID).Return(media, nil)
	suite.mockRepo.On("CreateWatchlistEntry", suite.ctx, mock.AnythingOfType("*models.WatchlistEntry")).
		Return(errors.Conflict("already in watchlist"))

	_, err := suite.svc.AddToWatchlist(suite.ctx, suite.userID, media.ID)

	suite.Require().Error(err)
	suite.True(errors.IsConflict(err))
}

func (suite *ViewingServiceTestSuite) TestRemoveFromWatchlist_AbsentIsNoop() {
	mediaID := uuid.New()
	suite.mockRepo.On("DeleteWatchlistEntry", suite.ctx, suite.userID, mediaID).Return(nil)

	suite.Require().NoError(suite.svc.RemoveFromWatchlist(suite.ctx, suite.userID, mediaID))
}

func (suite *ViewingServiceTestSuite) TestRecommend_NoHistory() {
	suite.mockRepo.On("ListHistory", suite.ctx, suite.userID).
		Return([]*models.HistoryEntry{}, nil)

	result, err := suite.svc.Recommend(suite.ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(service.NoHistoryMessage, result.Message)
	suite.Empty(result.Recommendations)
	suite.mockCatalog.AssertNotCalled(suite.T(), "ListMediaByCategories",
		mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ViewingServiceTestSuite) TestRecommend_UsesDistinctCategories() {
	history := []*models.HistoryEntry{
		suite.historyEntry("comedy"),
		suite.historyEntry("drama"),
		suite.historyEntry("comedy"),
	}
	suggestion := testutil.CreateTestMedia("Suggested", "comedy", uuid.New())

	suite.mockRepo.On("ListHistory", suite.ctx, suite.userID).Return(history, nil)
	suite.mockCatalog.On("ListMediaByCategories", suite.ctx,
		[]string{"comedy", "drama"}, service.RecommendationLimit).
		Return([]*models.Media{suggestion}, nil)

	result, err := suite.svc.Recommend(suite.ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(result.Message)
	suite.Require().Len(result.Recommendations, 1)
	suite.Equal(suggestion.ID, result.Recommendations[0].ID)
}

func (suite *ViewingServiceTestSuite) TestRecommend_IgnoresDanglingHistory() {
	dangling := &models.HistoryEntry{ID: uuid.New(), UserID: suite.userID, MediaID: uuid.New()}
	suite.mockRepo.On("ListHistory", suite.ctx, suite.userID).
		Return([]*models.HistoryEntry{dangling}, nil)

	result, err := suite.svc.Recommend(suite.ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(service.NoHistoryMessage, result.Message)
	suite.Empty(result.Recommendations)
}

func TestViewingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ViewingServiceTestSuite))
}
