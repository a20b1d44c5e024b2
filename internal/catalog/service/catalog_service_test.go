package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pelicanmedia/pelican/internal/catalog/service"
	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/events"
	"github.com/pelicanmedia/pelican/pkg/logger"
	"github.com/pelicanmedia/pelican/pkg/models"
	"github.com/pelicanmedia/pelican/test/mocks"
	"github.com/pelicanmedia/pelican/test/testutil"
)

type mockAccessRecorder struct {
	mock.Mock
}

func (m *mockAccessRecorder) RecordOnAccess(ctx context.Context, userID, mediaID uuid.UUID) error {
	args := m.Called(ctx, userID, mediaID)
	return args.Error(0)
}

type CatalogServiceTestSuite struct {
	suite.Suite

	ctx          context.Context
	mockRepo     *mocks.MockCatalogRepository
	mockStore    *mocks.MockObjectStorage
	mockRecorder *mockAccessRecorder
	svc          *service.CatalogService
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(mocks.MockCatalogRepository)
	suite.mockStore = new(mocks.MockObjectStorage)
	suite.mockRecorder = new(mockAccessRecorder)

	suite.svc = service.NewCatalogService(
		suite.mockRepo,
		suite.mockStore,
		events.NewLocalEventBus(logger.NewNoop()),
		logger.NewNoop(),
	)
	suite.svc.SetAccessRecorder(suite.mockRecorder)
}

func (suite *CatalogServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockStore.AssertExpectations(suite.T())
	suite.mockRecorder.AssertExpectations(suite.T())
}

func (suite *CatalogServiceTestSuite) TestGetMedia_AnonymousDoesNotRecord() {
	media := testutil.CreateTestMedia("Public Read", "docs", uuid.New())
	suite.mockRepo.On("GetMedia", suite.ctx, media.ID).Return(media, nil)

	got, err := suite.svc.GetMedia(suite.ctx, media.ID, nil)

	suite.Require().NoError(err)
	suite.Equal(media.ID, got.ID)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordOnAccess",
		mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CatalogServiceTestSuite) TestGetMedia_RecordsViewerAccess() {
	media := testutil.CreateTestMedia("Watched Read", "docs", uuid.New())
	viewerID := uuid.New()
	suite.mockRepo.On("GetMedia", suite.ctx, media.ID).Return(media, nil)
	suite.mockRecorder.On("RecordOnAccess", suite.ctx, viewerID, media.ID).Return(nil)

	_, err := suite.svc.GetMedia(suite.ctx, media.ID, &viewerID)

	suite.Require().NoError(err)
}

func (suite *CatalogServiceTestSuite) TestGetMedia_RecorderFailureDoesNotFailRead() {
	media := testutil.CreateTestMedia("Resilient Read", "docs", uuid.New())
	viewerID := uuid.New()
	suite.mockRepo.On("GetMedia", suite.ctx, media.ID).Return(media, nil)
	suite.mockRecorder.On("RecordOnAccess", suite.ctx, viewerID, media.ID).
		Return(errors.Internal("history store down"))

	got, err := suite.svc.GetMedia(suite.ctx, media.ID, &viewerID)

	suite.Require().NoError(err)
	suite.Equal(media.ID, got.ID)
}

func (suite *CatalogServiceTestSuite) TestUpload_DerivesAudioType() {
	suite.mockStore.On("Store", suite.ctx, mock.AnythingOfType("string"), "audio/mpeg", mock.Anything).
		Return("http://localhost:8080/static/track.mp3", nil)
	suite.mockRepo.On("CreateMedia", suite.ctx, mock.MatchedBy(func(m *models.Media) bool {
		return m.Type == models.MediaTypeAudio && m.MediaURL != ""
	})).Return(nil)

	media, err := suite.svc.Upload(suite.ctx, service.UploadInput{
		Title:       "Podcast Episode",
		Category:    "podcasts",
		Filename:    "track.mp3",
		ContentType: "audio/mpeg",
		Content:     strings.NewReader("audio bytes"),
		UploadedBy:  uuid.New(),
	})

	suite.Require().NoError(err)
	suite.Equal(models.MediaTypeAudio, media.Type)
}

func (suite *CatalogServiceTestSuite) TestUpload_MissingTitle() {
	_, err := suite.svc.Upload(suite.ctx, service.UploadInput{
		Category: "movies",
		Content:  strings.NewReader("bytes"),
	})

	suite.Require().Error(err)
	suite.True(errors.IsBadRequest(err))
	suite.mockStore.AssertNotCalled(suite.T(), "Store",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CatalogServiceTestSuite) TestUpload_CleansUpOrphanedObjectOnRecordFailure() {
	url := "http://localhost:8080/static/orphan.mp4"
	suite.mockStore.On("Store", suite.ctx, mock.Anything, "video/mp4", mock.Anything).Return(url, nil)
	suite.mockRepo.On("CreateMedia", suite.ctx, mock.Anything).Return(errors.Internal("insert failed"))
	suite.mockStore.On("Delete", suite.ctx, url).Return(nil)

	_, err := suite.svc.Upload(suite.ctx, service.UploadInput{
		Title:       "Doomed Upload",
		Category:    "movies",
		Filename:    "orphan.mp4",
		ContentType: "video/mp4",
		Content:     strings.NewReader("video bytes"),
		UploadedBy:  uuid.New(),
	})

	suite.Require().Error(err)
}

func (suite *CatalogServiceTestSuite) TestUpdate_ReplacingContentDeletesOldObject() {
	media := testutil.CreateTestMedia("Replace Me", "movies", uuid.New())
	oldURL := media.MediaURL
	newURL := "http://localhost:8080/static/replacement.mp4"

	suite.mockRepo.On("GetMedia", suite.ctx, media.ID).Return(media, nil)
	suite.mockStore.On("Store", suite.ctx, mock.Anything, "video/mp4", mock.Anything).Return(newURL, nil)
	suite.mockRepo.On("UpdateMedia", suite.ctx, mock.MatchedBy(func(m *models.Media) bool {
		return m.MediaURL == newURL
	})).Return(nil)
	suite.mockStore.On("Delete", suite.ctx, oldURL).Return(nil)

	updated, err := suite.svc.Update(suite.ctx, media.ID, service.UpdateInput{
		Filename:    "replacement.mp4",
		ContentType: "video/mp4",
		Content:     strings.NewReader("new bytes"),
	})

	suite.Require().NoError(err)
	suite.Equal(newURL, updated.MediaURL)
}

func (suite *CatalogServiceTestSuite) TestDelete_StorageFailureDoesNotFailDelete() {
	media := testutil.CreateTestMedia("Sticky Object", "movies", uuid.New())
	suite.mockRepo.On("GetMedia", suite.ctx, media.ID).Return(media, nil)
	suite.mockRepo.On("DeleteMedia", suite.ctx, media.ID).Return(nil)
	suite.mockStore.On("Delete", suite.ctx, media.MediaURL).
		Return(errors.Internal("bucket unavailable"))

	suite.Require().NoError(suite.svc.Delete(suite.ctx, media.ID))
}

func (suite *CatalogServiceTestSuite) TestSearchMedia_EmptyQuery() {
	items, err := suite.svc.SearchMedia(suite.ctx, "   ")

	suite.Require().NoError(err)
	suite.Empty(items)
	suite.mockRepo.AssertNotCalled(suite.T(), "SearchMedia", mock.Anything, mock.Anything)
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func TestParseTags(t *testing.T) {
	t.Run("repeated form values pass through", func(t *testing.T) {
		tags, err := service.ParseTags([]string{"indie", "2024"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tags) != 2 || tags[0] != "indie" {
			t.Fatalf("unexpected tags: %v", tags)
		}
	})

	t.Run("single JSON array is decoded", func(t *testing.T) {
		tags, err := service.ParseTags([]string{`["indie","2024"]`})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tags) != 2 || tags[1] != "2024" {
			t.Fatalf("unexpected tags: %v", tags)
		}
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		_, err := service.ParseTags([]string{`["unterminated`})
		if !errors.IsBadRequest(err) {
			t.Fatalf("expected bad request, got %v", err)
		}
	})
}
