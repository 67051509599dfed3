package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/omprakashthakur/contenthub/internal/domain"
	"github.com/omprakashthakur/contenthub/internal/service/mocks"
)

type ContentServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	content   *mocks.MockContentStore
	txManager *mocks.MockTransactionManager
	publisher *mocks.MockPublisher
	vlogCache *mocks.MockVlogCache

	service *ContentService
}

func (s *ContentServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.content = mocks.NewMockContentStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.vlogCache = mocks.NewMockVlogCache(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewContentService(s.content, s.txManager, s.publisher, s.vlogCache, logger, time.Second)
}

func (s *ContentServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestContentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ContentServiceTestSuite))
}

func validInput() ContentInput {
	return ContentInput{
		Title:    "Monsoon in Pokhara",
		URL:      "https://img/pokhara.jpg",
		Category: "travel",
		Tags:     []string{"nepal", "monsoon"},
	}
}

func (s *ContentServiceTestSuite) TestCreate_AssignsNativeID() {
	ctx := context.Background()

	var inserted *domain.ContentRecord
	s.content.EXPECT().Insert(ctx, domain.KindPhoto, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.Kind, rec *domain.ContentRecord) error {
			inserted = rec
			return nil
		},
	)
	s.publisher.EXPECT().Publish(ctx, "create", gomock.Any()).Return(nil)

	record, err := s.service.Create(ctx, domain.KindPhoto, validInput())

	s.NoError(err)
	s.True(strings.HasPrefix(record.ID, "native-"))
	s.Equal(domain.SourceNative, record.Source)
	s.Equal(inserted.ID, record.ID)
	s.Equal("Monsoon in Pokhara", record.Alt, "alt falls back to title")
}

func (s *ContentServiceTestSuite) TestCreate_RejectsInvalidInput() {
	ctx := context.Background()

	_, err := s.service.Create(ctx, domain.KindPhoto, ContentInput{Title: "no url"})

	var verr *domain.ValidationError
	s.ErrorAs(err, &verr)
	s.Equal("URL", verr.Fields[0].Field)
}

func (s *ContentServiceTestSuite) TestUpdate_PreservesIdentityFields() {
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
	s.content.EXPECT().Get(ctx, domain.KindVlog, "youtube-v1").Return(&domain.ContentRecord{
		ID:        "youtube-v1",
		Source:    domain.SourceYouTube,
		CreatedAt: created,
	}, nil)

	var updated *domain.ContentRecord
	s.content.EXPECT().Update(ctx, domain.KindVlog, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.Kind, rec *domain.ContentRecord) error {
			updated = rec
			return nil
		},
	)
	s.publisher.EXPECT().Publish(ctx, "update", gomock.Any()).Return(nil)

	record, err := s.service.Update(ctx, domain.KindVlog, "youtube-v1", validInput())

	s.NoError(err)
	s.Equal("youtube-v1", record.ID)
	s.Equal(domain.SourceYouTube, record.Source)
	s.Equal(created, record.CreatedAt)
	s.Equal("Monsoon in Pokhara", updated.Title)
}

func (s *ContentServiceTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()

	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
	s.content.EXPECT().Get(ctx, domain.KindPost, "missing").Return(nil, domain.ErrNotFound)

	_, err := s.service.Update(ctx, domain.KindPost, "missing", validInput())

	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ContentServiceTestSuite) TestDelete_PublishesEvent() {
	ctx := context.Background()

	record := &domain.ContentRecord{ID: "native-1"}
	s.content.EXPECT().Get(ctx, domain.KindPost, "native-1").Return(record, nil)
	s.content.EXPECT().Delete(ctx, domain.KindPost, "native-1").Return(nil)
	s.publisher.EXPECT().Publish(ctx, "delete", record).Return(nil)

	s.NoError(s.service.Delete(ctx, domain.KindPost, "native-1"))
}

func (s *ContentServiceTestSuite) TestList_VlogFallsBackToCache() {
	ctx := context.Background()
	cached := []domain.ContentRecord{{ID: "youtube-v1", Title: "Cached"}}

	s.content.EXPECT().List(gomock.Any(), domain.KindVlog).Return(nil, errors.New("timeout"))
	s.vlogCache.EXPECT().Get(ctx).Return(cached, nil)

	records, err := s.service.List(ctx, domain.KindVlog)

	s.NoError(err)
	s.Equal(cached, records)
}

func (s *ContentServiceTestSuite) TestList_VlogRefreshesCache() {
	ctx := context.Background()
	fresh := []domain.ContentRecord{{ID: "youtube-v2", Title: "Fresh"}}

	s.content.EXPECT().List(gomock.Any(), domain.KindVlog).Return(fresh, nil)
	s.vlogCache.EXPECT().Put(ctx, fresh).Return(nil)

	records, err := s.service.List(ctx, domain.KindVlog)

	s.NoError(err)
	s.Equal(fresh, records)
}

func (s *ContentServiceTestSuite) TestList_VlogErrorWhenCacheEmpty() {
	ctx := context.Background()

	s.content.EXPECT().List(gomock.Any(), domain.KindVlog).Return(nil, errors.New("down"))
	s.vlogCache.EXPECT().Get(ctx).Return(nil, nil)

	_, err := s.service.List(ctx, domain.KindVlog)

	s.Error(err)
}

func (s *ContentServiceTestSuite) TestList_OtherKindsBypassCache() {
	ctx := context.Background()
	posts := []domain.ContentRecord{{ID: "native-p1"}}

	s.content.EXPECT().List(ctx, domain.KindPost).Return(posts, nil)

	records, err := s.service.List(ctx, domain.KindPost)

	s.NoError(err)
	s.Equal(posts, records)
}
