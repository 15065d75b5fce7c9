package service

import (
	"context"
	"testing"
	"time"

	"mafather/internal/models"
	"mafather/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	existsFn         func(context.Context, uuid.UUID, models.LikeTarget) (bool, error)
	addFn            func(context.Context, uuid.UUID, models.LikeTarget) error
	removeFn         func(context.Context, uuid.UUID, models.LikeTarget) error
	countForTargetFn func(context.Context, models.LikeTarget) (int64, error)
	likedPostIDsFn   func(context.Context, uuid.UUID, []uuid.UUID) ([]uuid.UUID, error)
}

func (s *likeRepoStub) Exists(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (bool, error) {
	return s.existsFn(ctx, userID, target)
}
func (s *likeRepoStub) Add(ctx context.Context, userID uuid.UUID, target models.LikeTarget) error {
	return s.addFn(ctx, userID, target)
}
func (s *likeRepoStub) Remove(ctx context.Context, userID uuid.UUID, target models.LikeTarget) error {
	return s.removeFn(ctx, userID, target)
}
func (s *likeRepoStub) CountForTarget(ctx context.Context, target models.LikeTarget) (int64, error) {
	return s.countForTargetFn(ctx, target)
}
func (s *likeRepoStub) LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) ([]uuid.UUID, error) {
	return s.likedPostIDsFn(ctx, userID, postIDs)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		existsFn:         func(context.Context, uuid.UUID, models.LikeTarget) (bool, error) { return false, nil },
		addFn:            func(context.Context, uuid.UUID, models.LikeTarget) error { return nil },
		removeFn:         func(context.Context, uuid.UUID, models.LikeTarget) error { return nil },
		countForTargetFn: func(context.Context, models.LikeTarget) (int64, error) { return 0, nil },
		likedPostIDsFn: func(context.Context, uuid.UUID, []uuid.UUID) ([]uuid.UUID, error) {
			return nil, nil
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn             func(context.Context, *models.Post) error
	getByIDFn            func(context.Context, uuid.UUID) (*models.Post, error)
	listFn               func(context.Context, repository.ListPostsQuery) ([]*models.Post, int64, error)
	updateFn             func(context.Context, *models.Post) error
	softDeleteFn         func(context.Context, uuid.UUID) error
	incrementViewCountFn func(context.Context, uuid.UUID) error
	setSolvedFn          func(context.Context, uuid.UUID, bool) error
	syncLikeCountFn      func(context.Context, uuid.UUID) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, q repository.ListPostsQuery) ([]*models.Post, int64, error) {
	return s.listFn(ctx, q)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.softDeleteFn(ctx, id)
}
func (s *postRepoStub) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return s.incrementViewCountFn(ctx, id)
}
func (s *postRepoStub) SetSolved(ctx context.Context, id uuid.UUID, solved bool) error {
	return s.setSolvedFn(ctx, id, solved)
}
func (s *postRepoStub) SyncLikeCount(ctx context.Context, id uuid.UUID) error {
	return s.syncLikeCountFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		listFn: func(context.Context, repository.ListPostsQuery) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:             func(context.Context, *models.Post) error { return nil },
		softDeleteFn:         func(context.Context, uuid.UUID) error { return nil },
		incrementViewCountFn: func(context.Context, uuid.UUID) error { return nil },
		setSolvedFn:          func(context.Context, uuid.UUID, bool) error { return nil },
		syncLikeCountFn:      func(context.Context, uuid.UUID) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn         func(context.Context, *models.Comment) error
	getByIDFn        func(context.Context, uuid.UUID) (*models.Comment, error)
	getWithRepliesFn func(context.Context, uuid.UUID) (*models.Comment, error)
	listByPostFn     func(context.Context, uuid.UUID) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	softDeleteFn func(context.Context, uuid.UUID, uuid.UUID) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetWithReplies(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.getWithRepliesFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) SoftDelete(ctx context.Context, id, postID uuid.UUID) error {
	return s.softDeleteFn(ctx, id, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		getWithRepliesFn: func(_ context.Context, id uuid.UUID) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(context.Context, uuid.UUID) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(context.Context, *models.Comment) error { return nil },
		softDeleteFn: func(context.Context, uuid.UUID, uuid.UUID) error { return nil },
	}
}

// chatRepoStub is a stub for repository.ChatRepository.
type chatRepoStub struct {
	createSessionFn func(context.Context, *models.ChatSession) error
	getSessionFn    func(context.Context, uuid.UUID) (*models.ChatSession, error)
	listSessionsFn  func(context.Context, uuid.UUID, string, int, int) ([]*models.ChatSession, int64, error)
	updateSessionFn func(context.Context, *models.ChatSession) error
	softDeleteFn    func(context.Context, uuid.UUID) error
	appendMessageFn func(context.Context, *models.ChatMessage) error
	listMessagesFn  func(context.Context, uuid.UUID) ([]*models.ChatMessage, error)
	statsFn         func(context.Context, uuid.UUID) (*repository.ChatStats, error)
}

func (s *chatRepoStub) CreateSession(ctx context.Context, session *models.ChatSession) error {
	return s.createSessionFn(ctx, session)
}
func (s *chatRepoStub) GetSession(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	return s.getSessionFn(ctx, id)
}
func (s *chatRepoStub) ListSessions(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*models.ChatSession, int64, error) {
	return s.listSessionsFn(ctx, userID, status, limit, offset)
}
func (s *chatRepoStub) UpdateSession(ctx context.Context, session *models.ChatSession) error {
	return s.updateSessionFn(ctx, session)
}
func (s *chatRepoStub) SoftDeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.softDeleteFn(ctx, id)
}
func (s *chatRepoStub) AppendMessage(ctx context.Context, message *models.ChatMessage) error {
	return s.appendMessageFn(ctx, message)
}
func (s *chatRepoStub) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]*models.ChatMessage, error) {
	return s.listMessagesFn(ctx, sessionID)
}
func (s *chatRepoStub) Stats(ctx context.Context, userID uuid.UUID) (*repository.ChatStats, error) {
	return s.statsFn(ctx, userID)
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		createSessionFn: func(context.Context, *models.ChatSession) error { return nil },
		getSessionFn: func(_ context.Context, id uuid.UUID) (*models.ChatSession, error) {
			return &models.ChatSession{ID: id, Status: models.ChatStatusActive}, nil
		},
		listSessionsFn: func(context.Context, uuid.UUID, string, int, int) ([]*models.ChatSession, int64, error) {
			return nil, 0, nil
		},
		updateSessionFn: func(context.Context, *models.ChatSession) error { return nil },
		softDeleteFn:    func(context.Context, uuid.UUID) error { return nil },
		appendMessageFn: func(context.Context, *models.ChatMessage) error { return nil },
		listMessagesFn:  func(context.Context, uuid.UUID) ([]*models.ChatMessage, error) { return nil, nil },
		statsFn: func(context.Context, uuid.UUID) (*repository.ChatStats, error) {
			return &repository.ChatStats{}, nil
		},
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn     func(context.Context, *models.Category) error
	getByIDFn    func(context.Context, uuid.UUID) (*models.Category, error)
	listActiveFn func(context.Context, string) ([]*models.Category, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) ListActive(ctx context.Context, postType string) ([]*models.Category, error) {
	return s.listActiveFn(ctx, postType)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(context.Context, *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Category, error) {
			return &models.Category{ID: id, IsActive: true}, nil
		},
		listActiveFn: func(context.Context, string) ([]*models.Category, error) { return nil, nil },
	}
}

// searchLogRepoStub is a stub for repository.SearchLogRepository.
type searchLogRepoStub struct {
	createFn         func(context.Context, *models.SearchLog) error
	popularQueriesFn func(context.Context, time.Time, int) ([]repository.PopularQuery, error)
}

func (s *searchLogRepoStub) Create(ctx context.Context, log *models.SearchLog) error {
	return s.createFn(ctx, log)
}
func (s *searchLogRepoStub) PopularQueries(ctx context.Context, since time.Time, limit int) ([]repository.PopularQuery, error) {
	return s.popularQueriesFn(ctx, since, limit)
}

func noopSearchLogRepo() *searchLogRepoStub {
	return &searchLogRepoStub{
		createFn: func(context.Context, *models.SearchLog) error { return nil },
		popularQueriesFn: func(context.Context, time.Time, int) ([]repository.PopularQuery, error) {
			return nil, nil
		},
	}
}

// childRepoStub is a stub for repository.ChildRepository.
type childRepoStub struct {
	createFn     func(context.Context, *models.UserChild) error
	getByIDFn    func(context.Context, uuid.UUID) (*models.UserChild, error)
	listByUserFn func(context.Context, uuid.UUID) ([]*models.UserChild, error)
	updateFn     func(context.Context, *models.UserChild) error
	deleteFn     func(context.Context, uuid.UUID) error
}

func (s *childRepoStub) Create(ctx context.Context, child *models.UserChild) error {
	return s.createFn(ctx, child)
}
func (s *childRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.UserChild, error) {
	return s.getByIDFn(ctx, id)
}
func (s *childRepoStub) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserChild, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *childRepoStub) Update(ctx context.Context, child *models.UserChild) error {
	return s.updateFn(ctx, child)
}
func (s *childRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func noopChildRepo() *childRepoStub {
	return &childRepoStub{
		createFn: func(context.Context, *models.UserChild) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.UserChild, error) {
			return &models.UserChild{ID: id}, nil
		},
		listByUserFn: func(context.Context, uuid.UUID) ([]*models.UserChild, error) { return nil, nil },
		updateFn:     func(context.Context, *models.UserChild) error { return nil },
		deleteFn:     func(context.Context, uuid.UUID) error { return nil },
	}
}

// developmentRepoStub is a stub for repository.DevelopmentRepository.
type developmentRepoStub struct {
	createRecordFn        func(context.Context, *models.DevelopmentRecord) error
	getRecordFn           func(context.Context, uuid.UUID) (*models.DevelopmentRecord, error)
	listRecordsFn         func(context.Context, repository.ListRecordsQuery) ([]*models.DevelopmentRecord, int64, error)
	updateRecordFn        func(context.Context, *models.DevelopmentRecord) error
	deleteRecordFn        func(context.Context, uuid.UUID) error
	listMilestonesFn      func(context.Context, string, string) ([]*models.DevelopmentMilestone, error)
	getMilestoneFn        func(context.Context, uuid.UUID) (*models.DevelopmentMilestone, error)
	createMilestoneFn     func(context.Context, *models.DevelopmentMilestone) error
	achieveMilestoneFn    func(context.Context, *models.ChildMilestone) error
	unachieveMilestoneFn  func(context.Context, uuid.UUID, uuid.UUID) error
	listChildMilestonesFn func(context.Context, uuid.UUID) ([]*models.ChildMilestone, error)
}

func (s *developmentRepoStub) CreateRecord(ctx context.Context, record *models.DevelopmentRecord) error {
	return s.createRecordFn(ctx, record)
}
func (s *developmentRepoStub) GetRecord(ctx context.Context, id uuid.UUID) (*models.DevelopmentRecord, error) {
	return s.getRecordFn(ctx, id)
}
func (s *developmentRepoStub) ListRecords(ctx context.Context, q repository.ListRecordsQuery) ([]*models.DevelopmentRecord, int64, error) {
	return s.listRecordsFn(ctx, q)
}
func (s *developmentRepoStub) UpdateRecord(ctx context.Context, record *models.DevelopmentRecord) error {
	return s.updateRecordFn(ctx, record)
}
func (s *developmentRepoStub) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.deleteRecordFn(ctx, id)
}
func (s *developmentRepoStub) ListMilestones(ctx context.Context, ageGroup, area string) ([]*models.DevelopmentMilestone, error) {
	return s.listMilestonesFn(ctx, ageGroup, area)
}
func (s *developmentRepoStub) GetMilestone(ctx context.Context, id uuid.UUID) (*models.DevelopmentMilestone, error) {
	return s.getMilestoneFn(ctx, id)
}
func (s *developmentRepoStub) CreateMilestone(ctx context.Context, milestone *models.DevelopmentMilestone) error {
	return s.createMilestoneFn(ctx, milestone)
}
func (s *developmentRepoStub) AchieveMilestone(ctx context.Context, achievement *models.ChildMilestone) error {
	return s.achieveMilestoneFn(ctx, achievement)
}
func (s *developmentRepoStub) UnachieveMilestone(ctx context.Context, childID, milestoneID uuid.UUID) error {
	return s.unachieveMilestoneFn(ctx, childID, milestoneID)
}
func (s *developmentRepoStub) ListChildMilestones(ctx context.Context, childID uuid.UUID) ([]*models.ChildMilestone, error) {
	return s.listChildMilestonesFn(ctx, childID)
}

func noopDevelopmentRepo() *developmentRepoStub {
	return &developmentRepoStub{
		createRecordFn: func(context.Context, *models.DevelopmentRecord) error { return nil },
		getRecordFn: func(_ context.Context, id uuid.UUID) (*models.DevelopmentRecord, error) {
			return &models.DevelopmentRecord{ID: id}, nil
		},
		listRecordsFn: func(context.Context, repository.ListRecordsQuery) ([]*models.DevelopmentRecord, int64, error) {
			return nil, 0, nil
		},
		updateRecordFn: func(context.Context, *models.DevelopmentRecord) error { return nil },
		deleteRecordFn: func(context.Context, uuid.UUID) error { return nil },
		listMilestonesFn: func(context.Context, string, string) ([]*models.DevelopmentMilestone, error) {
			return nil, nil
		},
		getMilestoneFn: func(_ context.Context, id uuid.UUID) (*models.DevelopmentMilestone, error) {
			return &models.DevelopmentMilestone{ID: id}, nil
		},
		createMilestoneFn:    func(context.Context, *models.DevelopmentMilestone) error { return nil },
		achieveMilestoneFn:   func(context.Context, *models.ChildMilestone) error { return nil },
		unachieveMilestoneFn: func(context.Context, uuid.UUID, uuid.UUID) error { return nil },
		listChildMilestonesFn: func(context.Context, uuid.UUID) ([]*models.ChildMilestone, error) {
			return nil, nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn          func(context.Context, *models.User) error
	getByIDFn         func(context.Context, uuid.UUID) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	updateFn          func(context.Context, *models.User) error
	updateLastLoginFn func(context.Context, uuid.UUID, time.Time) error
	deactivateFn      func(context.Context, uuid.UUID) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateLastLoginFn(ctx, id, at)
}
func (s *userRepoStub) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.deactivateFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(context.Context, *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn: func(context.Context, string) (*models.User, error) {
			return nil, models.NewNotFoundError("user")
		},
		updateFn:          func(context.Context, *models.User) error { return nil },
		updateLastLoginFn: func(context.Context, uuid.UUID, time.Time) error { return nil },
		deactivateFn:      func(context.Context, uuid.UUID) error { return nil },
	}
}

// sessionRepoStub is a stub for repository.SessionRepository.
type sessionRepoStub struct {
	createFn        func(context.Context, *models.Session) error
	getByTokenFn    func(context.Context, string) (*models.Session, error)
	deleteFn        func(context.Context, string) error
	deleteForUserFn func(context.Context, uuid.UUID) error
	deleteExpiredFn func(context.Context, time.Time) (int64, error)
}

func (s *sessionRepoStub) Create(ctx context.Context, session *models.Session) error {
	return s.createFn(ctx, session)
}
func (s *sessionRepoStub) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	return s.getByTokenFn(ctx, token)
}
func (s *sessionRepoStub) Delete(ctx context.Context, token string) error {
	return s.deleteFn(ctx, token)
}
func (s *sessionRepoStub) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	return s.deleteForUserFn(ctx, userID)
}
func (s *sessionRepoStub) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.deleteExpiredFn(ctx, now)
}

func noopSessionRepo() *sessionRepoStub {
	return &sessionRepoStub{
		createFn: func(context.Context, *models.Session) error { return nil },
		getByTokenFn: func(context.Context, string) (*models.Session, error) {
			return nil, models.NewNotFoundError("session")
		},
		deleteFn:        func(context.Context, string) error { return nil },
		deleteForUserFn: func(context.Context, uuid.UUID) error { return nil },
		deleteExpiredFn: func(context.Context, time.Time) (int64, error) { return 0, nil },
	}
}
