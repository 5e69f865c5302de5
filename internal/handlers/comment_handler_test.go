package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
	"github.com/dkrasnov/markethub/backend/internal/services"
)

type fakeCommentRepo struct {
	comments map[uint]*models.Comment
	nextID   uint
}

var _ repositories.CommentRepository = (*fakeCommentRepo)(nil)

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uint]*models.Comment), nextID: 1}
}

func (f *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	comment.ID = f.nextID
	f.nextID++
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (f *fakeCommentRepo) UpdateComment(comment *models.Comment) error {
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) DeleteComment(id uint) error {
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) ListByTarget(targetID uint, targetType string, params repositories.CursorParams) ([]models.Comment, *uint, error) {
	var out []models.Comment
	for _, comment := range f.comments {
		if comment.TargetID == targetID && comment.TargetType == targetType {
			out = append(out, *comment)
		}
	}
	return out, nil, nil
}

func newCommentFixture() (*CommentHandler, *fakeCommentRepo, *fakeNotificationRepo) {
	comments := newFakeCommentRepo()
	notifications := newFakeNotificationRepo()
	notifier := services.NewNotifier(notifications, &fakePusher{})
	return NewCommentHandler(comments, notifier), comments, notifications
}

func commentCreateContext(t *testing.T, userID uint, target *models.Article, body string) echo.Context {
	t.Helper()
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/articles/5/comments", body)
	c.SetParamNames("id")
	c.SetParamValues("5")
	asAuthenticated(c, userID)
	withResource(c, target)
	return c
}

func TestCreateCommentNotifiesTargetOwner(t *testing.T) {
	h, comments, notifications := newCommentFixture()
	article := &models.Article{ID: 5, UserID: 1}

	c := commentCreateContext(t, 2, article, `{"content":"nice one"}`)
	require.NoError(t, h.createFor(models.TargetTypeArticle)(c))

	stored, err := comments.GetCommentByID(1)
	require.NoError(t, err)
	require.Equal(t, uint(2), stored.UserID)
	require.Equal(t, uint(5), stored.TargetID)
	require.Equal(t, models.TargetTypeArticle, stored.TargetType)

	require.Len(t, notifications.stored, 1)
	require.Equal(t, uint(1), notifications.stored[0].RecipientID)
	require.Equal(t, models.NotificationArticleComment, notifications.stored[0].Type)
	require.Equal(t, stored.ID, notifications.stored[0].EntityID)
}

func TestCreateCommentOnOwnTargetStaysSilent(t *testing.T) {
	h, _, notifications := newCommentFixture()
	article := &models.Article{ID: 5, UserID: 2}

	c := commentCreateContext(t, 2, article, `{"content":"note to self"}`)
	require.NoError(t, h.createFor(models.TargetTypeArticle)(c))
	require.Empty(t, notifications.stored)
}

func TestCreateCommentRejectsEmptyContent(t *testing.T) {
	h, _, _ := newCommentFixture()
	article := &models.Article{ID: 5, UserID: 1}

	c := commentCreateContext(t, 2, article, `{"content":""}`)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, h.createFor(models.TargetTypeArticle)(c), &verr)
}

func TestUpdateCommentRejectsNoOpChange(t *testing.T) {
	h, comments, _ := newCommentFixture()
	comment := &models.Comment{UserID: 2, TargetID: 5, TargetType: models.TargetTypeArticle, Content: "original"}
	require.NoError(t, comments.CreateComment(comment))

	c, _ := newTestContext(t, http.MethodPut, "/api/v1/comments/1", `{"content":"original"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAuthenticated(c, 2)
	withResource(c, comment)

	require.ErrorIs(t, h.UpdateComment(c), apperrors.ErrInvalidInput)
}

func TestUpdateCommentRewritesContent(t *testing.T) {
	h, comments, _ := newCommentFixture()
	comment := &models.Comment{UserID: 2, TargetID: 5, TargetType: models.TargetTypeArticle, Content: "original"}
	require.NoError(t, comments.CreateComment(comment))

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/comments/1", `{"content":"edited"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAuthenticated(c, 2)
	withResource(c, comment)

	require.NoError(t, h.UpdateComment(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := comments.GetCommentByID(comment.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", stored.Content)
}
