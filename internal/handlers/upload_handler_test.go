package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/services"
	"github.com/dkrasnov/markethub/backend/internal/token"
)

func seedPendingUpload(t *testing.T, uploads *fakeUploadRepo, userID uint, url string) *models.Upload {
	t.Helper()
	upload := &models.Upload{
		UserID: userID,
		Key:    "uploads/1/a.jpg",
		URL:    url,
		Status: models.UploadStatusPending,
	}
	require.NoError(t, uploads.CreateUpload(upload))
	return upload
}

func TestCreateArticleAttachesReferencedUpload(t *testing.T) {
	articles := newFakeArticleRepo()
	uploads := newFakeUploadRepo()
	h := NewArticleHandler(articles, newFakeLikeRepo(), uploads)

	url := "https://cdn.example.com/markethub/uploads/1/a.jpg"
	upload := seedPendingUpload(t, uploads, 1, url)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/articles",
		`{"title":"a","content":"x","image_url":"`+url+`"}`)
	asAuthenticated(c, 1)
	require.NoError(t, h.CreateArticle(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	stored, err := uploads.GetUploadByKey(upload.Key)
	require.NoError(t, err)
	require.Equal(t, models.UploadStatusAttached, stored.Status)

	// An attached upload is no longer a sweep candidate.
	orphans, err := uploads.ListOrphans(time.Now())
	require.NoError(t, err)
	require.Empty(t, orphans)
}

func TestUpdateArticleAttachesNewImageUpload(t *testing.T) {
	articles := newFakeArticleRepo()
	uploads := newFakeUploadRepo()
	h := NewArticleHandler(articles, newFakeLikeRepo(), uploads)

	article := &models.Article{UserID: 1, Title: "a", Content: "x"}
	require.NoError(t, articles.CreateArticle(article))

	url := "https://cdn.example.com/markethub/uploads/1/a.jpg"
	upload := seedPendingUpload(t, uploads, 1, url)

	c, _ := newTestContext(t, http.MethodPut, "/api/v1/articles/1",
		`{"image_url":"`+url+`"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAuthenticated(c, 1)
	withResource(c, article)
	require.NoError(t, h.UpdateArticle(c))

	stored, err := uploads.GetUploadByKey(upload.Key)
	require.NoError(t, err)
	require.Equal(t, models.UploadStatusAttached, stored.Status)
}

func TestUpdateProductAttachesNewImageUpload(t *testing.T) {
	products := newFakeProductRepo()
	uploads := newFakeUploadRepo()
	notifier := services.NewNotifier(newFakeNotificationRepo(), &fakePusher{})
	h := NewProductHandler(products, newFakeLikeRepo(), uploads, notifier)

	product := &models.Product{UserID: 1, Title: "Lamp", Content: "desc", Price: 100}
	require.NoError(t, products.CreateProduct(product))

	url := "https://cdn.example.com/markethub/uploads/1/a.jpg"
	upload := seedPendingUpload(t, uploads, 1, url)

	c := productUpdateContext(t, 1, product, `{"image_url":"`+url+`"}`)
	require.NoError(t, h.UpdateProduct(c))

	stored, err := uploads.GetUploadByKey(upload.Key)
	require.NoError(t, err)
	require.Equal(t, models.UploadStatusAttached, stored.Status)
}

func TestUpdateMeAttachesAvatarUpload(t *testing.T) {
	users := newFakeUserRepo()
	uploads := newFakeUploadRepo()
	tokens := token.NewService("test-secret", time.Hour, 24*time.Hour)
	h := NewAuthHandler(users, uploads, tokens)

	user := &models.User{Name: "Alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, users.CreateUser(user))

	url := "https://cdn.example.com/markethub/uploads/1/a.jpg"
	upload := seedPendingUpload(t, uploads, user.ID, url)

	c, _ := newTestContext(t, http.MethodPut, "/api/v1/auth/me",
		`{"avatar_url":"`+url+`"}`)
	asAuthenticated(c, user.ID)
	require.NoError(t, h.UpdateMe(c))

	stored, err := uploads.GetUploadByKey(upload.Key)
	require.NoError(t, err)
	require.Equal(t, models.UploadStatusAttached, stored.Status)
}

func TestMarkUploadAttachedIgnoresForeignURL(t *testing.T) {
	uploads := newFakeUploadRepo()
	seedPendingUpload(t, uploads, 1, "https://cdn.example.com/markethub/uploads/1/a.jpg")

	// A URL not minted by the upload bridge resolves to no row.
	require.NoError(t, markUploadAttached(uploads, "https://elsewhere.example.com/pic.png"))

	orphans, err := uploads.ListOrphans(time.Now())
	require.NoError(t, err)
	require.Len(t, orphans, 1)
}

func TestMarkUploadAttachedIsIdempotent(t *testing.T) {
	uploads := newFakeUploadRepo()
	upload := seedPendingUpload(t, uploads, 1, "https://cdn.example.com/markethub/uploads/1/a.jpg")

	require.NoError(t, markUploadAttached(uploads, upload.URL))
	require.NoError(t, markUploadAttached(uploads, upload.URL))

	stored, err := uploads.GetUploadByKey(upload.Key)
	require.NoError(t, err)
	require.Equal(t, models.UploadStatusAttached, stored.Status)
}
