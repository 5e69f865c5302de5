package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
	"github.com/dkrasnov/markethub/backend/validators"
)

// newTestContext builds an echo context with the app validator installed
// and a JSON body when one is given.
func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asAuthenticated(c echo.Context, userID uint) {
	c.Set("user_id", userID)
}

func withResource(c echo.Context, resource any) {
	c.Set("resource", resource)
}

// --- fakes ---

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

type likeKey struct {
	userID     uint
	targetID   uint
	targetType string
}

type fakeLikeRepo struct {
	likes  map[likeKey]bool
	nextID uint
}

var _ repositories.LikeRepository = (*fakeLikeRepo)(nil)

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]bool), nextID: 1}
}

func (f *fakeLikeRepo) Toggle(userID, targetID uint, targetType string) (*models.Like, bool, error) {
	key := likeKey{userID, targetID, targetType}
	if f.likes[key] {
		delete(f.likes, key)
		return nil, false, nil
	}
	f.likes[key] = true
	like := &models.Like{ID: f.nextID, UserID: userID, TargetID: targetID, TargetType: targetType}
	f.nextID++
	return like, true, nil
}

func (f *fakeLikeRepo) LikerIDs(targetID uint, targetType string) ([]uint, error) {
	var ids []uint
	for key := range f.likes {
		if key.targetID == targetID && key.targetType == targetType {
			ids = append(ids, key.userID)
		}
	}
	return ids, nil
}

func (f *fakeLikeRepo) LikedSet(userID uint, targetType string, targetIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	for _, id := range targetIDs {
		if f.likes[likeKey{userID, id, targetType}] {
			liked[id] = true
		}
	}
	return liked, nil
}

func (f *fakeLikeRepo) CountByTarget(targetID uint, targetType string) (int64, error) {
	var count int64
	for key := range f.likes {
		if key.targetID == targetID && key.targetType == targetType {
			count++
		}
	}
	return count, nil
}

func (f *fakeLikeRepo) HasUserLiked(userID, targetID uint, targetType string) (bool, error) {
	return f.likes[likeKey{userID, targetID, targetType}], nil
}

type fakeNotificationRepo struct {
	stored []models.Notification
	nextID uint
}

var _ repositories.NotificationRepository = (*fakeNotificationRepo)(nil)

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	n.ID = f.nextID
	f.nextID++
	f.stored = append(f.stored, *n)
	return nil
}

func (f *fakeNotificationRepo) CreateNotifications(ns []models.Notification) error {
	for i := range ns {
		ns[i].ID = f.nextID
		f.nextID++
		f.stored = append(f.stored, ns[i])
	}
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(recipientID uint, params repositories.CursorParams) ([]models.Notification, *uint, error) {
	var out []models.Notification
	for i := len(f.stored) - 1; i >= 0; i-- {
		if f.stored[i].RecipientID == recipientID {
			out = append(out, f.stored[i])
		}
	}
	return out, nil, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range f.stored {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	for i, n := range f.stored {
		if n.ID == notificationID && n.RecipientID == recipientID {
			f.stored[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) (int64, error) {
	var updated int64
	for i, n := range f.stored {
		if n.RecipientID == recipientID && !n.IsRead {
			f.stored[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

type pushedEvent struct {
	userID uint
	event  string
	data   any
}

type fakePusher struct {
	pushed []pushedEvent
}

func (f *fakePusher) Push(userID uint, event string, data any) error {
	f.pushed = append(f.pushed, pushedEvent{userID, event, data})
	return nil
}

type fakeUploadRepo struct {
	uploads map[uint]*models.Upload
	nextID  uint
}

var _ repositories.UploadRepository = (*fakeUploadRepo)(nil)

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{uploads: make(map[uint]*models.Upload), nextID: 1}
}

func (f *fakeUploadRepo) CreateUpload(upload *models.Upload) error {
	upload.ID = f.nextID
	f.nextID++
	f.uploads[upload.ID] = upload
	return nil
}

func (f *fakeUploadRepo) GetUploadByKey(key string) (*models.Upload, error) {
	for _, u := range f.uploads {
		if u.Key == key {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUploadRepo) GetUploadByURL(url string) (*models.Upload, error) {
	for _, u := range f.uploads {
		if u.URL == url {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUploadRepo) MarkAttached(id uint) error {
	u, ok := f.uploads[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = models.UploadStatusAttached
	return nil
}

func (f *fakeUploadRepo) ListOrphans(time.Time) ([]models.Upload, error) {
	var orphans []models.Upload
	for _, u := range f.uploads {
		if u.Status == models.UploadStatusPending {
			orphans = append(orphans, *u)
		}
	}
	return orphans, nil
}

func (f *fakeUploadRepo) DeleteUpload(id uint) error {
	delete(f.uploads, id)
	return nil
}

type fakeProductRepo struct {
	products map[uint]*models.Product
	nextID   uint
}

var _ repositories.ProductRepository = (*fakeProductRepo)(nil)

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*models.Product), nextID: 1}
}

func (f *fakeProductRepo) CreateProduct(p *models.Product) error {
	p.ID = f.nextID
	f.nextID++
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetProductByID(id uint) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) UpdateProduct(p *models.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) DeleteProduct(id uint) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) ListProducts(params repositories.OffsetParams) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}
