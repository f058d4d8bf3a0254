package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawtracker/pet-care-api/models"
	"github.com/pawtracker/pet-care-api/repository"
	"github.com/pawtracker/pet-care-api/uploads"
)

const testSecret = "test-secret"

// jpegHeader is enough for content-type sniffing to see image/jpeg.
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

type fakeAds struct {
	mu        sync.Mutex
	ads       map[primitive.ObjectID]*models.Advertisement
	updateErr error
}

func newFakeAds() *fakeAds {
	return &fakeAds{ads: map[primitive.ObjectID]*models.Advertisement{}}
}

func (f *fakeAds) Create(_ context.Context, ad *models.Advertisement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ad.ID = primitive.NewObjectID()
	copied := *ad
	f.ads[ad.ID] = &copied
	return nil
}

func (f *fakeAds) All(_ context.Context) ([]models.Advertisement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Advertisement
	for _, ad := range f.ads {
		out = append(out, *ad)
	}
	return out, nil
}

func (f *fakeAds) ByID(_ context.Context, id primitive.ObjectID) (*models.Advertisement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ad, ok := f.ads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *ad
	return &copied, nil
}

func (f *fakeAds) ByEmail(_ context.Context, email string) ([]models.Advertisement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Advertisement
	for _, ad := range f.ads {
		if ad.Email == email {
			out = append(out, *ad)
		}
	}
	return out, nil
}

func (f *fakeAds) Update(_ context.Context, id primitive.ObjectID, upd models.AdvertisementUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	ad, ok := f.ads[id]
	if !ok {
		return repository.ErrNotFound
	}
	ad.Name = upd.Name
	ad.Email = upd.Email
	ad.ContactNumber = upd.ContactNumber
	ad.AdvertisementType = upd.AdvertisementType
	ad.PetType = upd.PetType
	ad.Heading = upd.Heading
	ad.Description = upd.Description
	if upd.Photo != "" {
		ad.Photo = upd.Photo
	}
	return nil
}

func (f *fakeAds) SetStatus(_ context.Context, id primitive.ObjectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ad, ok := f.ads[id]
	if !ok {
		return repository.ErrNotFound
	}
	ad.Status = status
	return nil
}

func (f *fakeAds) SetPaymentStatus(_ context.Context, id primitive.ObjectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ad, ok := f.ads[id]
	if !ok {
		return repository.ErrNotFound
	}
	ad.PaymentStatus = status
	return nil
}

func (f *fakeAds) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.ads, id)
	return nil
}

type fakePayments struct {
	mu       sync.Mutex
	payments map[primitive.ObjectID]*models.Payment
	ads      *fakeAds
}

func newFakePayments(ads *fakeAds) *fakePayments {
	return &fakePayments{payments: map[primitive.ObjectID]*models.Payment{}, ads: ads}
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	copied := *p
	f.payments[p.ID] = &copied
	return nil
}

func (f *fakePayments) All(_ context.Context) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePayments) ByID(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePayments) ByEmail(_ context.Context, email string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.Email == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayments) Confirm(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	p, ok := f.payments[id]
	if !ok {
		f.mu.Unlock()
		return repository.ErrNotFound
	}
	p.Status = models.PaymentPaid
	adID := p.AdvertisementID
	f.mu.Unlock()

	if adID != nil {
		return f.ads.SetPaymentStatus(ctx, *adID, models.PaymentPaid)
	}
	return nil
}

type fakeAppointments struct {
	mu           sync.Mutex
	appointments map[primitive.ObjectID]*models.Appointment
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{appointments: map[primitive.ObjectID]*models.Appointment{}}
}

func (f *fakeAppointments) Create(_ context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = primitive.NewObjectID()
	copied := *a
	f.appointments[a.ID] = &copied
	return nil
}

func (f *fakeAppointments) All(_ context.Context) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appointments {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAppointments) ByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAppointments) ByEmail(_ context.Context, email string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.Email == email {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) Update(_ context.Context, id primitive.ObjectID, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	current.Name = a.Name
	current.Email = a.Email
	current.ContactNumber = a.ContactNumber
	current.Service = a.Service
	current.Date = a.Date
	current.Notes = a.Notes
	return nil
}

func (f *fakeAppointments) SetStatus(_ context.Context, id primitive.ObjectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAppointments) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.appointments, id)
	return nil
}

type fakeNotifications struct {
	mu      sync.Mutex
	entries []models.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = primitive.NewObjectID()
	f.entries = append(f.entries, *n)
	return nil
}

func (f *fakeNotifications) ByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			copied := f.entries[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeNotifications) ByEmail(_ context.Context, email string) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.entries {
		if n.Email == email {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].Email == email {
			f.entries[i].IsRead = true
		}
	}
	return nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = primitive.NewObjectID()
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) ByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == identifier || u.Username == identifier {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) All(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

type captureMailer struct {
	mu   sync.Mutex
	last string
}

func (m *captureMailer) SendOTP(_ context.Context, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = code
	return nil
}

func (m *captureMailer) lastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

type testEnv struct {
	app           *fiber.App
	ads           *fakeAds
	payments      *fakePayments
	appointments  *fakeAppointments
	notifications *fakeNotifications
	users         *fakeUsers
	mail          *captureMailer
	uploadDir     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	store, err := uploads.NewStore(dir)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	ads := newFakeAds()
	payments := newFakePayments(ads)
	appointments := newFakeAppointments()
	notifications := &fakeNotifications{}
	users := newFakeUsers()
	mail := &captureMailer{}

	h := &Handler{
		Ads:           ads,
		Appointments:  appointments,
		Payments:      payments,
		Notifications: notifications,
		Users:         users,
		Uploads:       store,
		Mail:          mail,
		Log:           log,
		JWTSecret:     testSecret,
	}

	app := fiber.New(fiber.Config{BodyLimit: 10 << 20})
	h.RegisterRoutes(app)

	return &testEnv{
		app:           app,
		ads:           ads,
		payments:      payments,
		appointments:  appointments,
		notifications: notifications,
		users:         users,
		mail:          mail,
		uploadDir:     dir,
	}
}

func token(t *testing.T, email string, isAdmin bool) string {
	t.Helper()
	tok := jwt.New(jwt.SigningMethodHS256)
	claims := tok.Claims.(jwt.MapClaims)
	claims["email"] = email
	claims["isAdmin"] = isAdmin
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

// adForm builds a multipart advertisement submission. A nil photo omits the
// file part entirely.
func adForm(t *testing.T, fields map[string]string, photoName string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if photo != nil {
		part, err := writer.CreateFormFile("photo", photoName)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func janeFields() map[string]string {
	return map[string]string{
		"name":              "Jane Doe",
		"email":             "jane@x.com",
		"contactNumber":     "123-456-7890",
		"advertisementType": models.AdTypeLost,
		"heading":           "Lost cat",
		"description":       "Orange tabby missing since Monday",
	}
}
