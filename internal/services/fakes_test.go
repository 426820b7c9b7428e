package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(_ context.Context, req models.SignupRequest, userType models.UserType, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:            uuid.New().String(),
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		PasswordHash:  passwordHash,
		City:          req.City,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		UserType:      userType,
		AccountStatus: models.ActiveAccount,
		CreatedAt:     time.Now().UTC(),
	}
	if userType == models.SupplierUser {
		u.ApprovalStatus = models.PendingApproval
	} else {
		u.ApprovalStatus = models.ApprovedAccount
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) PhoneExists(_ context.Context, phone string) (bool, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	u, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.City != nil {
		u.City = *req.City
	}
	return u, nil
}

func (r *fakeUserRepo) MarkVerified(ctx context.Context, userID string) error {
	u, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	u.IsVerified = true
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	u, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, userID string) error {
	delete(r.users, userID)
	return nil
}

type fakeRequestRepo struct {
	requests map[string]*models.Request
}

func newFakeRequestRepo(requests ...*models.Request) *fakeRequestRepo {
	repo := &fakeRequestRepo{requests: make(map[string]*models.Request)}
	for _, req := range requests {
		repo.requests[req.ID] = req
	}
	return repo
}

func (r *fakeRequestRepo) CreateRequest(_ context.Context, clientID string, req models.CreateRequestRequest) (*models.Request, error) {
	created := &models.Request{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		SupplierID:  req.SupplierID,
		Status:      models.PendingRequest,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Reason:      req.Reason,
		CreatedAt:   time.Now().UTC(),
	}
	r.requests[created.ID] = created
	return created, nil
}

func (r *fakeRequestRepo) GetRequestByID(_ context.Context, requestID string) (*models.Request, error) {
	req, ok := r.requests[requestID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return req, nil
}

func (r *fakeRequestRepo) UpdateRequestStatus(ctx context.Context, requestID string, status models.RequestStatus) (*models.Request, error) {
	req, err := r.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	req.Status = status
	return req, nil
}

func (r *fakeRequestRepo) GetUserRequests(_ context.Context, userID string, userType models.UserType, limit, offset int) ([]models.Request, error) {
	var out []models.Request
	for _, req := range r.requests {
		if (userType == models.ClientUser && req.ClientID == userID) ||
			(userType == models.SupplierUser && req.SupplierID == userID) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) CountPendingForSupplier(_ context.Context, supplierID string) (int, error) {
	count := 0
	for _, req := range r.requests {
		if req.SupplierID == supplierID && req.Status == models.PendingRequest {
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
	playerIDs     map[string][]string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{playerIDs: make(map[string][]string)}
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, senderID, receiverID string, nType models.NotificationType, message string) (*models.Notification, error) {
	n := models.Notification{
		ID:         uuid.New().String(),
		SenderID:   &senderID,
		ReceiverID: receiverID,
		Type:       nType,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	r.notifications = append(r.notifications, n)
	return &n, nil
}

func (r *fakeNotificationRepo) GetUserNotifications(_ context.Context, receiverID string, types []string, limit, offset int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.ReceiverID == receiverID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, receiverID string, notificationIDs []string) (int, error) {
	updated := 0
	for i := range r.notifications {
		n := &r.notifications[i]
		if n.ReceiverID != receiverID || n.IsRead {
			continue
		}
		for _, id := range notificationIDs {
			if n.ID == id {
				n.IsRead = true
				updated++
			}
		}
	}
	return updated, nil
}

func (r *fakeNotificationRepo) HasUnread(_ context.Context, receiverID string) (bool, error) {
	for _, n := range r.notifications {
		if n.ReceiverID == receiverID && !n.IsRead {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) UpsertDevice(_ context.Context, userID, playerID string) error {
	r.playerIDs[userID] = append(r.playerIDs[userID], playerID)
	return nil
}

func (r *fakeNotificationRepo) GetActivePlayerIDs(_ context.Context, userID string) ([]string, error) {
	return r.playerIDs[userID], nil
}

func (r *fakeNotificationRepo) receivedBy(receiverID string) []models.Notification {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.ReceiverID == receiverID {
			out = append(out, n)
		}
	}
	return out
}

type fakePusher struct {
	sent []fakePush
}

type fakePush struct {
	playerIDs []string
	message   string
}

func (p *fakePusher) Send(_ context.Context, playerIDs []string, heading, message string, data map[string]string) error {
	p.sent = append(p.sent, fakePush{playerIDs: playerIDs, message: message})
	return nil
}

type fakeAuthRepo struct {
	otps   []models.OTPVerification
	tokens map[string]*models.PasswordResetToken
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{tokens: make(map[string]*models.PasswordResetToken)}
}

func (r *fakeAuthRepo) CreateOTP(_ context.Context, userID, code string, expiresAt time.Time) (*models.OTPVerification, error) {
	otp := models.OTPVerification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	r.otps = append(r.otps, otp)
	return &otp, nil
}

func (r *fakeAuthRepo) GetLatestOTP(_ context.Context, userID string) (*models.OTPVerification, error) {
	for i := len(r.otps) - 1; i >= 0; i-- {
		if r.otps[i].UserID == userID {
			return &r.otps[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAuthRepo) MarkOTPVerified(_ context.Context, otpID string) error {
	for i := range r.otps {
		if r.otps[i].ID == otpID {
			r.otps[i].Verified = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeAuthRepo) CreateResetToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	r.tokens[token] = &models.PasswordResetToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (r *fakeAuthRepo) GetResetToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (r *fakeAuthRepo) MarkTokenUsed(_ context.Context, tokenID string) error {
	for _, t := range r.tokens {
		if t.ID == tokenID {
			t.Used = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeMailer struct {
	otps     map[string]string
	failNext bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{otps: make(map[string]string)}
}

func (m *fakeMailer) SendOTP(email, otp string) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("smtp unavailable")
	}
	m.otps[email] = otp
	return nil
}

func (m *fakeMailer) SendWelcome(email, userName string) error { return nil }

func (m *fakeMailer) SendPasswordReset(email, resetToken, userName string) error {
	m.otps[email] = resetToken
	return nil
}

type fakeCatalogRepo struct {
	categories map[string]bool
	brands     []models.CarBrand
	services   []models.Service
	links      []models.AppLink
}

func (r *fakeCatalogRepo) GetBrands(_ context.Context) ([]models.CarBrand, error) {
	return r.brands, nil
}

func (r *fakeCatalogRepo) GetServices(_ context.Context) ([]models.Service, error) {
	return r.services, nil
}

func (r *fakeCatalogRepo) GetServicesByCategory(_ context.Context, categoryName string) ([]models.Service, error) {
	var out []models.Service
	for _, s := range r.services {
		if s.CategoryName == categoryName {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) CategoryExists(_ context.Context, categoryName string) (bool, error) {
	return r.categories[categoryName], nil
}

func (r *fakeCatalogRepo) BrandExists(_ context.Context, brandID string) (bool, error) {
	for _, b := range r.brands {
		if b.ID == brandID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCatalogRepo) CountServicesByIDs(_ context.Context, serviceIDs []string) (int, error) {
	count := 0
	for _, id := range serviceIDs {
		for _, s := range r.services {
			if s.ID == id {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeCatalogRepo) GetAppLinks(_ context.Context) ([]models.AppLink, error) {
	return r.links, nil
}

type fakeOfferingRepo struct {
	searchRows []models.OfferingSearchRow
	offerings  map[string][]models.Offering
	serviceIDs map[string][]string
}

func newFakeOfferingRepo() *fakeOfferingRepo {
	return &fakeOfferingRepo{
		offerings:  make(map[string][]models.Offering),
		serviceIDs: make(map[string][]string),
	}
}

func (r *fakeOfferingRepo) CreateOffering(_ context.Context, supplierID string, req models.OfferingRequest) (*models.Offering, error) {
	o := models.Offering{
		ID:         uuid.New().String(),
		SupplierID: supplierID,
		BrandID:    req.BrandID,
		City:       req.City,
		Active:     true,
	}
	r.offerings[supplierID] = append(r.offerings[supplierID], o)
	key := supplierID + "/" + req.BrandID
	r.serviceIDs[key] = append(r.serviceIDs[key], req.ServiceIDs...)
	return &o, nil
}

func (r *fakeOfferingRepo) GetSupplierOfferings(_ context.Context, supplierID string) ([]models.Offering, error) {
	return r.offerings[supplierID], nil
}

func (r *fakeOfferingRepo) GetServiceIDsForSupplierBrand(_ context.Context, supplierID, brandID string) ([]string, error) {
	return r.serviceIDs[supplierID+"/"+brandID], nil
}

func (r *fakeOfferingRepo) SearchOfferings(_ context.Context, filter models.SearchFilter) ([]models.OfferingSearchRow, error) {
	return r.searchRows, nil
}

type fakeReviewRepo struct {
	reviews map[string][]models.Review
	score   float64
	count   int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string][]models.Review)}
}

func (r *fakeReviewRepo) GetReviews(_ context.Context, supplierID string, limit, offset int) ([]models.Review, error) {
	return r.reviews[supplierID], nil
}

func (r *fakeReviewRepo) UpsertReview(_ context.Context, clientID, supplierID string, req models.ReviewRequest) (*models.Review, error) {
	for i, existing := range r.reviews[supplierID] {
		if existing.ClientID == clientID {
			r.reviews[supplierID][i].Rating = req.Rating
			r.reviews[supplierID][i].Comment = req.Comment
			return &r.reviews[supplierID][i], nil
		}
	}
	review := models.Review{
		ID:         uuid.New().String(),
		ClientID:   clientID,
		SupplierID: supplierID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	r.reviews[supplierID] = append(r.reviews[supplierID], review)
	return &review, nil
}

func (r *fakeReviewRepo) GetReviewStats(_ context.Context, supplierID string) (float64, int, error) {
	return r.score, r.count, nil
}

type fakeHoursRepo struct {
	hours map[string][]models.BusinessHours
}

func newFakeHoursRepo() *fakeHoursRepo {
	return &fakeHoursRepo{hours: make(map[string][]models.BusinessHours)}
}

func (r *fakeHoursRepo) GetBusinessHours(_ context.Context, supplierID string) ([]models.BusinessHours, error) {
	return r.hours[supplierID], nil
}

func (r *fakeHoursRepo) ReplaceBusinessHours(_ context.Context, supplierID string, hours []models.BusinessHours) ([]models.BusinessHours, error) {
	r.hours[supplierID] = hours
	return hours, nil
}

type fakeReferralRepo struct {
	reps      map[string]*models.SalesRepresentative
	referrals map[string]bool
}

func newFakeReferralRepo(reps ...*models.SalesRepresentative) *fakeReferralRepo {
	repo := &fakeReferralRepo{
		reps:      make(map[string]*models.SalesRepresentative),
		referrals: make(map[string]bool),
	}
	for _, rep := range reps {
		repo.reps[rep.ReferralCode] = rep
	}
	return repo
}

func (r *fakeReferralRepo) GetRepByCode(_ context.Context, referralCode string) (*models.SalesRepresentative, error) {
	rep, ok := r.reps[referralCode]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return rep, nil
}

func (r *fakeReferralRepo) ReferralExists(_ context.Context, supplierID string) (bool, error) {
	return r.referrals[supplierID], nil
}

func (r *fakeReferralRepo) CreateReferral(_ context.Context, supplierID, representativeID string) (*models.SupplierReferral, error) {
	r.referrals[supplierID] = true
	return &models.SupplierReferral{
		ID:               uuid.New().String(),
		SupplierID:       supplierID,
		RepresentativeID: representativeID,
		CreatedAt:        time.Now().UTC(),
	}, nil
}
