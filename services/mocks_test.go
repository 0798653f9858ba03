package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickbite-backend/models"
	"quickbite-backend/repository"
)

var errDuplicate = errors.New("duplicate key value violates unique constraint")

// --- Mock user repository ---

type mockUserRepo struct {
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.CustomerProfile
	partners map[uuid.UUID]*models.DeliveryPartnerProfile
	favs     map[uuid.UUID]map[uuid.UUID]bool
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:    make(map[uuid.UUID]*models.User),
		profiles: make(map[uuid.UUID]*models.CustomerProfile),
		partners: make(map[uuid.UUID]*models.DeliveryPartnerProfile),
		favs:     make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return errDuplicate
		}
		if u.Phone != nil && user.Phone != nil && *u.Phone == *user.Phone {
			return errDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(context.Background(), email)
	return err == nil, nil
}

func (m *mockUserRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	for _, u := range m.users {
		if u.Phone != nil && *u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindCustomerProfile(_ context.Context, userID uuid.UUID) (*models.CustomerProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockUserRepo) CreateCustomerProfile(_ context.Context, profile *models.CustomerProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockUserRepo) AddLoyaltyPoints(_ context.Context, userID uuid.UUID, points int) error {
	p, ok := m.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.LoyaltyPoints += points
	return nil
}

func (m *mockUserRepo) AddFavorite(_ context.Context, userID, restaurantID uuid.UUID) error {
	if m.favs[userID] == nil {
		m.favs[userID] = make(map[uuid.UUID]bool)
	}
	m.favs[userID][restaurantID] = true
	return nil
}

func (m *mockUserRepo) RemoveFavorite(_ context.Context, userID, restaurantID uuid.UUID) error {
	delete(m.favs[userID], restaurantID)
	return nil
}

func (m *mockUserRepo) ListFavorites(_ context.Context, userID uuid.UUID) ([]models.Restaurant, error) {
	var out []models.Restaurant
	for id := range m.favs[userID] {
		out = append(out, models.Restaurant{ID: id})
	}
	return out, nil
}

func (m *mockUserRepo) FindPartnerProfile(_ context.Context, userID uuid.UUID) (*models.DeliveryPartnerProfile, error) {
	p, ok := m.partners[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockUserRepo) CreatePartnerProfile(_ context.Context, profile *models.DeliveryPartnerProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	m.partners[profile.UserID] = profile
	return nil
}

func (m *mockUserRepo) UpdatePartnerStatus(_ context.Context, userID uuid.UUID, status string, lat, lng *float64) error {
	p, ok := m.partners[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	if lat != nil && lng != nil {
		p.CurrentLatitude = lat
		p.CurrentLongitude = lng
	}
	return nil
}

// --- Mock catalog repository ---

type mockCatalogRepo struct {
	restaurants map[uuid.UUID]*models.Restaurant
	categories  map[uuid.UUID]*models.MenuCategory
	items       map[uuid.UUID]*models.MenuItem
	reviews     []*models.RestaurantReview
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		restaurants: make(map[uuid.UUID]*models.Restaurant),
		categories:  make(map[uuid.UUID]*models.MenuCategory),
		items:       make(map[uuid.UUID]*models.MenuItem),
	}
}

func (m *mockCatalogRepo) CreateRestaurant(_ context.Context, r *models.Restaurant) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.restaurants[r.ID] = r
	return nil
}

func (m *mockCatalogRepo) FindRestaurantByID(_ context.Context, id uuid.UUID) (*models.Restaurant, error) {
	r, ok := m.restaurants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockCatalogRepo) FindRestaurantByOwner(_ context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	for _, r := range m.restaurants {
		if r.OwnerID == ownerID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListRestaurants(_ context.Context, _ repository.RestaurantFilter, _, _ int) ([]models.Restaurant, int64, error) {
	var out []models.Restaurant
	for _, r := range m.restaurants {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *mockCatalogRepo) UpdateRestaurant(_ context.Context, r *models.Restaurant) error {
	m.restaurants[r.ID] = r
	return nil
}

func (m *mockCatalogRepo) FindOrCreateCuisine(_ context.Context, name string) (*models.Cuisine, error) {
	return &models.Cuisine{ID: uuid.New(), Name: name}, nil
}

func (m *mockCatalogRepo) ReplaceCuisines(_ context.Context, _ *models.Restaurant, _ []models.Cuisine) error {
	return nil
}

func (m *mockCatalogRepo) CreateCategory(_ context.Context, c *models.MenuCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.categories[c.ID] = c
	return nil
}

func (m *mockCatalogRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockCatalogRepo) ListCategories(_ context.Context, restaurantID uuid.UUID) ([]models.MenuCategory, error) {
	var out []models.MenuCategory
	for _, c := range m.categories {
		if c.RestaurantID == restaurantID {
			out = append(out, *c)
		}
	}
	// display_order ASC, matching the real query
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].DisplayOrder < out[i].DisplayOrder {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, item := range m.items {
		if item.CategoryID != nil && *item.CategoryID == id {
			item.CategoryID = nil
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCatalogRepo) CreateMenuItem(_ context.Context, item *models.MenuItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockCatalogRepo) FindMenuItemByID(_ context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (m *mockCatalogRepo) FindMenuItemsByIDs(_ context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) ListMenuItems(_ context.Context, restaurantID uuid.UUID, availableOnly bool) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range m.items {
		if item.RestaurantID != restaurantID {
			continue
		}
		if availableOnly && !item.IsAvailable {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (m *mockCatalogRepo) UpdateMenuItem(_ context.Context, item *models.MenuItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockCatalogRepo) DeleteMenuItem(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockCatalogRepo) CreateRestaurantReview(_ context.Context, review *models.RestaurantReview) error {
	for _, existing := range m.reviews {
		sameOrder := (existing.OrderID == nil && review.OrderID == nil) ||
			(existing.OrderID != nil && review.OrderID != nil && *existing.OrderID == *review.OrderID)
		if existing.RestaurantID == review.RestaurantID && existing.UserID == review.UserID && sameOrder {
			return errDuplicate
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	m.reviews = append(m.reviews, review)

	// recompute aggregates like the real transactional implementation
	if r, ok := m.restaurants[review.RestaurantID]; ok {
		var sum, count float64
		for _, rev := range m.reviews {
			if rev.RestaurantID == review.RestaurantID {
				sum += float64(rev.Rating)
				count++
			}
		}
		r.Rating = sum / count
		r.TotalReviews = int(count)
	}
	return nil
}

func (m *mockCatalogRepo) ListRestaurantReviews(_ context.Context, restaurantID uuid.UUID, _, _ int) ([]models.RestaurantReview, int64, error) {
	var out []models.RestaurantReview
	for _, rev := range m.reviews {
		if rev.RestaurantID == restaurantID {
			out = append(out, *rev)
		}
	}
	return out, int64(len(out)), nil
}

// --- Mock order repository ---

type mockOrderRepo struct {
	orders   map[uuid.UUID]*models.Order
	tracking map[uuid.UUID][]models.OrderTracking
	reviews  map[uuid.UUID]*models.DeliveryReview
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders:   make(map[uuid.UUID]*models.Order),
		tracking: make(map[uuid.UUID][]models.OrderTracking),
		reviews:  make(map[uuid.UUID]*models.DeliveryReview),
	}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.orders[order.ID] = order
	m.tracking[order.ID] = append(m.tracking[order.ID], models.OrderTracking{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Status:    order.Status,
		Notes:     "Order placed",
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) FindByCustomer(_ context.Context, customerID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) FindByRestaurant(_ context.Context, restaurantID uuid.UUID, status string, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID && (status == "" || o.Status == status) {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) FindByPartner(_ context.Context, partnerID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.DeliveryPartnerID != nil && *o.DeliveryPartnerID == partnerID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) CountDeliveredByCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	for _, o := range m.orders {
		if o.CustomerID == customerID && o.Status == models.OrderStatusDelivered {
			count++
		}
	}
	return count, nil
}

func (m *mockOrderRepo) Transition(_ context.Context, orderID uuid.UUID, to, notes string, lat, lng *float64) (*models.Order, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if !models.CanTransition(o.Status, to) {
		return nil, repository.ErrInvalidTransition
	}
	o.Status = to
	now := time.Now()
	switch to {
	case models.OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case models.OrderStatusReady:
		o.PreparedAt = &now
	case models.OrderStatusPickedUp:
		o.PickedUpAt = &now
	case models.OrderStatusDelivered:
		o.DeliveredAt = &now
	}
	m.tracking[orderID] = append(m.tracking[orderID], models.OrderTracking{
		ID:        uuid.New(),
		OrderID:   orderID,
		Status:    to,
		Notes:     notes,
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: now,
	})
	return o, nil
}

func (m *mockOrderRepo) ListTracking(_ context.Context, orderID uuid.UUID) ([]models.OrderTracking, error) {
	rows := m.tracking[orderID]
	// newest first, matching the real query
	out := make([]models.OrderTracking, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row
	}
	return out, nil
}

func (m *mockOrderRepo) UpdatePaymentStatus(_ context.Context, orderID uuid.UUID, status, transactionID string) error {
	o, ok := m.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PaymentStatus = status
	if transactionID != "" {
		o.TransactionID = transactionID
	}
	return nil
}

func (m *mockOrderRepo) CreateDeliveryReview(_ context.Context, review *models.DeliveryReview) error {
	if _, exists := m.reviews[review.OrderID]; exists {
		return errDuplicate
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	m.reviews[review.OrderID] = review
	return nil
}

// --- Mock promotion repository ---

type mockPromoRepo struct {
	promos map[uuid.UUID]*models.Promotion
	usage  []*models.PromoUsage
}

func newMockPromoRepo() *mockPromoRepo {
	return &mockPromoRepo{promos: make(map[uuid.UUID]*models.Promotion)}
}

func (m *mockPromoRepo) Create(_ context.Context, promo *models.Promotion) error {
	for _, p := range m.promos {
		if p.Code == promo.Code {
			return errDuplicate
		}
	}
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	m.promos[promo.ID] = promo
	return nil
}

func (m *mockPromoRepo) FindByCode(_ context.Context, code string) (*models.Promotion, error) {
	for _, p := range m.promos {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPromoRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Promotion, error) {
	p, ok := m.promos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockPromoRepo) FindAll(_ context.Context, activeOnly bool, _, _ int) ([]models.Promotion, int64, error) {
	var out []models.Promotion
	for _, p := range m.promos {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockPromoRepo) Deactivate(_ context.Context, code string) error {
	for _, p := range m.promos {
		if p.Code == code {
			p.IsActive = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPromoRepo) CountUsageByUser(_ context.Context, promoID, userID uuid.UUID) (int64, error) {
	var count int64
	for _, u := range m.usage {
		if u.PromotionID == promoID && u.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockPromoRepo) RegisterUsage(_ context.Context, usage *models.PromoUsage) error {
	promo, ok := m.promos[usage.PromotionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if promo.UsageLimit != nil && promo.TimesUsed >= *promo.UsageLimit {
		return repository.ErrPromoExhausted
	}
	userCount, _ := m.CountUsageByUser(context.Background(), usage.PromotionID, usage.UserID)
	if userCount >= int64(promo.UsagePerUser) {
		return repository.ErrPromoUserLimitReached
	}
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	m.usage = append(m.usage, usage)
	promo.TimesUsed++
	return nil
}

// --- Mock delivery repository ---

type mockDeliveryRepo struct {
	assignments map[uuid.UUID]*models.DeliveryAssignment
	earnings    []*models.DeliveryEarnings
	zones       map[uuid.UUID]*models.DeliveryZone

	// shared with the order mock so accepting an assignment records the
	// partner on the order, like the real single-transaction implementation
	orders map[uuid.UUID]*models.Order
}

func newMockDeliveryRepo() *mockDeliveryRepo {
	return &mockDeliveryRepo{
		assignments: make(map[uuid.UUID]*models.DeliveryAssignment),
		zones:       make(map[uuid.UUID]*models.DeliveryZone),
		orders:      make(map[uuid.UUID]*models.Order),
	}
}

func (m *mockDeliveryRepo) CreateAssignment(_ context.Context, assignment *models.DeliveryAssignment) error {
	for _, a := range m.assignments {
		if a.OrderID == assignment.OrderID &&
			(a.Status == models.AssignmentStatusAssigned || a.Status == models.AssignmentStatusAccepted) {
			return repository.ErrActiveAssignmentExists
		}
	}
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	assignment.AssignedAt = time.Now()
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockDeliveryRepo) FindAssignmentByID(_ context.Context, id uuid.UUID) (*models.DeliveryAssignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (m *mockDeliveryRepo) ListAssignmentsByPartner(_ context.Context, partnerID uuid.UUID, status string) ([]models.DeliveryAssignment, error) {
	var out []models.DeliveryAssignment
	for _, a := range m.assignments {
		if a.DeliveryPartnerID == partnerID && (status == "" || a.Status == status) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockDeliveryRepo) AcceptAssignment(_ context.Context, id uuid.UUID) (*models.DeliveryAssignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if a.Status != models.AssignmentStatusAssigned {
		return nil, repository.ErrInvalidTransition
	}
	now := time.Now()
	a.Status = models.AssignmentStatusAccepted
	a.AcceptedAt = &now
	if o, ok := m.orders[a.OrderID]; ok {
		o.DeliveryPartnerID = &a.DeliveryPartnerID
	}
	return a, nil
}

func (m *mockDeliveryRepo) RejectAssignment(_ context.Context, id uuid.UUID, reason string) (*models.DeliveryAssignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if a.Status != models.AssignmentStatusAssigned {
		return nil, repository.ErrInvalidTransition
	}
	now := time.Now()
	a.Status = models.AssignmentStatusRejected
	a.RejectedAt = &now
	a.RejectionReason = reason
	return a, nil
}

func (m *mockDeliveryRepo) CompleteAssignment(_ context.Context, id uuid.UUID) (*models.DeliveryAssignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if a.Status != models.AssignmentStatusAccepted {
		return nil, repository.ErrInvalidTransition
	}
	a.Status = models.AssignmentStatusCompleted
	return a, nil
}

func (m *mockDeliveryRepo) CreateEarnings(_ context.Context, earnings *models.DeliveryEarnings) error {
	for _, e := range m.earnings {
		if e.DeliveryPartnerID == earnings.DeliveryPartnerID && e.OrderID == earnings.OrderID {
			return errDuplicate
		}
	}
	if earnings.ID == uuid.Nil {
		earnings.ID = uuid.New()
	}
	m.earnings = append(m.earnings, earnings)
	return nil
}

func (m *mockDeliveryRepo) ListEarningsByPartner(_ context.Context, partnerID uuid.UUID, unpaidOnly bool) ([]models.DeliveryEarnings, error) {
	var out []models.DeliveryEarnings
	for _, e := range m.earnings {
		if e.DeliveryPartnerID != partnerID {
			continue
		}
		if unpaidOnly && e.Paid {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockDeliveryRepo) MarkEarningsPaid(_ context.Context, partnerID uuid.UUID) (int64, error) {
	var rows int64
	now := time.Now()
	for _, e := range m.earnings {
		if e.DeliveryPartnerID == partnerID && !e.Paid {
			e.Paid = true
			e.PaidAt = &now
			rows++
		}
	}
	return rows, nil
}

func (m *mockDeliveryRepo) CreateZone(_ context.Context, zone *models.DeliveryZone) error {
	if zone.ID == uuid.Nil {
		zone.ID = uuid.New()
	}
	m.zones[zone.ID] = zone
	return nil
}

func (m *mockDeliveryRepo) ListZones(_ context.Context, activeOnly bool) ([]models.DeliveryZone, error) {
	var out []models.DeliveryZone
	for _, z := range m.zones {
		if activeOnly && !z.IsActive {
			continue
		}
		out = append(out, *z)
	}
	return out, nil
}

// --- Mock platform repository ---

type mockPlatformRepo struct {
	commissions map[uuid.UUID]*models.Commission
	payouts     map[uuid.UUID]*models.Payout
	loyalty     *models.LoyaltyProgram
	alerts      map[uuid.UUID]*models.FraudAlert
	tickets     map[uuid.UUID]*models.SupportTicket
}

func newMockPlatformRepo() *mockPlatformRepo {
	return &mockPlatformRepo{
		commissions: make(map[uuid.UUID]*models.Commission),
		payouts:     make(map[uuid.UUID]*models.Payout),
		alerts:      make(map[uuid.UUID]*models.FraudAlert),
		tickets:     make(map[uuid.UUID]*models.SupportTicket),
	}
}

func (m *mockPlatformRepo) CreateCommission(_ context.Context, commission *models.Commission) error {
	now := time.Now()
	for _, c := range m.commissions {
		if c.RestaurantID == commission.RestaurantID && c.IsActive {
			c.IsActive = false
			c.EndDate = &now
		}
	}
	if commission.ID == uuid.Nil {
		commission.ID = uuid.New()
	}
	m.commissions[commission.ID] = commission
	return nil
}

func (m *mockPlatformRepo) FindActiveCommission(_ context.Context, restaurantID uuid.UUID) (*models.Commission, error) {
	for _, c := range m.commissions {
		if c.RestaurantID == restaurantID && c.IsActive {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlatformRepo) CreatePayout(_ context.Context, payout *models.Payout) error {
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	m.payouts[payout.ID] = payout
	return nil
}

func (m *mockPlatformRepo) ListPayouts(_ context.Context, status string, _, _ int) ([]models.Payout, int64, error) {
	var out []models.Payout
	for _, p := range m.payouts {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockPlatformRepo) UpdatePayoutStatus(_ context.Context, id uuid.UUID, status, transactionID, notes string) (*models.Payout, error) {
	p, ok := m.payouts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if p.Status == models.PayoutStatusCompleted || p.Status == models.PayoutStatusFailed {
		return nil, repository.ErrPayoutAlreadyFinal
	}
	p.Status = status
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	if notes != "" {
		p.Notes = notes
	}
	if status == models.PayoutStatusCompleted || status == models.PayoutStatusFailed {
		now := time.Now()
		p.ProcessedAt = &now
	}
	return p, nil
}

func (m *mockPlatformRepo) FindActiveLoyaltyProgram(_ context.Context) (*models.LoyaltyProgram, error) {
	if m.loyalty == nil || !m.loyalty.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return m.loyalty, nil
}

func (m *mockPlatformRepo) CreateLoyaltyProgram(_ context.Context, program *models.LoyaltyProgram) error {
	if program.ID == uuid.Nil {
		program.ID = uuid.New()
	}
	m.loyalty = program
	return nil
}

func (m *mockPlatformRepo) CreateFraudAlert(_ context.Context, alert *models.FraudAlert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	m.alerts[alert.ID] = alert
	return nil
}

func (m *mockPlatformRepo) FindFraudAlertByID(_ context.Context, id uuid.UUID) (*models.FraudAlert, error) {
	a, ok := m.alerts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (m *mockPlatformRepo) ListFraudAlerts(_ context.Context, status string, _, _ int) ([]models.FraudAlert, int64, error) {
	var out []models.FraudAlert
	for _, a := range m.alerts {
		if status == "" || a.Status == status {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockPlatformRepo) UpdateFraudAlert(_ context.Context, alert *models.FraudAlert) error {
	m.alerts[alert.ID] = alert
	return nil
}

func (m *mockPlatformRepo) CreateSupportTicket(_ context.Context, ticket *models.SupportTicket) error {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *mockPlatformRepo) FindSupportTicketByID(_ context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (m *mockPlatformRepo) ListSupportTickets(_ context.Context, userID *uuid.UUID, status string, _, _ int) ([]models.SupportTicket, int64, error) {
	var out []models.SupportTicket
	for _, t := range m.tickets {
		if userID != nil && t.UserID != *userID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (m *mockPlatformRepo) UpdateSupportTicket(_ context.Context, ticket *models.SupportTicket) error {
	m.tickets[ticket.ID] = ticket
	return nil
}

// --- Mock event publisher ---

type mockPublisher struct {
	events []models.OrderEvent
}

func (m *mockPublisher) SendOrderEvent(_ context.Context, event models.OrderEvent) error {
	m.events = append(m.events, event)
	return nil
}
