package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"
	"github.com/fixcars/fixcars-service/internal/repository"
	"github.com/fixcars/fixcars-service/internal/utils"

	"github.com/jackc/pgx/v5"
)

// maxSearchResults caps the discovery response.
const maxSearchResults = 30

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type SupplierService struct {
	Offerings repository.OfferingRepository
	Users     repository.UserRepository
	Catalog   repository.CatalogRepository
	Reviews   repository.ReviewRepository
	Hours     repository.HoursRepository
	Referrals repository.ReferralRepository

	// now is swapped in tests to pin the clock for is_open.
	now func() time.Time
}

// NewSupplierService creates a new SupplierService.
func NewSupplierService(offerings repository.OfferingRepository, users repository.UserRepository,
	catalog repository.CatalogRepository, reviews repository.ReviewRepository,
	hours repository.HoursRepository, referrals repository.ReferralRepository) *SupplierService {
	return &SupplierService{
		Offerings: offerings,
		Users:     users,
		Catalog:   catalog,
		Reviews:   reviews,
		Hours:     hours,
		Referrals: referrals,
		now:       time.Now,
	}
}

// SearchSuppliers returns up to 30 active suppliers offering the category,
// nearest to the query point first. Falls back to the Bucharest centre when
// no point is given.
func (s *SupplierService) SearchSuppliers(ctx context.Context, filter models.SearchFilter) ([]models.SupplierSummary, error) {
	if filter.Category == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: category")
	}
	exists, err := s.Catalog.CategoryExists(ctx, filter.Category)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !exists {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported category: %s", filter.Category))
	}

	originLat, originLng := utils.BucharestLat, utils.BucharestLng
	if filter.Latitude != nil && filter.Longitude != nil {
		originLat, originLng = *filter.Latitude, *filter.Longitude
	}

	rows, err := s.Offerings.SearchOfferings(ctx, filter)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	type ranked struct {
		row      models.OfferingSearchRow
		distance float64
	}
	candidates := make([]ranked, 0, len(rows))
	for _, row := range rows {
		if row.Latitude == nil || row.Longitude == nil {
			continue
		}
		d := utils.Round2(utils.Haversine(originLat, originLng, *row.Latitude, *row.Longitude))
		candidates = append(candidates, ranked{row: row, distance: d})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	// Keep only the nearest occurrence per supplier.
	seen := make(map[string]bool)
	results := make([]models.SupplierSummary, 0, maxSearchResults)
	for _, c := range candidates {
		if seen[c.row.SupplierID] {
			continue
		}
		seen[c.row.SupplierID] = true

		distance := c.distance
		results = append(results, models.SupplierSummary{
			SupplierID:   c.row.SupplierID,
			FullName:     c.row.FullName,
			ProfilePhoto: c.row.ProfilePhoto,
			City:         c.row.City,
			Sector:       c.row.Sector,
			Latitude:     c.row.Latitude,
			Longitude:    c.row.Longitude,
			ReviewScore:  utils.Round2(c.row.ReviewScore),
			ReviewCount:  c.row.ReviewCount,
			DistanceKm:   &distance,
		})
		if len(results) == maxSearchResults {
			break
		}
	}

	for i := range results {
		hours, err := s.Hours.GetBusinessHours(ctx, results[i].SupplierID)
		if err != nil {
			continue
		}
		results[i].IsOpen = isOpenAt(hours, s.localNow())
	}

	return results, nil
}

func (s *SupplierService) localNow() time.Time {
	now := s.now()
	if loc, err := time.LoadLocation("Europe/Bucharest"); err == nil {
		now = now.In(loc)
	}
	return now
}

// isOpenAt reports whether the schedule covers the given moment.
func isOpenAt(hours []models.BusinessHours, at time.Time) bool {
	days := map[time.Weekday]string{
		time.Monday:    "mon",
		time.Tuesday:   "tue",
		time.Wednesday: "wed",
		time.Thursday:  "thu",
		time.Friday:    "fri",
		time.Saturday:  "sat",
		time.Sunday:    "sun",
	}
	day := days[at.Weekday()]
	clock := at.Format("15:04")

	for _, h := range hours {
		if h.DayOfWeek != day || h.Closed {
			continue
		}
		if h.OpenTime <= clock && clock < h.CloseTime {
			return true
		}
	}
	return false
}

func (s *SupplierService) getSupplier(ctx context.Context, supplierID string) (*models.User, error) {
	supplier, err := s.Users.GetUserByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "supplier not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if supplier.UserType != models.SupplierUser {
		return nil, models.NewErrorResponse(http.StatusNotFound, "supplier not found")
	}
	return supplier, nil
}

// GetSupplierSummary returns the summary block of a supplier profile.
func (s *SupplierService) GetSupplierSummary(ctx context.Context, supplierID string) (*models.SupplierSummary, error) {
	supplier, err := s.getSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	score, count, err := s.Reviews.GetReviewStats(ctx, supplierID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	hours, err := s.Hours.GetBusinessHours(ctx, supplierID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	return &models.SupplierSummary{
		SupplierID:   supplier.ID,
		FullName:     supplier.FullName,
		ProfilePhoto: supplier.ProfilePhoto,
		City:         supplier.City,
		Sector:       supplier.Sector,
		Latitude:     supplier.Latitude,
		Longitude:    supplier.Longitude,
		ReviewScore:  utils.Round2(score),
		ReviewCount:  count,
		IsOpen:       isOpenAt(hours, s.localNow()),
	}, nil
}

// GetSupplierProfile returns the full supplier page.
func (s *SupplierService) GetSupplierProfile(ctx context.Context, supplierID string) (*models.SupplierProfile, error) {
	summary, err := s.GetSupplierSummary(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.getSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	offerings, err := s.Offerings.GetSupplierOfferings(ctx, supplierID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	hours, err := s.Hours.GetBusinessHours(ctx, supplierID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	return &models.SupplierProfile{
		SupplierSummary: *summary,
		BusinessAddress: supplier.BusinessAddress,
		Bio:             supplier.Bio,
		Offerings:       offerings,
		BusinessHours:   hours,
	}, nil
}

// GetOfferingOptions returns the selectable brands, services and cities for
// the offering form.
func (s *SupplierService) GetOfferingOptions(ctx context.Context) (*models.OfferingOptions, error) {
	brands, err := s.Catalog.GetBrands(ctx)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	services, err := s.Catalog.GetServices(ctx)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return &models.OfferingOptions{
		Brands:   brands,
		Services: services,
		Cities:   models.RomanianCities,
	}, nil
}

// CreateOfferings bulk-creates supplier offerings. A (supplier, brand) pair
// must not end up with overlapping services across rows; any violation
// rejects the whole batch before the first insert.
func (s *SupplierService) CreateOfferings(ctx context.Context, actorID string, actorType models.UserType, req models.CreateOfferingsRequest) ([]models.Offering, error) {
	if actorType != models.SupplierUser {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only suppliers can create offerings")
	}
	if len(req.Offerings) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "offerings must not be empty")
	}

	// (brand -> service ids) claimed by this batch, to catch overlaps
	// inside the payload itself.
	claimed := make(map[string]map[string]bool)

	for _, offering := range req.Offerings {
		if offering.BrandID == "" || len(offering.ServiceIDs) == 0 {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "each offering needs a brand_id and at least one service")
		}
		if offering.City != "" && !models.IsRomanianCity(offering.City) {
			return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported city: %s", offering.City))
		}

		brandExists, err := s.Catalog.BrandExists(ctx, offering.BrandID)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
		}
		if !brandExists {
			return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unknown brand: %s", offering.BrandID))
		}

		count, err := s.Catalog.CountServicesByIDs(ctx, offering.ServiceIDs)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
		}
		if count != len(offering.ServiceIDs) {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "one or more services do not exist")
		}

		existing, err := s.Offerings.GetServiceIDsForSupplierBrand(ctx, actorID, offering.BrandID)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
		}
		taken := claimed[offering.BrandID]
		if taken == nil {
			taken = make(map[string]bool)
			claimed[offering.BrandID] = taken
		}
		for _, id := range existing {
			taken[id] = true
		}
		for _, id := range offering.ServiceIDs {
			if taken[id] {
				return nil, models.NewErrorResponse(http.StatusBadRequest,
					fmt.Sprintf("overlapping service %s for brand %s", id, offering.BrandID))
			}
			taken[id] = true
		}
	}

	var created []models.Offering
	for _, offering := range req.Offerings {
		row, err := s.Offerings.CreateOffering(ctx, actorID, offering)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
		}
		created = append(created, *row)
	}
	return created, nil
}

// GetBusinessHours returns a supplier's weekly schedule.
func (s *SupplierService) GetBusinessHours(ctx context.Context, supplierID string) ([]models.BusinessHours, error) {
	if _, err := s.getSupplier(ctx, supplierID); err != nil {
		return nil, err
	}
	hours, err := s.Hours.GetBusinessHours(ctx, supplierID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return hours, nil
}

// UpdateBusinessHours replaces the actor's weekly schedule.
func (s *SupplierService) UpdateBusinessHours(ctx context.Context, actorID string, actorType models.UserType, req models.UpdateBusinessHoursRequest) ([]models.BusinessHours, error) {
	if actorType != models.SupplierUser {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only suppliers have business hours")
	}

	seenDays := make(map[string]bool)
	for _, h := range req.Hours {
		if !models.IsDayOfWeek(h.DayOfWeek) {
			return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("invalid day_of_week: %s", h.DayOfWeek))
		}
		if seenDays[h.DayOfWeek] {
			return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("duplicate day_of_week: %s", h.DayOfWeek))
		}
		seenDays[h.DayOfWeek] = true

		if h.Closed {
			continue
		}
		if !timeOfDayRe.MatchString(h.OpenTime) || !timeOfDayRe.MatchString(h.CloseTime) {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "open_time and close_time must be HH:MM")
		}
		if h.OpenTime >= h.CloseTime {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "open_time must be before close_time")
		}
	}

	hours, err := s.Hours.ReplaceBusinessHours(ctx, actorID, req.Hours)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return hours, nil
}

// ReferredBy records which sales representative recruited the supplier.
func (s *SupplierService) ReferredBy(ctx context.Context, actorID string, actorType models.UserType, req models.ReferredByRequest) (*models.SupplierReferral, error) {
	if actorType != models.SupplierUser {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only suppliers can record a referral")
	}
	if req.ReferralCode == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required field: referral_code")
	}

	rep, err := s.Referrals.GetRepByCode(ctx, req.ReferralCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "invalid referral code")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	exists, err := s.Referrals.ReferralExists(ctx, actorID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if exists {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "referral already recorded for this supplier")
	}

	referral, err := s.Referrals.CreateReferral(ctx, actorID, rep.ID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return referral, nil
}
