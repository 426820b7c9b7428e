package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fixcars/fixcars-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarRepo struct {
	cars        map[string]*models.Car
	obligations map[string]*models.CarObligation
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{
		cars:        make(map[string]*models.Car),
		obligations: make(map[string]*models.CarObligation),
	}
}

func (r *fakeCarRepo) GetUserCars(_ context.Context, ownerID string) ([]models.Car, error) {
	var out []models.Car
	for _, c := range r.cars {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCarRepo) GetCarByID(_ context.Context, carID string) (*models.Car, error) {
	c, ok := r.cars[carID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (r *fakeCarRepo) CreateCar(_ context.Context, ownerID string, req models.CarRequest) (*models.Car, error) {
	c := &models.Car{
		ID:           "car-" + req.LicensePlate,
		OwnerID:      ownerID,
		BrandID:      req.BrandID,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		VIN:          req.VIN,
		CreatedAt:    time.Now().UTC(),
	}
	r.cars[c.ID] = c
	return c, nil
}

func (r *fakeCarRepo) UpdateCar(ctx context.Context, carID string, req models.CarRequest) (*models.Car, error) {
	c, err := r.GetCarByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	c.BrandID = req.BrandID
	c.Model = req.Model
	c.Year = req.Year
	c.LicensePlate = req.LicensePlate
	c.VIN = req.VIN
	return c, nil
}

func (r *fakeCarRepo) CreateObligation(_ context.Context, carID string, req models.CarObligationRequest) (*models.CarObligation, error) {
	o := &models.CarObligation{
		ID:        "ob-" + string(req.Type) + "-" + carID,
		CarID:     carID,
		Type:      req.Type,
		ExpiresAt: req.ExpiresAt,
		Note:      req.Note,
	}
	r.obligations[o.ID] = o
	return o, nil
}

func (r *fakeCarRepo) GetObligationByID(_ context.Context, obligationID string) (*models.CarObligation, error) {
	o, ok := r.obligations[obligationID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return o, nil
}

func (r *fakeCarRepo) UpdateObligation(ctx context.Context, obligationID string, req models.CarObligationRequest) (*models.CarObligation, error) {
	o, err := r.GetObligationByID(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	o.Type = req.Type
	o.ExpiresAt = req.ExpiresAt
	o.Note = req.Note
	return o, nil
}

func (r *fakeCarRepo) DeleteObligation(_ context.Context, carID, obligationID string) (bool, error) {
	o, ok := r.obligations[obligationID]
	if !ok || o.CarID != carID {
		return false, nil
	}
	delete(r.obligations, obligationID)
	return true, nil
}

func newCarServiceForTest() (*CarService, *fakeCarRepo) {
	repo := newFakeCarRepo()
	catalog := &fakeCatalogRepo{brands: []models.CarBrand{{ID: "brand-1", BrandName: "Dacia"}}}
	return NewCarService(repo, catalog), repo
}

func validCar() models.CarRequest {
	return models.CarRequest{BrandID: "brand-1", Model: "Logan", Year: 2019, LicensePlate: "B-123-XYZ"}
}

func TestCreateCar(t *testing.T) {
	t.Run("client registers a car", func(t *testing.T) {
		svc, _ := newCarServiceForTest()

		car, err := svc.CreateCar(context.Background(), "client-1", models.ClientUser, validCar())
		require.NoError(t, err)
		assert.Equal(t, "client-1", car.OwnerID)
	})

	t.Run("suppliers cannot register cars", func(t *testing.T) {
		svc, _ := newCarServiceForTest()

		_, err := svc.CreateCar(context.Background(), "supplier-1", models.SupplierUser, validCar())
		requireStatus(t, err, http.StatusForbidden)
	})

	t.Run("rejects unknown brand and bad year", func(t *testing.T) {
		svc, _ := newCarServiceForTest()

		req := validCar()
		req.BrandID = "ghost"
		_, err := svc.CreateCar(context.Background(), "client-1", models.ClientUser, req)
		requireStatus(t, err, http.StatusBadRequest)

		req = validCar()
		req.Year = 1900
		_, err = svc.CreateCar(context.Background(), "client-1", models.ClientUser, req)
		requireStatus(t, err, http.StatusBadRequest)
	})
}

func TestUpdateCarOwnership(t *testing.T) {
	svc, _ := newCarServiceForTest()
	car, err := svc.CreateCar(context.Background(), "client-1", models.ClientUser, validCar())
	require.NoError(t, err)

	req := validCar()
	req.Model = "Duster"
	updated, err := svc.UpdateCar(context.Background(), "client-1", car.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Duster", updated.Model)

	_, err = svc.UpdateCar(context.Background(), "client-2", car.ID, req)
	requireStatus(t, err, http.StatusForbidden)

	_, err = svc.UpdateCar(context.Background(), "client-1", "missing", req)
	requireStatus(t, err, http.StatusNotFound)
}

func TestObligations(t *testing.T) {
	expiry := time.Now().UTC().AddDate(1, 0, 0)

	t.Run("lifecycle on the owner's car", func(t *testing.T) {
		svc, repo := newCarServiceForTest()
		car, err := svc.CreateCar(context.Background(), "client-1", models.ClientUser, validCar())
		require.NoError(t, err)

		ob, err := svc.CreateObligation(context.Background(), "client-1", car.ID, models.CarObligationRequest{
			Type: models.ITPObligation, ExpiresAt: expiry,
		})
		require.NoError(t, err)

		_, err = svc.UpdateObligation(context.Background(), "client-1", car.ID, ob.ID, models.CarObligationRequest{
			Type: models.RCAObligation, ExpiresAt: expiry, Note: "polita noua",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RCAObligation, repo.obligations[ob.ID].Type)

		require.NoError(t, svc.DeleteObligation(context.Background(), "client-1", car.ID, ob.ID))
		assert.Empty(t, repo.obligations)
	})

	t.Run("rejects unknown obligation types", func(t *testing.T) {
		svc, _ := newCarServiceForTest()
		car, err := svc.CreateCar(context.Background(), "client-1", models.ClientUser, validCar())
		require.NoError(t, err)

		_, err = svc.CreateObligation(context.Background(), "client-1", car.ID, models.CarObligationRequest{
			Type: "parcare", ExpiresAt: expiry,
		})
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("only the owner can touch obligations", func(t *testing.T) {
		svc, _ := newCarServiceForTest()
		car, err := svc.CreateCar(context.Background(), "client-1", models.ClientUser, validCar())
		require.NoError(t, err)
		ob, err := svc.CreateObligation(context.Background(), "client-1", car.ID, models.CarObligationRequest{
			Type: models.ITPObligation, ExpiresAt: expiry,
		})
		require.NoError(t, err)

		err = svc.DeleteObligation(context.Background(), "client-2", car.ID, ob.ID)
		requireStatus(t, err, http.StatusForbidden)
	})
}
