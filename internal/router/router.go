package router

import (
	"net/http"

	"github.com/fixcars/fixcars-service/internal/handlers"
)

// Handlers groups every HTTP handler wired by the router.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Catalog      *handlers.CatalogHandler
	Supplier     *handlers.SupplierHandler
	Request      *handlers.RequestHandler
	Review       *handlers.ReviewHandler
	Notification *handlers.NotificationHandler
	Car          *handlers.CarHandler
	Upload       *handlers.UploadHandler
	Health       *handlers.HealthHandler
}

// InitRoutes builds the full route table.
func InitRoutes(h Handlers, jwtSecret, uploadDir string) http.Handler {
	mux := http.NewServeMux()
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return handlers.Authenticate(jwtSecret, next)
	}

	mux.HandleFunc("GET /api/ping", h.Health.Ping)

	mux.HandleFunc("POST /api/auth/signup/client", h.Auth.SignupClient)
	mux.HandleFunc("POST /api/auth/signup/supplier", h.Auth.SignupSupplier)
	mux.HandleFunc("POST /api/auth/validate-otp", h.Auth.ValidateOTP)
	mux.HandleFunc("POST /api/auth/resend-otp", h.Auth.ResendOTP)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/password-reset/request", h.Auth.RequestPasswordReset)
	mux.HandleFunc("POST /api/auth/password-reset", h.Auth.ResetPassword)
	mux.HandleFunc("GET /api/auth/account-status", h.Auth.AccountStatus)

	mux.HandleFunc("GET /api/users/{userId}", h.Auth.GetUser)
	mux.HandleFunc("PUT /api/users/{userId}", auth(h.Auth.UpdateUser))
	mux.HandleFunc("DELETE /api/users/me", auth(h.Auth.DeleteAccount))

	mux.HandleFunc("GET /api/brands", h.Catalog.GetBrands)
	mux.HandleFunc("GET /api/services", h.Catalog.GetServices)
	mux.HandleFunc("GET /api/app-links", h.Catalog.GetAppLinks)

	mux.HandleFunc("GET /api/suppliers/search", h.Supplier.SearchSuppliers)
	mux.HandleFunc("GET /api/suppliers/offering-options", h.Supplier.GetOfferingOptions)
	mux.HandleFunc("POST /api/suppliers/offerings", auth(h.Supplier.CreateOfferings))
	mux.HandleFunc("GET /api/suppliers/summary", auth(h.Supplier.GetMySummary))
	mux.HandleFunc("GET /api/suppliers/{supplierId}/summary", h.Supplier.GetSupplierSummary)
	mux.HandleFunc("GET /api/suppliers/{supplierId}/profile", h.Supplier.GetSupplierProfile)
	mux.HandleFunc("GET /api/suppliers/{supplierId}/business-hours", h.Supplier.GetBusinessHours)
	mux.HandleFunc("PUT /api/suppliers/business-hours", auth(h.Supplier.UpdateBusinessHours))
	mux.HandleFunc("POST /api/suppliers/referred-by", auth(h.Supplier.ReferredBy))

	mux.HandleFunc("GET /api/suppliers/{supplierId}/reviews", h.Review.GetReviews)
	mux.HandleFunc("POST /api/suppliers/{supplierId}/reviews", auth(h.Review.UpsertReview))

	mux.HandleFunc("POST /api/requests", auth(h.Request.CreateRequest))
	mux.HandleFunc("POST /api/requests/update-status", auth(h.Request.UpdateRequestStatus))
	mux.HandleFunc("GET /api/requests/my", auth(h.Request.GetUserRequests))
	mux.HandleFunc("GET /api/requests/pending-count", auth(h.Request.PendingCount))

	mux.HandleFunc("GET /api/notifications", auth(h.Notification.GetUserNotifications))
	mux.HandleFunc("POST /api/notifications", auth(h.Notification.SendNotification))
	mux.HandleFunc("PUT /api/notifications/read", auth(h.Notification.MarkRead))
	mux.HandleFunc("GET /api/notifications/has-unread", auth(h.Notification.HasUnread))
	mux.HandleFunc("POST /api/notifications/devices", auth(h.Notification.RegisterDevice))

	mux.HandleFunc("GET /api/cars", auth(h.Car.GetUserCars))
	mux.HandleFunc("POST /api/cars", auth(h.Car.CreateCar))
	mux.HandleFunc("PUT /api/cars/{carId}", auth(h.Car.UpdateCar))
	mux.HandleFunc("POST /api/cars/{carId}/obligations", auth(h.Car.CreateObligation))
	mux.HandleFunc("PUT /api/cars/{carId}/obligations/{obligationId}", auth(h.Car.UpdateObligation))
	mux.HandleFunc("DELETE /api/cars/{carId}/obligations/{obligationId}", auth(h.Car.DeleteObligation))

	mux.HandleFunc("POST /api/uploads", auth(h.Upload.Upload))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return mux
}
