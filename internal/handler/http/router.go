package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-overtime-go/internal/config"
	"github.com/cmlabs-hris/hris-overtime-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(appCfg config.AppConfig, JWTService jwt.Service, overtimeHandler OvertimeHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appCfg.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-overtime"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.RequireCompany)

			RegisterOvertimeRoutes(r, overtimeHandler)
		})
	})
	return r
}

// RegisterOvertimeRoutes mounts the overtime endpoints on r.
func RegisterOvertimeRoutes(r chi.Router, overtimeHandler OvertimeHandler) {
	r.Route("/overtime-slips", func(r chi.Router) {
		r.Get("/", overtimeHandler.ListSlips)
		r.Post("/", overtimeHandler.CreateSlip)
		r.Post("/frequency-and-dates", overtimeHandler.GetFrequencyAndDates)

		r.Route("/batch", func(r chi.Router) {
			r.Post("/eligible", overtimeHandler.FilterEligibleEmployees)
			r.Post("/create", overtimeHandler.BatchCreate)
			r.Post("/submit", overtimeHandler.BatchSubmit)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", overtimeHandler.GetSlip)
			r.Put("/", overtimeHandler.UpdateSlip)
			r.Delete("/", overtimeHandler.DeleteSlip)
			r.Post("/fetch-overtime", overtimeHandler.FetchOvertime)
			r.Post("/submit", overtimeHandler.SubmitSlip)
			r.Post("/cancel", overtimeHandler.CancelSlip)
			r.Get("/additional-salaries", overtimeHandler.ListAdditionalSalaries)
		})
	})

	r.Route("/overtime-types", func(r chi.Router) {
		r.Get("/", overtimeHandler.ListTypes)
		r.Get("/{id}", overtimeHandler.GetType)
	})
}
