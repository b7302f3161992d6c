package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadmintenders "bqc-backend/http-server/admin/get"
	removeadmintender "bqc-backend/http-server/admin/remove"
	getlookups "bqc-backend/http-server/constants/get"
	"bqc-backend/http-server/generate-report/document"
	"bqc-backend/http-server/generate-report/register"
	"bqc-backend/http-server/qualify"
	gettender "bqc-backend/http-server/tender/get"
	savetender "bqc-backend/http-server/tender/save"
	"bqc-backend/internal/config"
	"bqc-backend/internal/middleware/auth"
	"bqc-backend/internal/service"
	generate_report "bqc-backend/internal/service/generate-report"
	"bqc-backend/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, bqcService *service.BqcService, reportService *generate_report.ReportService) *chi.Mux {
	router := chi.NewRouter()

	// desktop form bridge and the streamlit dev server
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8501", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// option tables for the form frontends
	router.Get("/api/constants/lookups", getlookups.GetLookups(log))

	// tender records, keyed by owner + reference number
	router.Post("/api/tenders", savetender.SaveTenderRecord(log, storage))
	router.Get("/api/tenders", gettender.GetTendersByUser(log, storage))
	router.Get("/api/tenders/tender/{refNumber}", gettender.GetTenderDetails(log, bqcService))

	// live recompute while the form is being edited
	router.Post("/api/tenders/qualify", qualify.QualifyTender(log))

	// assembled BQC note payload for the document renderer
	router.Get("/api/tenders/document", document.GetBqcDocument(log, storage))

	// xlsx register for the procurement group
	router.Get("/api/report/register", register.GenerateRegisterExcel(log, reportService))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/tenders", getadmintenders.GetAllTendersAdmin(log, storage))
	adminRouter.Delete("/tenders/{id}", removeadmintender.DeleteTenderAdmin(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
