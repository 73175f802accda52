package http

import (
	"context"
	"net/http"
	"time"

	"clinic-management-api/internal/delivery/http/handler"
	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/infrastructure/metrics"
	"clinic-management-api/pkg/response"

	"github.com/gorilla/mux"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	Auth            *handler.AuthHandler
	User            *handler.UserHandler
	Patient         *handler.PatientHandler
	Expediente      *handler.ExpedienteHandler
	ClinicalSession *handler.ClinicalSessionHandler
	Appointment     *handler.AppointmentHandler
	Referral        *handler.ReferralHandler
	PatientFile     *handler.PatientFileHandler
	Report          *handler.ReportHandler
	AuditLog        *handler.AuditLogHandler
	DeletionCheck   *handler.DeletionCheckHandler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	metrics           *metrics.Metrics
	healthChecks      map[string]HealthCheck
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	m *metrics.Metrics,
	healthChecks map[string]HealthCheck,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
		metrics:           m,
		healthChecks:      healthChecks,
	}
}

func clinical(fn http.HandlerFunc) http.Handler {
	return middleware.RequireClinical(fn)
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.metrics.Middleware)

	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	// Preflight requests only need the CORS headers.
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", h.Auth.ResetPassword).Methods(http.MethodPost)

	// Auth routes reachable with a temporary password
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/change-password", h.Auth.ChangePassword).Methods(http.MethodPost)

	// Everything else needs a permanent password
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.Use(middleware.RequirePasswordChanged)

	// Patients
	protected.HandleFunc("/patients", h.Patient.GetAllPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients", h.Patient.CreatePatient).Methods(http.MethodPost)
	protected.HandleFunc("/patients/stats", h.Patient.GetStats).Methods(http.MethodGet)
	protected.HandleFunc("/patients/available", h.Patient.GetAvailable).Methods(http.MethodGet)
	protected.HandleFunc("/patients/by-gender/{gender}", h.Patient.GetByGender).Methods(http.MethodGet)
	protected.HandleFunc("/patients/by-age", h.Patient.GetByAge).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id:[0-9]+}", h.Patient.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id:[0-9]+}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{id:[0-9]+}", h.Patient.DeletePatient).Methods(http.MethodDelete)
	protected.HandleFunc("/patients/{id:[0-9]+}/sessions", h.ClinicalSession.GetHistory).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id:[0-9]+}/appointments/{month:[0-9]+}/{year:[0-9]+}", h.Appointment.GetByPatientAndMonth).Methods(http.MethodGet)

	// Patient files
	protected.HandleFunc("/patients/{id:[0-9]+}/photo", h.PatientFile.GetPhoto).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id:[0-9]+}/photo", h.PatientFile.UploadPhoto).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{id:[0-9]+}/photo", h.PatientFile.DeletePhoto).Methods(http.MethodDelete)
	protected.HandleFunc("/patients/{id:[0-9]+}/files", h.PatientFile.GetPatientFiles).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id:[0-9]+}/files", h.PatientFile.UploadDocuments).Methods(http.MethodPost)
	protected.HandleFunc("/files/{id:[0-9]+}", h.PatientFile.DownloadFile).Methods(http.MethodGet)
	protected.HandleFunc("/files/{id:[0-9]+}", h.PatientFile.DeleteFile).Methods(http.MethodDelete)

	// Expedientes
	protected.HandleFunc("/expedientes", h.Expediente.GetAllExpedientes).Methods(http.MethodGet)
	protected.HandleFunc("/expedientes", h.Expediente.CreateExpediente).Methods(http.MethodPost)
	protected.HandleFunc("/expedientes/stats", h.Expediente.GetStats).Methods(http.MethodGet)
	protected.HandleFunc("/expedientes/available", h.Expediente.GetAvailable).Methods(http.MethodGet)
	protected.HandleFunc("/expedientes/generate-number", h.Expediente.GenerateNumber).Methods(http.MethodGet)
	protected.HandleFunc("/expedientes/{id:[0-9]+}", h.Expediente.GetExpediente).Methods(http.MethodGet)
	protected.HandleFunc("/expedientes/{id:[0-9]+}", h.Expediente.UpdateExpediente).Methods(http.MethodPut)
	protected.HandleFunc("/expedientes/{id:[0-9]+}", h.Expediente.DeleteExpediente).Methods(http.MethodDelete)
	protected.HandleFunc("/expedientes/{id:[0-9]+}/referrals", h.Referral.GetByExpediente).Methods(http.MethodGet)

	// Deletion pre-checks
	protected.HandleFunc("/deletion-checks/{kind}/{id:[0-9]+}", h.DeletionCheck.Check).Methods(http.MethodGet)

	// Clinical sessions (writes need a clinical role)
	protected.Handle("/sessions", clinical(h.ClinicalSession.CreateSession)).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id:[0-9]+}", h.ClinicalSession.GetSession).Methods(http.MethodGet)
	protected.Handle("/sessions/{id:[0-9]+}", clinical(h.ClinicalSession.UpdateSession)).Methods(http.MethodPut)
	protected.Handle("/sessions/{id:[0-9]+}", clinical(h.ClinicalSession.DeleteSession)).Methods(http.MethodDelete)

	// Appointments
	protected.HandleFunc("/appointments", h.Appointment.GetAllAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", h.Appointment.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/transport", h.Appointment.GetWithTransport).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/therapist/{therapist}/{date}", h.Appointment.GetByTherapistAndDay).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id:[0-9]+}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id:[0-9]+}", h.Appointment.UpdateAppointment).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id:[0-9]+}", h.Appointment.CancelAppointment).Methods(http.MethodDelete)

	// Clinics and referrals
	protected.HandleFunc("/clinics", h.Referral.GetClinics).Methods(http.MethodGet)
	protected.Handle("/referrals", clinical(h.Referral.CreateReferral)).Methods(http.MethodPost)
	protected.HandleFunc("/referrals/{id:[0-9]+}", h.Referral.GetReferral).Methods(http.MethodGet)
	protected.Handle("/referrals/{id:[0-9]+}/complete", clinical(h.Referral.CompleteReferral)).Methods(http.MethodPut)
	protected.Handle("/referrals/{id:[0-9]+}", clinical(h.Referral.CancelReferral)).Methods(http.MethodDelete)

	// Reports
	protected.HandleFunc("/reports/dashboard", h.Report.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/reports/patients", h.Report.Patients).Methods(http.MethodGet)
	protected.HandleFunc("/reports/age-groups", h.Report.AgeGroups).Methods(http.MethodGet)
	protected.HandleFunc("/reports/consultations", h.Report.Consultations).Methods(http.MethodGet)
	protected.HandleFunc("/reports/appointments", h.Report.Appointments).Methods(http.MethodGet)
	protected.HandleFunc("/reports/referrals", h.Report.Referrals).Methods(http.MethodGet)
	protected.HandleFunc("/reports/export/{format}", h.Report.Export).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequirePasswordChanged)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/users", h.User.GetAllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.User.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", h.User.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", h.User.UpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", h.User.DeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/roles", h.User.GetRoles).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(r.healthChecks))
	healthy := true
	for name, check := range r.healthChecks {
		if err := check(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		response.Error(w, http.StatusServiceUnavailable, "Service unavailable", status)
		return
	}
	response.Success(w, http.StatusOK, "Service healthy", status)
}
