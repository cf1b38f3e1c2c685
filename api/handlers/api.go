package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
	"github.com/wecarehhcs/homecare-api/providers"
)

var (
	// Page denotes the starting Page for pagination results
	Page = 0
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	m := api.MiddlewareDB{DB: databases.NewAccountDatabase(a.dbHelper), Secret: a.Config.JWTSecret}

	emailSender := providers.NewEmailSender(&a.Config)
	pushSender := providers.NewPushSender(&a.Config)
	otpSender := providers.NewOTPSender(&a.Config)
	aadhaarVerifier := providers.NewAadhaarVerifier(&a.Config)

	accountDB := databases.NewAccountDatabase(a.dbHelper)
	nurseDB := databases.NewNurseProfileDatabase(a.dbHelper)
	consentDB := databases.NewNurseConsentDatabase(a.dbHelper)
	dutyDB := databases.NewNurseDutyDatabase(a.dbHelper)
	patientDB := databases.NewPatientProfileDatabase(a.dbHelper)

	auth := Auth{DB: accountDB, OTP: otpSender, M: m}
	nurse := Nurse{DB: nurseDB, ADB: accountDB, CDB: consentDB, DDB: dutyDB, PDB: patientDB}
	nurseAdmin := NurseAdmin{
		DB:    nurseDB,
		ADB:   accountDB,
		CDB:   consentDB,
		DDB:   dutyDB,
		AtDB:  databases.NewNurseAttendanceDatabase(a.dbHelper),
		SDB:   databases.NewNurseSalaryDatabase(a.dbHelper),
		Email: emailSender,
	}
	consent := Consent{DB: consentDB, NDB: nurseDB, DDB: dutyDB}
	duty := Duty{DB: dutyDB, NDB: nurseDB, PDB: patientDB, CDB: consentDB}
	attendance := Attendance{DB: databases.NewNurseAttendanceDatabase(a.dbHelper), NDB: nurseDB}
	salary := Salary{DB: databases.NewNurseSalaryDatabase(a.dbHelper), NDB: nurseDB}
	location := Location{DB: databases.NewNurseLocationDatabase(a.dbHelper), NDB: nurseDB}
	visit := Visit{DB: databases.NewNurseVisitDatabase(a.dbHelper), NDB: nurseDB, PDB: patientDB}
	patient := Patient{
		DB:    patientDB,
		ADB:   accountDB,
		VDB:   databases.NewPatientVitalsDatabase(a.dbHelper),
		NoDB:  databases.NewPatientNoteDatabase(a.dbHelper),
		MDB:   databases.NewPatientMedicationDatabase(a.dbHelper),
		MedDB: databases.NewMedicineDatabase(a.dbHelper),
		RDB:   databases.NewRelativeAccessDatabase(a.dbHelper),
		DDB:   dutyDB,
		NDB:   nurseDB,
	}
	doctor := Doctor{
		DB:  databases.NewDoctorProfileDatabase(a.dbHelper),
		ADB: accountDB,
		VDB: databases.NewDoctorVisitDatabase(a.dbHelper),
		MDB: databases.NewPatientMedicationDatabase(a.dbHelper),
	}
	medicine := Medicine{DB: databases.NewMedicineDatabase(a.dbHelper)}
	billing := Billing{
		DB:     databases.NewPatientBillDatabase(a.dbHelper),
		IDB:    databases.NewPatientInvoiceDatabase(a.dbHelper),
		MDB:    databases.NewPatientMedicationDatabase(a.dbHelper),
		PDB:    patientDB,
		ADB:    accountDB,
		Config: a.Config,
	}
	export := Export{
		ADB:   accountDB,
		NDB:   nurseDB,
		PDB:   patientDB,
		DDB:   dutyDB,
		VDB:   databases.NewPatientVitalsDatabase(a.dbHelper),
		MDB:   databases.NewPatientMedicationDatabase(a.dbHelper),
		BDB:   databases.NewPatientBillDatabase(a.dbHelper),
		DocDB: databases.NewDoctorProfileDatabase(a.dbHelper),
		StfDB: databases.NewStaffDatabase(a.dbHelper),
	}
	sos := SOS{
		DB:   databases.NewSOSAlertDatabase(a.dbHelper),
		DDB:  dutyDB,
		PDB:  patientDB,
		NDB:  nurseDB,
		ADB:  accountDB,
		TDB:  databases.NewPushTokenDatabase(a.dbHelper),
		NoDB: databases.NewNotificationDatabase(a.dbHelper),
		Push: pushSender,
	}
	complaint := Complaint{DB: databases.NewComplaintDatabase(a.dbHelper)}
	notification := Notification{
		DB:   databases.NewNotificationDatabase(a.dbHelper),
		TDB:  databases.NewPushTokenDatabase(a.dbHelper),
		ADB:  accountDB,
		Push: pushSender,
	}
	payment := Payment{
		DB:     databases.NewPaymentOrderDatabase(a.dbHelper),
		BDB:    databases.NewPatientBillDatabase(a.dbHelper),
		Config: a.Config,
	}
	upload := Upload{Config: a.Config}
	aadhaar := Aadhaar{
		NDB:      nurseDB,
		JDB:      databases.NewVerificationJobDatabase(a.dbHelper),
		Verifier: aadhaarVerifier,
	}

	r := mux.NewRouter()

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	adminOnly := m.Protect(models.RoleAdmin)
	nurseOnly := m.Protect(models.RoleNurse)
	patientOnly := m.Protect(models.RolePatient)
	doctorOnly := m.Protect(models.RoleDoctor)
	anyUser := m.Protect()

	apiCreate.Handle("/auth/send-otp", http.HandlerFunc(auth.SendOTPHandler)).Methods("POST")
	apiCreate.Handle("/auth/verify-otp", http.HandlerFunc(auth.VerifyOTPHandler)).Methods("POST")
	apiCreate.Handle("/auth/login", http.HandlerFunc(auth.PasswordLoginHandler)).Methods("POST")
	apiCreate.Handle("/auth/me", anyUser(http.HandlerFunc(auth.MeHandler))).Methods("GET")
	apiCreate.Handle("/auth/logout", anyUser(http.HandlerFunc(auth.LogoutHandler))).Methods("DELETE")
	apiCreate.Handle("/auth/block/{user_id}", adminOnly(http.HandlerFunc(auth.BlockHandler))).Methods("POST")
	apiCreate.Handle("/auth/unblock/{user_id}", adminOnly(http.HandlerFunc(auth.UnblockHandler))).Methods("POST")

	apiCreate.Handle("/nurse/self-signup", http.HandlerFunc(nurse.SelfSignupHandler)).Methods("POST")
	apiCreate.Handle("/nurse/me", nurseOnly(http.HandlerFunc(nurse.MyProfileHandler))).Methods("GET")
	apiCreate.Handle("/nurse/me", nurseOnly(http.HandlerFunc(nurse.UpdateMyProfileHandler))).Methods("PUT")
	apiCreate.Handle("/nurse/me/signature", nurseOnly(http.HandlerFunc(nurse.UpdateSignatureHandler))).Methods("PUT")
	apiCreate.Handle("/nurse/me/dashboard", nurseOnly(http.HandlerFunc(nurse.DashboardHandler))).Methods("GET")
	apiCreate.Handle("/nurse/me/eligibility", nurseOnly(http.HandlerFunc(nurse.EligibilityHandler))).Methods("GET")
	apiCreate.Handle("/nurse/me/patients", nurseOnly(http.HandlerFunc(nurse.MyPatientsHandler))).Methods("GET")

	apiCreate.Handle("/admin/nurses", adminOnly(http.HandlerFunc(nurseAdmin.ListHandler))).Methods("GET")
	apiCreate.Handle("/admin/nurse", adminOnly(http.HandlerFunc(nurseAdmin.CreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/nurse/{nurse_id}", adminOnly(http.HandlerFunc(nurseAdmin.DetailHandler))).Methods("GET")
	apiCreate.Handle("/admin/nurse/{nurse_id}", adminOnly(http.HandlerFunc(nurseAdmin.UpdateHandler))).Methods("PUT")
	apiCreate.Handle("/admin/nurse/{nurse_id}", adminOnly(http.HandlerFunc(nurseAdmin.DeleteHandler))).Methods("DELETE")
	apiCreate.Handle("/admin/nurse/{nurse_id}/verification", adminOnly(http.HandlerFunc(nurseAdmin.VerificationHandler))).Methods("PUT")
	apiCreate.Handle("/admin/nurse/{nurse_id}/police-status", adminOnly(http.HandlerFunc(nurseAdmin.PoliceStatusHandler))).Methods("PUT")

	apiCreate.Handle("/nurse/consent/sign", nurseOnly(http.HandlerFunc(consent.SignHandler))).Methods("POST")
	apiCreate.Handle("/nurse/consent", nurseOnly(http.HandlerFunc(consent.StatusHandler))).Methods("GET")
	apiCreate.Handle("/admin/nurse/{nurse_id}/consent/revoke", adminOnly(http.HandlerFunc(consent.RevokeHandler))).Methods("POST")

	apiCreate.Handle("/admin/duty/assign", adminOnly(http.HandlerFunc(duty.AssignHandler))).Methods("POST")
	apiCreate.Handle("/nurse/duty/current", nurseOnly(http.HandlerFunc(duty.CurrentHandler))).Methods("GET")
	apiCreate.Handle("/admin/duty/{duty_id}/deactivate", adminOnly(http.HandlerFunc(duty.DeactivateHandler))).Methods("POST")

	apiCreate.Handle("/nurse/attendance/check-in", nurseOnly(http.HandlerFunc(attendance.CheckInHandler))).Methods("POST")
	apiCreate.Handle("/nurse/attendance/check-out", nurseOnly(http.HandlerFunc(attendance.CheckOutHandler))).Methods("POST")
	apiCreate.Handle("/nurse/{nurse_id}/attendance/{month}", m.Protect(models.RoleAdmin, models.RoleNurse)(http.HandlerFunc(attendance.MonthlyReportHandler))).Methods("GET")

	apiCreate.Handle("/admin/salary/generate", adminOnly(http.HandlerFunc(salary.GenerateHandler))).Methods("POST")
	apiCreate.Handle("/admin/salary/{salary_id}/mark-paid", adminOnly(http.HandlerFunc(salary.MarkPaidHandler))).Methods("POST")
	apiCreate.Handle("/nurse/salary/advance", nurseOnly(http.HandlerFunc(salary.AdvanceHandler))).Methods("POST")
	apiCreate.Handle("/nurse/salary", nurseOnly(http.HandlerFunc(salary.MyHandler))).Methods("GET")

	apiCreate.Handle("/nurse/location", nurseOnly(http.HandlerFunc(location.UpdateHandler))).Methods("POST")
	apiCreate.Handle("/admin/nurse/{nurse_id}/location", adminOnly(http.HandlerFunc(location.TrackHandler))).Methods("GET")

	apiCreate.Handle("/nurse/visits", nurseOnly(http.HandlerFunc(visit.CreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/visits", adminOnly(http.HandlerFunc(visit.AdminCreateHandler))).Methods("POST")
	apiCreate.Handle("/nurse/visits/{visit_id}/complete", nurseOnly(http.HandlerFunc(visit.CompleteHandler))).Methods("POST")
	apiCreate.Handle("/nurse/visits", nurseOnly(http.HandlerFunc(visit.ListHandler))).Methods("GET")

	apiCreate.Handle("/patient", adminOnly(http.HandlerFunc(patient.CreateHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}", anyUser(http.HandlerFunc(patient.GetHandler))).Methods("GET")
	apiCreate.Handle("/patient/{patient_id}/documents", anyUser(http.HandlerFunc(patient.AddDocumentHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/documents/{doc_type}", anyUser(http.HandlerFunc(patient.DeleteDocumentHandler))).Methods("DELETE")
	apiCreate.Handle("/patient/{patient_id}/vitals", m.Protect(models.RoleNurse, models.RoleDoctor, models.RoleAdmin)(http.HandlerFunc(patient.AddVitalsHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/vitals", anyUser(http.HandlerFunc(patient.ListVitalsHandler))).Methods("GET")
	apiCreate.Handle("/patient/{patient_id}/notes", m.Protect(models.RoleNurse, models.RoleDoctor, models.RoleAdmin)(http.HandlerFunc(patient.AddNoteHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/notes", anyUser(http.HandlerFunc(patient.ListNotesHandler))).Methods("GET")
	apiCreate.Handle("/patient/{patient_id}/medications", m.Protect(models.RoleDoctor, models.RoleAdmin)(http.HandlerFunc(patient.AddMedicationHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/medications", anyUser(http.HandlerFunc(patient.ListMedicationsHandler))).Methods("GET")
	apiCreate.Handle("/patient/{patient_id}/prescribe", doctorOnly(http.HandlerFunc(patient.PrescribeHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/assign-nurse", m.Protect(models.RolePatient, models.RoleRelative)(http.HandlerFunc(patient.AssignNurseHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/relatives", patientOnly(http.HandlerFunc(patient.AddRelativeHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/relatives/{relative_id}", patientOnly(http.HandlerFunc(patient.RemoveRelativeHandler))).Methods("DELETE")
	apiCreate.Handle("/patient/{patient_id}/nurses", anyUser(http.HandlerFunc(patient.NursesHandler))).Methods("GET")

	apiCreate.Handle("/doctor", adminOnly(http.HandlerFunc(doctor.CreateHandler))).Methods("POST")
	apiCreate.Handle("/doctor/availability", doctorOnly(http.HandlerFunc(doctor.AvailabilityHandler))).Methods("PUT")
	apiCreate.Handle("/doctor/visits", doctorOnly(http.HandlerFunc(doctor.CreateVisitHandler))).Methods("POST")
	apiCreate.Handle("/doctor/visits", doctorOnly(http.HandlerFunc(doctor.ListVisitsHandler))).Methods("GET")
	apiCreate.Handle("/doctor/patients", doctorOnly(http.HandlerFunc(doctor.MyPatientsHandler))).Methods("GET")

	apiCreate.Handle("/admin/medicine", adminOnly(http.HandlerFunc(medicine.CreateHandler))).Methods("POST")
	apiCreate.Handle("/admin/medicine/{medicine_id}", adminOnly(http.HandlerFunc(medicine.UpdateHandler))).Methods("PUT")
	apiCreate.Handle("/admin/medicine/{medicine_id}", adminOnly(http.HandlerFunc(medicine.DeleteHandler))).Methods("DELETE")
	apiCreate.Handle("/medicines", anyUser(http.HandlerFunc(medicine.ListHandler))).Methods("GET")

	apiCreate.Handle("/patient/{patient_id}/bill", adminOnly(http.HandlerFunc(billing.GenerateHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/bills", anyUser(http.HandlerFunc(billing.ListHandler))).Methods("GET")
	apiCreate.Handle("/bill/{bill_id}/pdf", anyUser(http.HandlerFunc(billing.DownloadPDFHandler))).Methods("GET")
	apiCreate.Handle("/bill/{bill_id}/mark-paid", adminOnly(http.HandlerFunc(billing.MarkPaidHandler))).Methods("POST")
	apiCreate.Handle("/patient/{patient_id}/invoices", anyUser(http.HandlerFunc(billing.InvoicesHandler))).Methods("GET")

	apiCreate.Handle("/sos", m.Protect(models.RolePatient, models.RoleRelative)(http.HandlerFunc(sos.TriggerHandler))).Methods("POST")
	apiCreate.Handle("/sos/active", adminOnly(http.HandlerFunc(sos.ActiveHandler))).Methods("GET")
	apiCreate.Handle("/sos/{sos_id}/resolve", adminOnly(http.HandlerFunc(sos.ResolveHandler))).Methods("POST")

	apiCreate.Handle("/complaints", anyUser(http.HandlerFunc(complaint.CreateHandler))).Methods("POST")
	apiCreate.Handle("/complaints", anyUser(http.HandlerFunc(complaint.ListHandler))).Methods("GET")
	apiCreate.Handle("/complaints/{complaint_id}/status", adminOnly(http.HandlerFunc(complaint.UpdateStatusHandler))).Methods("PUT")

	apiCreate.Handle("/notifications", anyUser(http.HandlerFunc(notification.ListHandler))).Methods("GET")
	apiCreate.Handle("/notifications/{notification_id}/read", anyUser(http.HandlerFunc(notification.MarkReadHandler))).Methods("PUT")
	apiCreate.Handle("/notifications/{notification_id}", anyUser(http.HandlerFunc(notification.DeleteHandler))).Methods("DELETE")
	apiCreate.Handle("/notifications/broadcast", adminOnly(http.HandlerFunc(notification.BroadcastHandler))).Methods("POST")
	apiCreate.Handle("/push-tokens", anyUser(http.HandlerFunc(notification.RegisterTokenHandler))).Methods("POST")

	apiCreate.Handle("/payments/create-checkout-session", m.Protect(models.RolePatient, models.RoleRelative)(http.HandlerFunc(payment.CreateCheckoutSessionHandler))).Methods("POST")
	apiCreate.Handle("/payments/webhook", http.HandlerFunc(payment.WebhookHandler)).Methods("POST")

	apiCreate.Handle("/admin/export/excel", adminOnly(http.HandlerFunc(export.ExcelHandler))).Methods("GET")

	apiCreate.Handle("/uploads", anyUser(http.HandlerFunc(upload.UploadHandler))).Methods("POST")

	apiCreate.Handle("/nurse/aadhaar/generate-otp", nurseOnly(http.HandlerFunc(aadhaar.GenerateOTPHandler))).Methods("POST")
	apiCreate.Handle("/nurse/aadhaar/verify-otp", nurseOnly(http.HandlerFunc(aadhaar.VerifyOTPHandler))).Methods("POST")

	// uploaded documents and generated bill PDFs served as static files
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(a.Config.UploadsDir))))
	r.PathPrefix("/media/").Handler(http.StripPrefix("/media/", http.FileServer(http.Dir(a.Config.MediaDir))))

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("homecare-api has connected to the database")

	if a.Config.StripeSecretKey == "" {
		return fmt.Errorf("stripe secret key is not set")
	}
	stripe.Key = a.Config.StripeSecretKey

	// initialize api router
	a.initializeRoutes()
	return nil
}

// DatabaseHelper exposes the shared db handle for background workers.
func (a *App) DatabaseHelper() databases.DatabaseHelper {
	return a.dbHelper
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

func getPage(Page int, r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		zap.S().Warnf("page not set, using default of %v", Page)
	} else {
		var err error
		Page, err = strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			zap.S().Errorf(fmt.Sprintf("error parsing page number: %v", err))
		}
		if Page < 0 {
			zap.S().Warnf(fmt.Sprintf("cannot process page number less than 1. Got: %v", Page))
			return 0
		}
	}
	return Page
}
