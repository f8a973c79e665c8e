package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	api "github.com/vidyasetu/exam-portal/internal/api/http"
	auth "github.com/vidyasetu/exam-portal/internal/auth/middleware"
	"github.com/vidyasetu/exam-portal/internal/bank"
	"github.com/vidyasetu/exam-portal/internal/config"
	"github.com/vidyasetu/exam-portal/internal/db"
	"github.com/vidyasetu/exam-portal/internal/exam"
	rbac "github.com/vidyasetu/exam-portal/internal/rbac"
	storage "github.com/vidyasetu/exam-portal/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := seedAdmin(ctx, dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	examStore := exam.NewSQLStore(dbh)
	bankStore := bank.NewSQLStore(dbh)
	examSvc := exam.NewService(examStore, exam.NewEventRepo(dbh), cfg.Batches)
	solver := bank.NewKeySolver(bankStore)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsDev
	if cfg.Mode == config.ModeProd {
		origins = cfg.CORSOriginsProd
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/api/auth/login", auth.LoginHandler(authSvc, dbh))

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// Assets are public reads: diagram URLs are embedded in exported papers.
	r.Route("/assets", func(ar chi.Router) {
		api.MountAssets(ar, bs)
	})

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, true))

		pr.Get("/api/auth/me", auth.MeHandler(dbh))

		// Teachers may only edit or delete their own exams; admins ("*") pass
		// the exam:manage_any fallback.
		ownsExam := func(r *http.Request) bool {
			e, err := examStore.GetExam(r.Context(), chi.URLParam(r, "examID"))
			return err == nil && e.CreatedBy == rbac.SubjectFromContext(r.Context())
		}

		// Exams
		pr.With(rbac.Require("exam:create")).
			Post("/api/exams", api.CreateExamHandler(examStore))
		pr.With(rbac.Require("exam:view")).
			Get("/api/exams", api.ListExamsHandler(examStore))
		pr.With(rbac.Require("exam:view")).
			Get("/api/exams/{examID}", api.GetExamHandler(examStore))
		pr.With(rbac.Require("exam:edit"), rbac.RequireOwnerOr("exam:manage_any", ownsExam)).
			Put("/api/exams/{examID}", api.UpdateExamHandler(examStore))
		pr.With(rbac.Require("exam:delete"), rbac.RequireOwnerOr("exam:manage_any", ownsExam)).
			Delete("/api/exams/{examID}", api.DeleteExamHandler(examStore))
		pr.With(rbac.Require("exam:publish")).
			Post("/api/exams/{examID}/assign", api.AssignExamHandler(examSvc))
		pr.With(rbac.Require("exam:publish")).
			Post("/api/exams/{examID}/toggle-publish", api.TogglePublishHandler(examSvc))
		pr.With(rbac.Require("exam:export")).
			Get("/api/exams/{examID}/export", api.ExportExamHandler(examStore, bankStore))

		// Question bank
		pr.With(rbac.Require("bank:view")).
			Get("/api/ai/questions/class/{classLevel}", api.ListQuestionsHandler(bankStore))
		pr.With(rbac.Require("bank:view")).
			Get("/api/ai/questions/class/{classLevel}/filters", api.FilterOptionsHandler(bankStore))
		pr.With(rbac.Require("bank:view")).
			Get("/api/ai/questions/class/{classLevel}/{questionID}", api.GetQuestionHandler(bankStore))
		pr.With(rbac.Require("bank:edit")).
			Post("/api/ai/questions/class/{classLevel}", api.PutQuestionHandler(bankStore))
		pr.With(rbac.Require("bank:edit")).
			Put("/api/ai/questions/class/{classLevel}/{questionID}", api.PutQuestionHandler(bankStore))
		pr.With(rbac.Require("bank:edit")).
			Delete("/api/ai/questions/class/{classLevel}/{questionID}", api.DeleteQuestionHandler(bankStore))
		pr.With(rbac.Require("bank:edit")).
			Post("/api/ai/questions/class/{classLevel}/bulk-update", api.BulkUpdateHandler(bankStore))
		pr.With(rbac.Require("bank:solve")).
			Post("/api/ai/questions/class/{classLevel}/solve", api.SolveHandler(solver))
		pr.With(rbac.Require("bank:solve")).
			Post("/api/ai/questions/class/{classLevel}/solve-batch", api.SolveBatchHandler(solver))

		// Uploads
		pr.With(rbac.Require("upload:image")).
			Post("/api/uploads/image", api.UploadImageHandler(bs))

		// Papers
		pr.With(rbac.Require("paper:edit")).
			Post("/api/papers", api.CreatePaperHandler(dbh, examStore, bankStore))
		pr.With(rbac.Require("paper:view")).
			Get("/api/papers", api.ListPapersHandler(dbh))
		pr.With(rbac.Require("paper:view")).
			Get("/api/papers/{paperID}", api.GetPaperHandler(dbh))
		pr.With(rbac.Require("paper:edit")).
			Put("/api/papers/{paperID}", api.UpdatePaperHandler(dbh))
		pr.With(rbac.Require("paper:edit")).
			Delete("/api/papers/{paperID}", api.DeletePaperHandler(dbh))
		pr.With(rbac.Require("paper:export")).
			Get("/api/papers/{paperID}/export", api.ExportPaperHandler(dbh))

		// Users (admin, except password change)
		pr.With(rbac.Require("users:create")).
			Post("/api/users", api.CreateUserHandler(dbh))
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/api/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/api/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("users:dashboard")).
			Get("/api/users/dashboard", api.DashboardHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/api/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// seedAdmin makes sure the configured admin account can log in on a fresh DB.
func seedAdmin(ctx context.Context, dbh *sql.DB, username, passHash string) error {
	if username == "" || passHash == "" {
		return nil
	}
	var n int
	if err := dbh.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username=$1`, username).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := dbh.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,$4,$5)`,
		username, username, passHash, "admin", time.Now().Unix())
	return err
}
