package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"lifeboard/internal/http/handlers"
	"lifeboard/internal/middleware"
)

// Options configures the middleware stack around the handlers.
type Options struct {
	Tokens          middleware.TokenVerifier
	Logger          zerolog.Logger
	CORSOrigins     []string
	RateLimitPerMin int
	DefaultLocale   string
	Country         middleware.CountryLookup
	// StaticDir, when set, is served under /static (filesystem photo storage).
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.Country),
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
	)

	r.Get("/", app.Welcome)
	r.Get("/v1/healthz", app.Health)

	if opts.StaticDir != "" {
		r.With(middleware.NoSniff).Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.AuthRegister)
		r.Post("/login", app.AuthLogin)
		r.Post("/google", app.AuthGoogle)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.Tokens))

		r.Route("/user", func(r chi.Router) {
			r.Get("/me", app.Me)
			r.Put("/profile", app.UpdateProfile)
			r.Get("/{id}", app.UserByID)
		})

		r.Route("/agenda/tarefas", func(r chi.Router) {
			r.Get("/", app.ListTasks)
			r.Post("/", app.CreateTask)
			r.Patch("/{id}", app.ToggleTask)
			r.Delete("/{id}", app.DeleteTask)
		})

		r.Route("/habitos", func(r chi.Router) {
			r.Get("/", app.ListHabits)
			r.Post("/", app.CreateHabit)
			r.Patch("/{id}", app.ToggleHabit)
			r.Delete("/{id}", app.DeleteHabit)
		})

		r.Route("/estudos", func(r chi.Router) {
			r.Get("/materias", app.ListSubjects)
			r.Post("/materias", app.CreateSubject)
			r.Post("/materias/update-list", app.ReplaceSubjects)
			r.Get("/historico", app.ListStudyHistory)
			r.Post("/historico", app.CreateStudySession)
		})

		r.Route("/treinos", func(r chi.Router) {
			r.Get("/", app.ListWorkouts)
			r.Post("/", app.CreateWorkout)
			r.Delete("/{id}", app.DeleteWorkout)
		})

		r.Route("/financas", func(r chi.Router) {
			r.Get("/", app.ListTransactions)
			r.Post("/", app.CreateTransaction)
			r.Get("/resumo", app.FinanceSummary)
			r.Delete("/{id}", app.DeleteTransaction)
		})

		r.Route("/saude", func(r chi.Router) {
			r.Get("/", app.GetHealth)
			r.Post("/", app.UpsertHealth)
		})

		r.Route("/diario", func(r chi.Router) {
			r.Get("/", app.ListDiary)
			r.Post("/upload", app.UploadDiary)
			r.Delete("/{id}", app.DeleteDiaryEntry)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Get("/", app.GetProgress)
			r.Get("/export", app.ExportProgress)
			r.Get("/{module}", app.GetModule)
			r.Put("/{module}", app.PutModule)
		})
	})

	return r
}
