package router

import (
	"database/sql"
	"net/http"

	"pet-supply-store/internal/adapters/catalogfiles"
	mem "pet-supply-store/internal/adapters/storage/memory"
	pg "pet-supply-store/internal/adapters/storage/postgres"
	"pet-supply-store/internal/adapters/usersapi"
	"pet-supply-store/internal/domain/auth"
	"pet-supply-store/internal/domain/cart"
	"pet-supply-store/internal/domain/catalog"
	"pet-supply-store/internal/domain/checkout"
	"pet-supply-store/internal/middleware"
	"pet-supply-store/internal/platform/httpclient"
	"pet-supply-store/internal/platform/logger"
	"pet-supply-store/internal/ports/storage"
	"pet-supply-store/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Logger logger.Logger

	// Catálogo: directorio local y/o URL de fallback (al menos uno).
	CatalogDir string
	CatalogURL string

	// Backend mock de usuarios. Puede venir UsersAPI ya armado
	// (tests) o la URL para construir el client real.
	UsersAPI    auth.UsersAPI
	UsersAPIURL string

	// Opcional: si viene, usa Postgres para el storage de sesión.
	// Si no, in-memory.
	DB *sql.DB

	// Opcional: storage explícito (tests). Gana sobre DB.
	Store storage.Store
}

// New arma el router completo: storage de sesión, adapters y rutas
// por módulo. Devuelve también el session.Manager para que main
// cierre las suscripciones al apagarse.
func New(opts Options) (http.Handler, *session.Manager, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.SessionContext)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Storage de sesión: explícito > Postgres > in-memory
	var root storage.Store
	switch {
	case opts.Store != nil:
		root = opts.Store
	case opts.DB != nil:
		root = pg.NewStore(opts.DB)
	default:
		root = mem.NewStore()
	}
	sessions := session.NewManager(root)

	// Catálogo
	catalogRepo, err := catalogfiles.New(catalogfiles.Options{
		Dir:         opts.CatalogDir,
		FallbackURL: opts.CatalogURL,
	})
	if err != nil {
		return nil, nil, err
	}
	catalogSvc := catalog.NewService(catalogRepo, log)

	// Usuarios (backend mock externo)
	usersAPI := opts.UsersAPI
	if usersAPI == nil {
		client, err := usersapi.NewClient(usersapi.Config{
			BaseURL: opts.UsersAPIURL,
			Timeout: httpclient.DefaultTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		usersAPI = client
	}

	authSvc := auth.NewService(usersAPI, sessions, log)
	checkoutSvc := checkout.NewService(log)

	// Rutas por módulo
	catalog.RegisterRoutes(r, catalogSvc)
	cart.RegisterRoutes(r, sessions, log)
	checkout.RegisterRoutes(r, checkoutSvc, sessions)
	auth.RegisterRoutes(r, authSvc)

	return r, sessions, nil
}
