package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"golang.org/x/crypto/bcrypt"

	"github.com/station95-rescue/duty-roster/backend/internal/config"
	"github.com/station95-rescue/duty-roster/backend/internal/service"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	roster        *service.RosterService
	translator    ut.Translator
	adminPassword []byte // bcrypt hash of the configured admin password

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, rosterService *service.RosterService) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		roster:        rosterService,
		translator:    trans,
		adminPassword: adminHash,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// roster commands require a logged-in admin
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/roster/{date}", func(r chi.Router) {
			r.Use(h.rosterDate)
			r.Get("/", h.GetRosterDay)
			r.Post("/commands", h.ExecuteCommand)
			r.Get("/backups", h.ListBackups)
			r.Post("/rollback", h.Rollback)
		})
	})
}
