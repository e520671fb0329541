package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"receta-digital/internal/agent"
	"receta-digital/internal/config"
	"receta-digital/internal/consultation"
	"receta-digital/internal/gate"
	"receta-digital/internal/report"
	"receta-digital/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to load config")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn().Msg("GEMINI_API_KEY is not set, diagnosis suggestions will fail and degrade to none")
	}

	// Clients and services
	suggester := agent.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	snapshots := store.NewFileStore(cfg.SnapshotPath)
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	svc := consultation.NewService(suggester, snapshots, logger, time.Now, rnd)

	renderer := report.NewRenderer(report.Practitioner{
		Name:        cfg.Practitioner.Name,
		ShortName:   cfg.Practitioner.ShortName,
		Specialty:   cfg.Practitioner.Specialty,
		Credentials: cfg.Practitioner.Credentials,
		Address:     cfg.Practitioner.Address,
		Phones:      cfg.Practitioner.Phones,
	})
	handler := consultation.NewHandler(svc, renderer, cfg.CountryCode)
	accessGate := gate.New(cfg.AccessCode)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			token, ok := accessGate.Submit(body.Code)
			if !ok {
				http.Error(w, "Contraseña incorrecta", http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"token": token})
		})
		r.Get("/session", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(accessGate.Status())
		})

		r.Group(func(r chi.Router) {
			r.Use(accessGate.Middleware)
			consultation.RegisterRoutes(r, handler)
		})
	})

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
