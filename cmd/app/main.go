package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/chris/timelock-payments/pkg/batch"
	"github.com/chris/timelock-payments/pkg/config"
	batchhandler "github.com/chris/timelock-payments/pkg/handlers/batch"
	lockshandler "github.com/chris/timelock-payments/pkg/handlers/locks"
	paymentshandler "github.com/chris/timelock-payments/pkg/handlers/payments"
	professionalshandler "github.com/chris/timelock-payments/pkg/handlers/professionals"
	wallethandler "github.com/chris/timelock-payments/pkg/handlers/wallet"
	"github.com/chris/timelock-payments/pkg/ledger"
	"github.com/chris/timelock-payments/pkg/ledger/bridge"
	"github.com/chris/timelock-payments/pkg/middleware"
	"github.com/chris/timelock-payments/pkg/payments"
	"github.com/chris/timelock-payments/pkg/reconcile"
	"github.com/chris/timelock-payments/pkg/storage/sqlite"
	"github.com/chris/timelock-payments/pkg/websockets"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()
	store, err := sqlite.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	// Ledger gateway over the wallet-bridge daemon.
	wallet := bridge.New(cfg.BridgeURL)
	state := ledger.NewConnectionState()
	gateway := ledger.NewGateway(wallet, cfg.ContractAddress, state, logger)

	// Push wallet connection changes to subscribed UI sessions.
	hub := websockets.NewHub(logger)
	state.Subscribe(func(c ledger.Connection) {
		msg := websockets.Message{
			Type:    websockets.MessageTypeWalletUpdate,
			Payload: websockets.WalletUpdatePayload{Address: c.Address, Connected: c.Connected},
		}
		if err := hub.Publish(context.Background(), msg); err != nil {
			logger.Error("failed to publish wallet update", "error", err)
		}
	})

	recorder := payments.NewRecorder(store, store, logger, nil)
	tracker := reconcile.NewTracker(store, hub, logger, cfg.ConfirmTimeout)
	scheduler := batch.NewScheduler(store, gateway, logger, cfg.BatchPace, nil)

	paymentsH := paymentshandler.NewPaymentsHandler(store, recorder, tracker, gateway)
	professionalsH := professionalshandler.NewProfessionalsHandler(store)
	locksH := lockshandler.NewLocksHandler(gateway)
	walletH := wallethandler.NewWalletHandler(gateway)
	batchH := batchhandler.NewBatchHandler(scheduler)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.NewStructuredLogger(logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/ws", hub)

	router.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth([]byte(cfg.JWTSecret)))

		r.Route("/v1", func(r chi.Router) {
			r.Post("/professionals", professionalsH.CreateProfessional)
			r.Get("/professionals", professionalsH.ListProfessionals)
			r.Get("/professionals/{professionalId}", func(w http.ResponseWriter, r *http.Request) {
				professionalsH.GetProfessionalById(w, r, chi.URLParam(r, "professionalId"))
			})

			r.Post("/payments", paymentsH.SavePayment)
			r.Get("/payments", paymentsH.ListPayments)
			r.Get("/payments/{paymentId}", func(w http.ResponseWriter, r *http.Request) {
				paymentsH.GetPaymentById(w, r, chi.URLParam(r, "paymentId"))
			})
			r.Post("/payments/{paymentId}/automation", func(w http.ResponseWriter, r *http.Request) {
				paymentsH.RunAutomation(w, r, chi.URLParam(r, "paymentId"))
			})
			r.Get("/payments/{paymentId}/timelock", func(w http.ResponseWriter, r *http.Request) {
				paymentsH.GetTimelockByPayment(w, r, chi.URLParam(r, "paymentId"))
			})

			r.Get("/locks", locksH.ListLocks)
			r.Post("/locks/upkeep", locksH.PerformUpkeep)

			r.Get("/wallet", walletH.Status)
			r.Post("/wallet/connect", walletH.Connect)
			r.Delete("/wallet", walletH.Disconnect)

			r.Post("/batch/schedule", batchH.ScheduleAllPending)
		})
	})

	logger.Info("starting server", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
