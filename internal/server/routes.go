package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/analytics"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/broadcast"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/config"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/db"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/events"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/game"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/metrics"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/sessions"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/wshub"
)

const (
	outcomeBufferSize = 1000
	batchSize         = 50
	batchInterval     = 500 * time.Millisecond
)

type Options struct {
	Game       game.Config
	Profiles   *profile.Table
	SessionTTL time.Duration
	StaticDir  string
	DB         *db.DB // nil if no database configured
}

type Server struct {
	Sessions      *sessions.Store
	Hub           *wshub.Hub
	Broadcaster   *broadcast.Broadcaster
	Tally         *analytics.Tally
	Bus           *events.Bus
	Metrics       *metrics.Metrics
	StaticDir     string
	DB            *db.DB                // nil if no database configured
	OutcomeBuffer chan db.OutcomeRecord // nil if no database configured
}

func New(opts Options) *Server {
	s := &Server{
		Hub:         wshub.NewHub(),
		Broadcaster: broadcast.NewBroadcaster(),
		Tally:       analytics.NewTally(),
		Bus:         events.NewBus(),
		Metrics:     metrics.New(),
		StaticDir:   opts.StaticDir,
		DB:          opts.DB,
	}
	s.Sessions = sessions.NewStore(sessions.Config{
		Game:     opts.Game,
		Profiles: opts.Profiles,
		TTL:      opts.SessionTTL,
	}, func(sess *sessions.Session) {
		s.Hub.Disconnect(sess.ID, "session expired")
	})
	if s.DB != nil {
		s.OutcomeBuffer = make(chan db.OutcomeRecord, outcomeBufferSize)
	}
	return s
}

// Start runs the outcome fan-out and, with a database, the batch writer
// until ctx is done.
func (s *Server) Start(ctx context.Context) {
	go s.fanOut(ctx)
	if s.DB != nil {
		go outcomeBatchWriter(ctx, s.DB, s.OutcomeBuffer)
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/play", s.handlePlay)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.Metrics.Handler())
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/stats/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/stats/session/", s.handleSessionStats)
	mux.Handle("/", http.FileServer(http.Dir(s.StaticDir)))
	return skipNgrokWarning(mux)
}

func Run() error {
	appCfg := config.Load()

	profiles := profile.Default()
	if appCfg.ProfilePath != "" {
		loaded, err := profile.Load(appCfg.ProfilePath)
		if err != nil {
			return fmt.Errorf("loading timing profile: %w", err)
		}
		profiles = loaded
		log.Printf("[Server] Timing profile loaded from %s\n", appCfg.ProfilePath)
	}

	opts := Options{
		Game:       appCfg.Game(),
		Profiles:   profiles,
		SessionTTL: appCfg.SessionTTL,
		StaticDir:  appCfg.StaticDir,
	}

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			opts.DB = database
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	srv := New(opts)
	srv.Start(context.Background())

	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, srv.Routes())
}

// skipNgrokWarning lets the page load through an ngrok tunnel without the
// interstitial.
func skipNgrokWarning(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ngrok-skip-browser-warning", "true")
		next.ServeHTTP(w, r)
	})
}

func outcomeBatchWriter(ctx context.Context, database *db.DB, buffer chan db.OutcomeRecord) {
	ticker := time.NewTicker(batchInterval)
	defer ticker.Stop()

	batch := make([]db.OutcomeRecord, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := database.BatchRecordOutcomes(batch); err != nil {
			log.Printf("[DB] BatchRecordOutcomes error: %v\n", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case rec := <-buffer:
			batch = append(batch, rec)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
