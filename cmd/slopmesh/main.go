// @title			SlopMesh API
// @version		1.0
// @description	Event-driven coordination engine for AI agent teams: event bus, ticket board, escalations, and the coordination graph.
// @BasePath		/api/v1
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mtlprog/slopmesh/internal/bus"
	"github.com/mtlprog/slopmesh/internal/config"
	"github.com/mtlprog/slopmesh/internal/database"
	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/handler"
	"github.com/mtlprog/slopmesh/internal/logger"
	"github.com/mtlprog/slopmesh/internal/repository"
	"github.com/mtlprog/slopmesh/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env is optional; deployments set real environment variables.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "slopmesh",
		Usage: "Event-driven coordination engine for AI agent teams",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL URL; empty keeps all state in memory",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "agent-tokens",
				Usage:   "Comma-separated id=token pairs for API authentication",
				EnvVars: []string{"AGENT_TOKENS"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the coordination engine",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.IntFlag{
						Name:    "queue-size",
						Value:   config.DefaultQueueSize,
						Usage:   "Event bus queue capacity",
						EnvVars: []string{"BUS_QUEUE_SIZE"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "journal",
				Usage: "Print journaled events as JSON lines",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 100,
						Usage: "Maximum number of events to print",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Comma-separated event types to include",
					},
					&cli.StringFlag{
						Name:  "since",
						Usage: "Only events at or after this RFC3339 timestamp",
					},
				},
				Action: runJournal,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	queueSize := c.Int("queue-size")
	if queueSize <= 0 {
		queueSize = config.DefaultQueueSize
	}

	agents, err := repository.ParseAgentTokens(c.String("agent-tokens"))
	if err != nil {
		return fmt.Errorf("failed to parse agent tokens: %w", err)
	}
	if len(agents) == 0 {
		slog.Warn("no agent tokens configured, every API request will be rejected")
	}
	registry := repository.NewAgentRegistry(agents)

	var (
		tickets repository.TicketRepository
		journal repository.EventJournal
		health  func(ctx context.Context) error
	)

	if databaseURL := c.String("database-url"); databaseURL != "" {
		db, err := database.New(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		tickets = repository.NewPostgresTicketRepository(db.Pool())
		journal = repository.NewPostgresEventJournal(db.Pool())
		health = db.Pool().Ping
	} else {
		slog.Info("no database configured, state is kept in memory")
		tickets = repository.NewMemoryTicketRepository()
		journal = repository.NewMemoryEventJournal()
	}

	engineBus := bus.New(queueSize)

	lastSeq, err := journal.LastSequence(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last event sequence: %w", err)
	}
	engineBus.SetSequence(lastSeq)

	router := bus.NewRouter()
	tracker := service.NewCoordinationTracker()
	orchestrator := service.NewTicketOrchestrator(tickets, engineBus, nil, acceptAllMeetings)

	// Handler order fixes what each consumer observes: the journal records
	// first, the orchestrator reacts, the router fans out, and the tracker
	// folds both the raw event and the router's notifications.
	engineBus.Subscribe("journal", journal.Append)
	engineBus.Subscribe("orchestrator", orchestrator.HandleEvent)
	engineBus.Subscribe("router", router.HandleEvent)
	engineBus.Subscribe("tracker", tracker.HandleEvent)
	router.AddSink(tracker.HandleNotification)

	// The human audience always hears about escalations and booked meetings.
	router.Register(&domain.Subscription{
		Subscriber: domain.HumanSubscriber(),
		EventTypes: []domain.EventType{
			domain.EventTypeEscalationRaised,
			domain.EventTypeMeetingScheduled,
		},
	})

	engineBus.Start(ctx)

	h := handler.New(handler.Deps{
		Bus:          engineBus,
		Router:       router,
		Orchestrator: orchestrator,
		Tracker:      tracker,
		Tickets:      tickets,
		Journal:      journal,
		Agents:       registry,
		Health:       health,
	})

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		engineBus.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, config.DefaultShutdownTimeout)
	defer cancel()

	// Drain HTTP first so nothing new is published, then let queued events
	// finish before stopping the consumer.
	if err := server.Shutdown(shutdownCtx); err != nil {
		engineBus.Stop()
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := engineBus.Flush(shutdownCtx); err != nil {
		slog.Warn("event queue not fully drained", "error", err)
	}
	engineBus.Stop()

	slog.Info("server stopped")
	return nil
}

// acceptAllMeetings is the default scheduling collaborator. The meeting
// subsystem proper lives outside this engine, so the default books every
// request and hands back a reference id.
func acceptAllMeetings(_ context.Context, meeting domain.Meeting, scheduledBy string) (domain.ScheduleOutcome, error) {
	id := uuid.NewString()
	slog.Info("meeting booked",
		"meeting_id", id,
		"topic", meeting.Topic,
		"ticket_id", meeting.TicketID,
		"participants", meeting.Participants,
		"urgency", string(meeting.Urgency),
		"scheduled_by", scheduledBy,
	)
	return domain.ScheduleOutcome{Scheduled: true, MeetingID: id}, nil
}

func runJournal(c *cli.Context) error {
	ctx := c.Context

	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return fmt.Errorf("journal requires --database-url, the in-memory journal does not outlive the server")
	}

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	journal := repository.NewPostgresEventJournal(db.Pool())

	filter := repository.EventFilter{Limit: c.Int("limit")}
	if typeParam := c.String("type"); typeParam != "" {
		for _, raw := range strings.Split(typeParam, ",") {
			t := domain.EventType(strings.TrimSpace(raw))
			if !t.IsValid() {
				return fmt.Errorf("unknown event type: %s", raw)
			}
			filter.Types = append(filter.Types, t)
		}
	}
	if sinceParam := c.String("since"); sinceParam != "" {
		ts, err := time.Parse(time.RFC3339, sinceParam)
		if err != nil {
			return fmt.Errorf("since must be an RFC3339 timestamp: %w", err)
		}
		filter.Since = &ts
	}

	events, err := journal.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	// Logs go to stderr, so stdout stays clean for piping.
	enc := json.NewEncoder(os.Stdout)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}

	return nil
}
