package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"feedstack/internal/config"
	"feedstack/internal/feed"
	"feedstack/internal/icons"
	"feedstack/internal/ops"
	"feedstack/internal/queue"
	"feedstack/internal/scheduler"
	"feedstack/internal/store"
	"feedstack/internal/worker"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	app := &cli.App{
		Name:  "feedstack",
		Usage: "feed ingestion backend: scheduler and worker loops",
		Commands: []*cli.Command{
			{
				Name:   "scheduler",
				Usage:  "enqueue fetch jobs for stale sources every 15 minutes",
				Action: runScheduler,
			},
			{
				Name:   "worker",
				Usage:  "drain the job queue and ingest feeds",
				Action: runWorker,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("feedstack: %v", err)
	}
}

// runtime holds the long-lived clients both verbs share. They are built once
// at startup and released on shutdown; inability to build any of them is
// fatal to the process.
type runtime struct {
	cfg   *config.Config
	store *store.Store
	queue *queue.Queue
}

func setup(ctx context.Context) (*runtime, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	q, err := queue.New(ctx, cfg.RedisURL)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	cleanup := func() {
		q.Close()
		st.Close()
	}
	return &runtime{cfg: cfg, store: st, queue: q}, cleanup, nil
}

func runScheduler(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := ops.Start(rt.cfg.OpsAddr, "feedstack-scheduler")
	defer srv.Close()

	log.Infof("scheduler starting (commit: %s)", CommitSHA)
	return scheduler.New(rt.store, rt.queue).Run(ctx)
}

func runWorker(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := ops.Start(rt.cfg.OpsAddr, "feedstack-worker")
	defer srv.Close()

	fetcher := feed.New(feed.Config{
		Timeout:          rt.cfg.FetchTimeout,
		Icons:            icons.NewLocalStorage(rt.cfg.IconDir),
		IconBucket:       rt.cfg.IconBucket,
		MastodonInstance: rt.cfg.MastodonInstance,
		NitterInstance:   rt.cfg.NitterInstance,
	})

	log.Infof("worker starting (commit: %s)", CommitSHA)
	return worker.New(rt.queue, rt.store, fetcher).Run(ctx)
}
