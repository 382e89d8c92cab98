package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client wraps backlite to provide task queue functionality.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config

	mu      sync.RWMutex
	started bool
}

// QueueDBPath returns the path of the queue database kept next to the main
// database: ./library.db becomes ./library-tasks.db.
func QueueDBPath(mainDBPath string) string {
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"-tasks"+ext)
}

// NewClient opens the queue database next to mainDBPath and installs the
// backlite schema. Queues must be registered before Start.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	db, err := openQueueDB(QueueDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err == nil {
		err = client.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{client: client, db: db, config: cfg}, nil
}

// openQueueDB sizes the pool so every worker can hold a connection while
// enqueues from request handlers still get one.
func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Register registers task queues with the client.
// Must be called before Start().
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start begins processing tasks in the background. Use Stop() for graceful shutdown.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	log.Printf("[TASK] Queue started with %d workers", c.config.Workers)
	c.client.Start(ctx)
}

// Stop waits for active tasks to complete.
// Returns true if all workers finished before the context deadline.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	if !started {
		return true
	}

	if !c.client.Stop(ctx) {
		log.Println("[TASK] Queue stopped before running tasks finished")
		return false
	}
	log.Println("[TASK] Queue stopped")
	return true
}

// Close releases all resources. Should be called after Stop().
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

// queueLogger routes backlite's messages through the standard logger.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}

// EnqueueAuditPurge queues an audit retention run. Implements
// scheduler.PurgeEnqueuer.
func (c *Client) EnqueueAuditPurge(ctx context.Context, task PurgeAuditTask) error {
	_, err := c.client.Add(task).Ctx(ctx).Save()
	return err
}
