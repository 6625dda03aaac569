package loadtest

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/revisions"
	"github.com/protegeproject/webprotege-revision-manager/lib/ws"
	"go.uber.org/zap"
)

const defaultHost = "http://127.0.0.1:7777"

var ErrTooManyPending = errors.New("too many revisions without a saved notification")

type Config struct {
	Host       string
	DocumentID string
	Authors    int
	Lurkers    int
	Duration   time.Duration
	// Interval between two revisions of the same author.
	Interval      time.Duration
	LoadUntilFail bool
	Silent        bool
}

type Metrics struct {
	LurkersConnected  atomic.Int64
	AuthorsConnected  atomic.Int64
	RevisionsSent     atomic.Int64
	RevisionsAccepted atomic.Int64
	RevisionsSaved    atomic.Int64
	ErrorCount        atomic.Int64
	StartTime         time.Time
}

func (m *Metrics) String() string {
	return fmt.Sprintf("authors=%d lurkers=%d sent=%d accepted=%d saved=%d errors=%d",
		m.AuthorsConnected.Load(), m.LurkersConnected.Load(), m.RevisionsSent.Load(),
		m.RevisionsAccepted.Load(), m.RevisionsSaved.Load(), m.ErrorCount.Load())
}

func RunFromCLI(logger *zap.SugaredLogger, args []string) {
	config, err := parseRunArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := Run(ctx, logger, config)
	if metrics != nil {
		fmt.Println(metrics.String())
	}
	if err != nil {
		fmt.Printf("Load test failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Test duration complete and Load Tests PASS")
}

func parseRunArgs(args []string) (Config, error) {
	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	host := fs.String("host", defaultHost, "The host to test")
	documentID := fs.String("document", "", "The document to write to, a new one when empty")
	authors := fs.Int("authors", 1, "Number of authors")
	lurkers := fs.Int("lurkers", 0, "Number of lurkers following the saved revisions")
	duration := fs.Int("duration", 10, "Duration of the test in seconds, 0 runs until interrupted")
	interval := fs.Duration("interval", 400*time.Millisecond, "Pause between two revisions of an author")
	untilFail := fs.Bool("loadUntilFail", false, "Fail once too many revisions are not reported as saved")
	silent := fs.Bool("silent", os.Getenv("SILENT_METRICS") == "true", "Do not print live metrics")

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		*host = args[0]
		args = args[1:]
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return Config{
		Host:          *host,
		DocumentID:    *documentID,
		Authors:       *authors,
		Lurkers:       *lurkers,
		Duration:      time.Duration(*duration) * time.Second,
		Interval:      *interval,
		LoadUntilFail: *untilFail,
		Silent:        *silent,
	}, nil
}

// Run drives config.Authors writers and config.Lurkers followers against one
// document until the duration elapses or ctx is cancelled.
func Run(ctx context.Context, logger *zap.SugaredLogger, config Config) (*Metrics, error) {
	if config.Host == "" {
		config.Host = defaultHost
	}
	if config.DocumentID == "" {
		config.DocumentID = uuid.NewString()
	}
	if config.Interval <= 0 {
		config.Interval = 400 * time.Millisecond
	}

	metrics := &Metrics{StartTime: time.Now()}
	client := NewClient(config.Host, config.DocumentID)
	if err := client.CreateDocument(); err != nil {
		return metrics, fmt.Errorf("creating document %s: %w", config.DocumentID, err)
	}
	logger.Infof("Load testing document %s on %s", config.DocumentID, config.Host)

	if config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Duration)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i := 0; i < config.Lurkers; i++ {
		err := client.Subscribe(ctx, func(ws.RevisionSavedData) {
			metrics.RevisionsSaved.Add(1)
		})
		if err != nil {
			return metrics, fmt.Errorf("connecting lurker: %w", err)
		}
		metrics.LurkersConnected.Add(1)
	}

	var wg sync.WaitGroup
	for i := 0; i < config.Authors; i++ {
		wg.Add(1)
		metrics.AuthorsConnected.Add(1)
		go func(author string) {
			defer wg.Done()
			runAuthor(ctx, logger, client, author, config.Interval, metrics)
		}(gofakeit.Name())
	}

	var failure error
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if !config.Silent {
				updateMetricsUI(config.Host, metrics)
			}
			if config.LoadUntilFail && config.Lurkers > 0 {
				pending := metrics.RevisionsAccepted.Load() - metrics.RevisionsSaved.Load()/int64(config.Lurkers)
				if pending > 100 {
					failure = fmt.Errorf("%w (%d)", ErrTooManyPending, pending)
					cancel()
					break loop
				}
			}
		}
	}
	wg.Wait()
	return metrics, failure
}

func runAuthor(ctx context.Context, logger *zap.SugaredLogger, client *Client, author string, interval time.Duration, metrics *Metrics) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		metrics.RevisionsSent.Add(1)
		_, err := client.AddRevision(revisions.AddRevisionRequest{
			Author:      author,
			Description: gofakeit.Sentence(3),
			Changes: []revisions.ChangeDTO{{
				Kind:   "addImport",
				Import: gofakeit.URL(),
			}},
		})
		if err != nil {
			if ctx.Err() == nil {
				logger.Warnf("%s revision by %s failed: %v", client.DocumentID(), author, err)
				metrics.ErrorCount.Add(1)
			}
			continue
		}
		metrics.RevisionsAccepted.Add(1)
	}
}

func updateMetricsUI(host string, metrics *Metrics) {
	testDuration := time.Since(metrics.StartTime)

	// Clear screen and move cursor to top-left
	fmt.Print("\033[2J\033[0;0H")
	fmt.Printf("Load Test Metrics -- Target %s\n\n", host)
	fmt.Printf("Authors: %d\n", metrics.AuthorsConnected.Load())
	fmt.Printf("Lurkers Connected: %d\n", metrics.LurkersConnected.Load())
	fmt.Printf("Revisions sent: %d\n", metrics.RevisionsSent.Load())
	fmt.Printf("Revisions accepted: %d\n", metrics.RevisionsAccepted.Load())
	fmt.Printf("Saved notifications received: %d\n", metrics.RevisionsSaved.Load())
	fmt.Printf("Errors: %d\n", metrics.ErrorCount.Load())

	if seconds := testDuration.Seconds(); seconds > 0 {
		fmt.Printf("Mean accepted revisions per second: %.0f\n", float64(metrics.RevisionsAccepted.Load())/seconds)
	}
	fmt.Printf("Seconds test has been running for: %d\n", int(testDuration.Seconds()))
}
