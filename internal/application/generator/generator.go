package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"statistics-aggregator/internal/application/statistics"
	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/logging"
)

var (
	countries = []string{"CZ", "SK", "DE", "AT", "PL"}
	codes     = []string{"monthly", "yearly", "trial"}
	magazines = []int64{101, 102, 103}
)

// Config describes the runtime characteristics of the generator.
type Config struct {
	Interval  time.Duration
	BatchSize int
	// Spread backdates creation times by up to this duration.
	Spread     time.Duration
	RandSource rand.Source
	Now        func() time.Time
}

// Generator produces synthetic account, subscription and issue records at a
// fixed interval.
type Generator struct {
	cfg    Config
	logger *logging.Logger
	rnd    *rand.Rand
}

func New(cfg Config, logger *logging.Logger) *Generator {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	source := cfg.RandSource
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}

	return &Generator{
		cfg:    cfg,
		logger: logger,
		rnd:    rand.New(source),
	}
}

// Run emits a batch per tick until ctx is cancelled, then closes out.
func (g *Generator) Run(ctx context.Context, out chan<- domain.RecordBatch) {
	defer close(out)

	ticker := time.NewTicker(g.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.logger.Debug("generator stopped", logging.AttachError(ctx.Err())...)
			return
		case <-ticker.C:
		}

		batch := g.Batch()
		g.logger.Debug("generator produced batch", "batch", batch.ID, "records", len(batch.Records))

		select {
		case <-ctx.Done():
			g.logger.Debug("generator stopping before delivering batch", "batch", batch.ID)
			return
		case out <- batch:
		}
	}
}

// Batch builds one batch of random records.
func (g *Generator) Batch() domain.RecordBatch {
	now := g.cfg.Now().UTC()
	records := make([]domain.Record, g.cfg.BatchSize)
	for i := range records {
		created := now
		if g.cfg.Spread > 0 {
			created = now.Add(-time.Duration(g.rnd.Int63n(int64(g.cfg.Spread))))
		}

		switch g.rnd.Intn(3) {
		case 0:
			records[i] = g.account(created)
		case 1:
			records[i] = g.subscription(created)
		default:
			records[i] = g.issue(created)
		}
	}
	return domain.RecordBatch{ID: uuid.NewString(), Records: records}
}

func (g *Generator) account(created time.Time) domain.Record {
	state := "inactive"
	if g.rnd.Intn(4) > 0 {
		state = statistics.StateActive
	}
	inviter := domain.Null()
	if g.rnd.Intn(3) == 0 {
		inviter = domain.String(uuid.NewString())
	}
	source := statistics.SourceWeb
	if g.rnd.Intn(2) == 0 {
		source = statistics.SourceApp
	}

	return domain.Record{
		ID:      uuid.NewString(),
		Kind:    domain.KindAccount,
		Created: created,
		Attributes: map[string]domain.Value{
			statistics.AttrState:              domain.String(state),
			statistics.AttrInviter:            inviter,
			statistics.AttrRegistrationSource: domain.String(source),
			statistics.AttrCountry:            g.country(),
		},
	}
}

func (g *Generator) subscription(created time.Time) domain.Record {
	return domain.Record{
		ID:      uuid.NewString(),
		Kind:    domain.KindSubscription,
		Created: created,
		Attributes: map[string]domain.Value{
			statistics.AttrApple:   g.device(),
			statistics.AttrCountry: g.country(),
			statistics.AttrCode:    domain.String(codes[g.rnd.Intn(len(codes))]),
		},
	}
}

func (g *Generator) issue(created time.Time) domain.Record {
	event := statistics.EventRead
	if g.rnd.Intn(3) == 0 {
		event = statistics.EventDownload
	}
	magazine := magazines[g.rnd.Intn(len(magazines))]

	return domain.Record{
		ID:      uuid.NewString(),
		Kind:    domain.KindIssue,
		Created: created,
		Attributes: map[string]domain.Value{
			statistics.AttrApple:    g.device(),
			statistics.AttrCountry:  g.country(),
			statistics.AttrCode:     domain.String(codes[g.rnd.Intn(len(codes))]),
			statistics.AttrMagazine: domain.Int(magazine),
			statistics.AttrIssue:    domain.Int(magazine*100 + int64(g.rnd.Intn(12))),
			statistics.AttrEvent:    domain.String(event),
		},
	}
}

// country is occasionally unknown.
func (g *Generator) country() domain.Value {
	if g.rnd.Intn(10) == 0 {
		return domain.Null()
	}
	return domain.String(countries[g.rnd.Intn(len(countries))])
}

func (g *Generator) device() domain.Value {
	switch g.rnd.Intn(5) {
	case 0:
		return domain.Null()
	case 1, 2:
		return domain.Int(1)
	default:
		return domain.Int(0)
	}
}

var _ domain.BatchProducer = (*Generator)(nil)
