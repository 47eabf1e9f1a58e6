package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// ReportSource produces the weekly sales-agent report.
type ReportSource interface {
	WeeklySummary(ctx context.Context) (models.SalesReport, string, error)
}

// Notifier delivers the text summary.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Exporter stores the report rows.
type Exporter interface {
	ExportSalesReport(ctx context.Context, report models.SalesReport) error
}

// Options configures the scheduler. Notifier and Exporter are optional.
type Options struct {
	Schedule  string
	Location  *time.Location
	Recipient string
	Notifier  Notifier
	Exporter  Exporter
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reports   ReportSource
	notifier  Notifier
	exporter  Exporter
	recipient string
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(reports ReportSource, opts Options, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  opts.Schedule,
		reports:   reports,
		notifier:  opts.Notifier,
		exporter:  opts.Exporter,
		recipient: opts.Recipient,
		logger:    logger,
	}
}

// Start registers the weekly report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sendWeeklyReport); err != nil {
		return fmt.Errorf("schedule weekly report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendWeeklyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunWeeklyReport(ctx); err != nil {
		s.logger.Error("weekly report failed", zap.Error(err))
	}
}

// RunWeeklyReport computes the report and hands it to every configured sink.
// A failing sink does not stop the others; the first error is returned.
func (s *Scheduler) RunWeeklyReport(ctx context.Context) error {
	s.logger.Info("generating weekly report")

	report, text, err := s.reports.WeeklySummary(ctx)
	if err != nil {
		return fmt.Errorf("generate weekly report: %w", err)
	}

	var firstErr error
	if s.notifier != nil && s.recipient != "" {
		req := models.OutboundMessageRequest{To: s.recipient, Message: text}
		if err := s.notifier.SendOutbound(ctx, req); err != nil {
			s.logger.Error("failed to send weekly report", zap.Error(err))
			firstErr = fmt.Errorf("send weekly report: %w", err)
		} else {
			s.logger.Info("weekly report sent", zap.String("to", s.recipient))
		}
	}

	if s.exporter != nil {
		if err := s.exporter.ExportSalesReport(ctx, report); err != nil {
			s.logger.Error("failed to export weekly report", zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("export weekly report: %w", err)
			}
		} else {
			s.logger.Info("weekly report exported", zap.Int("agents", len(report.Agents)))
		}
	}

	return firstErr
}
