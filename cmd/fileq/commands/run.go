package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fileq/cmd/fileq/opts"
	"github.com/walteh/fileq/pkg/config"
	"github.com/walteh/fileq/pkg/log"
	"github.com/walteh/fileq/pkg/queue"
	"github.com/walteh/fileq/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates a new run command
func NewRunCmd(ropts *opts.RootOpts) *cobra.Command {
	var (
		jobPath    string
		onConflict string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the operations declared in a job file",
		Long: `Run loads a job file, queues every operation in it, and drains the
queue. It will:
1. Load and validate the job file
2. Enqueue each job in declared order
3. Stream progress while operations execute
4. Report a summary once the queue is empty`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)

			policy, err := parseConflictPolicy(onConflict)
			if err != nil {
				return err
			}

			jf, err := config.Load(ctx, jobPath)
			if err != nil {
				return errors.Errorf("loading job file: %w", err)
			}

			r := &runner{
				opts:       ropts,
				policy:     policy,
				noProgress: noProgress,
			}
			return r.run(ctx, jobPath, jf)
		},
	}

	cmd.Flags().StringVarP(&jobPath, "file", "f", ".fileq.yaml", "job file path")
	cmd.Flags().StringVar(&onConflict, "on-conflict", "auto", "conflict policy: auto, ask, overwrite, skip or rename")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the live progress bar")
	return cmd
}

// conflictPolicy decides destination collisions. The zero value follows the
// queue's recommendation for each conflict.
type conflictPolicy struct {
	ask   bool
	fixed queue.Resolution
}

func parseConflictPolicy(s string) (conflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return conflictPolicy{}, nil
	case "ask":
		return conflictPolicy{ask: true}, nil
	}
	res, err := queue.ParseResolution(s)
	if err != nil {
		return conflictPolicy{}, errors.Errorf("invalid --on-conflict value: %w", err)
	}
	return conflictPolicy{fixed: res}, nil
}

// runner drives one job-file run: it feeds the queue, reacts to events, and
// keeps the progress bar pointed at whatever is currently executing.
type runner struct {
	opts       *opts.RootOpts
	policy     conflictPolicy
	noProgress bool

	bar      *pterm.ProgressbarPrinter
	barID    uuid.UUID
	barShown int64
}

func (r *runner) run(ctx context.Context, jobPath string, jf *config.JobFile) error {
	ul := r.opts.UserLogger

	m := queue.NewManager(queue.Options{Settings: jf.Settings})
	defer m.Close()

	events, unsub := m.Subscribe(256)
	defer unsub()

	m.Start(ctx)

	ul.StartBatch(ctx, log.BatchOperation{JobFile: jobPath, Jobs: len(jf.Jobs)})

	queued := make([]uuid.UUID, 0, len(jf.Jobs))
	for _, job := range jf.Jobs {
		kind, err := queue.ParseKind(job.Kind)
		if err != nil {
			return errors.Errorf("job %q: %w", job.String(), err)
		}
		snap, err := m.Enqueue(ctx, queue.Request{
			Kind:        kind,
			Sources:     job.Sources,
			Destination: job.Destination,
			Permanent:   job.Permanent,
			Excludes:    job.Excludes,
		})
		if err != nil {
			return errors.Errorf("queueing %q: %w", job.String(), err)
		}
		queued = append(queued, snap.ID)
		ul.LogOperation(ctx, log.OperationLine{
			ID:       shortID(snap.ID),
			Kind:     snap.Kind.String(),
			Path:     status.Subject(snap.Sources),
			Status:   snap.Status.String(),
			Progress: fmt.Sprintf("%s, %d file(s)", status.FormatBytes(snap.TotalBytes), snap.TotalFiles),
		})
	}

	failed := r.drain(ctx, m, events, queued)

	r.closeBar()
	ul.EndBatch(ctx)
	r.summarize(m.Statistics())

	if failed > 0 {
		return errors.Errorf("%d of %d operations did not complete", failed, len(queued))
	}
	ul.Successf("all %d operation(s) completed", len(queued))
	return nil
}

// drain consumes queue events until every queued operation reaches a
// terminal state, resolving conflicts along the way.
func (r *runner) drain(ctx context.Context, m *queue.Manager, events <-chan queue.Event, queued []uuid.UUID) int {
	terminal := make(map[uuid.UUID]bool, len(queued))
	failed := 0

	record := func(snap queue.Snapshot, success bool) {
		if terminal[snap.ID] {
			return
		}
		terminal[snap.ID] = true
		if !success {
			failed++
		}
		if r.barID == snap.ID {
			r.closeBar()
		}
		r.opts.UserLogger.LogOperation(ctx, log.OperationLine{
			ID:       shortID(snap.ID),
			Kind:     snap.Kind.String(),
			Path:     status.Subject(snap.Sources),
			Status:   snap.Status.String(),
			Progress: describeOutcome(snap),
			IsDone:   success,
			IsFailed: !success,
		})
	}

	// The subscription drops events under pressure, so a slow ticker
	// reconciles against snapshots and picks up anything missed.
	reconcile := time.NewTicker(500 * time.Millisecond)
	defer reconcile.Stop()

	done := ctx.Done()
	for len(terminal) < len(queued) {
		select {
		case <-done:
			done = nil
			m.CancelAll(ctx)
		case ev, ok := <-events:
			if !ok {
				return failed
			}
			r.handleEvent(ctx, m, ev, record)
		case <-reconcile.C:
			for _, id := range queued {
				snap, ok := m.Get(id)
				if !ok {
					continue
				}
				if snap.Status.Terminal() {
					record(snap, snap.Status == queue.StatusCompleted)
				} else if snap.Status == queue.StatusConflict {
					r.resolveConflict(ctx, m, snap)
				}
			}
		}
	}
	return failed
}

func (r *runner) handleEvent(ctx context.Context, m *queue.Manager, ev queue.Event, record func(queue.Snapshot, bool)) {
	switch ev.Kind {
	case queue.EventCompletion:
		record(ev.Op, ev.Success)
	case queue.EventProgress:
		switch ev.Op.Status {
		case queue.StatusConflict:
			r.resolveConflict(ctx, m, ev.Op)
		case queue.StatusRunning:
			r.updateBar(ev.Op)
		}
	}
}

// resolveConflict answers one destination collision according to the policy.
func (r *runner) resolveConflict(ctx context.Context, m *queue.Manager, snap queue.Snapshot) {
	// Re-read before prompting; the conflict may already be answered.
	current, ok := m.Get(snap.ID)
	if !ok || current.Status != queue.StatusConflict || current.Conflict == nil {
		return
	}
	info := current.Conflict

	res := r.policy.fixed
	switch {
	case r.policy.ask:
		res = askResolution(info)
	case res == queue.ResolutionNone:
		res = info.Recommended
	}

	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Printf(
		"%s already exists, resolving as %s\n", info.DestinationPath, res,
	)
	m.ResolveConflict(ctx, snap.ID, res)
}

// askResolution prompts for a decision, falling back to the recommendation
// when the prompt cannot be shown.
func askResolution(info *queue.ConflictInfo) queue.Resolution {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📄"}).Printf(
		"source:      %s (%s, modified %s)\n",
		info.SourcePath,
		status.FormatBytes(info.SourceSize),
		info.SourceModTime.Format(time.RFC822),
	)
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📄"}).Printf(
		"destination: %s (%s, modified %s)\n",
		info.DestinationPath,
		status.FormatBytes(info.DestinationSize),
		info.DestinationModTime.Format(time.RFC822),
	)

	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{"overwrite", "skip", "rename"}).
		WithDefaultOption(info.Recommended.String()).
		Show(fmt.Sprintf("Destination %s already exists", info.DestinationPath))
	if err != nil {
		return info.Recommended
	}
	res, err := queue.ParseResolution(choice)
	if err != nil {
		return info.Recommended
	}
	return res
}

// updateBar keeps one progress bar attached to the running operation.
func (r *runner) updateBar(snap queue.Snapshot) {
	if r.noProgress {
		return
	}
	if r.bar == nil || r.barID != snap.ID {
		r.closeBar()
		total := snap.TotalBytes
		if total <= 0 {
			total = int64(snap.TotalFiles)
		}
		if total <= 0 {
			total = 1
		}
		bar, err := pterm.DefaultProgressbar.
			WithTotal(int(total)).
			WithTitle(fmt.Sprintf("%s %s", snap.Kind, status.Subject(snap.Sources))).
			Start()
		if err != nil {
			return
		}
		r.bar = bar
		r.barID = snap.ID
		r.barShown = 0
	}

	current := snap.ProcessedBytes
	if snap.TotalBytes <= 0 {
		current = int64(snap.ProcessedFiles)
	}
	if delta := current - r.barShown; delta > 0 {
		r.bar.Add(int(delta))
		r.barShown = current
	}
}

func (r *runner) closeBar() {
	if r.bar == nil {
		return
	}
	_, _ = r.bar.Stop()
	r.bar = nil
	r.barID = uuid.Nil
	r.barShown = 0
}

func (r *runner) summarize(stats queue.Statistics) {
	r.opts.UserLogger.Infof("transferred %s in %s (avg %s)",
		status.FormatBytes(stats.BytesTransferred),
		stats.TotalDuration.Round(time.Millisecond),
		status.FormatSpeed(stats.AverageSpeed),
	)
}

// describeOutcome renders the trailing progress column for a finished entry.
func describeOutcome(snap queue.Snapshot) string {
	switch snap.Status {
	case queue.StatusCompleted:
		if snap.FailedFiles > 0 {
			return fmt.Sprintf("%s, %d file(s), %d skipped",
				status.FormatBytes(snap.ProcessedBytes), snap.ProcessedFiles, snap.FailedFiles)
		}
		return fmt.Sprintf("%s, %d file(s)", status.FormatBytes(snap.ProcessedBytes), snap.ProcessedFiles)
	case queue.StatusFailed:
		return snap.Error
	default:
		return fmt.Sprintf("%s of %s",
			status.FormatBytes(snap.ProcessedBytes), status.FormatBytes(snap.TotalBytes))
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
