package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"focus_engine/internal/models"
	"focus_engine/internal/posture"
	"focus_engine/internal/repository"
	"focus_engine/internal/repository/db"
	"focus_engine/internal/service"
	"focus_engine/internal/timer"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func landmarks(noseY float64) *models.LandmarkGroup {
	pair := func(x, y float64) []models.Point {
		return []models.Point{{X: x - 0.01, Y: y}, {X: x + 0.01, Y: y}}
	}
	return &models.LandmarkGroup{
		LeftEye:     pair(0.35, 0.6),
		RightEye:    pair(0.65, 0.6),
		Nose:        pair(0.5, noseY),
		InnerLips:   pair(0.5, 0.3),
		FaceContour: []models.Point{{X: 0.2, Y: 0.5}, {X: 0.8, Y: 0.5}},
	}
}

var _ = Describe("Focus engine", func() {
	var (
		ctx    context.Context
		conn   *sql.DB
		repos  *repository.Repository
		clock  *manualClock
		focus  *service.FocusService
		relay  *service.CommandRelay
		driver *service.Driver
	)

	reading := models.Category{ID: "cat-1", Label: "reading", Color: "#3366FF"}

	tick := func(n int) *models.FocusSession {
		var last *models.FocusSession
		for i := 0; i < n; i++ {
			clock.Advance(time.Second)
			s, err := focus.Tick(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			if s != nil {
				last = s
			}
		}
		return last
	}

	eventTypes := func() []string {
		evs, err := repos.Events.List(ctx, time.Time{}, time.Time{}, "")
		Expect(err).NotTo(HaveOccurred())
		out := make([]string, 0, len(evs))
		for _, e := range evs {
			out = append(out, e.Type)
		}
		return out
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		conn, err = db.InitDB(filepath.Join(GinkgoT().TempDir(), "focus.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(conn.Close)

		repos = repository.NewRepository(conn)
		clock = &manualClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}

		ctrl := timer.New(timer.DefaultConfig(), nil, clock.Now)
		focus = service.NewFocusService(ctrl, posture.NewMonitor(posture.DefaultConfig()), repos.Sessions, repos.Events, service.FocusOptions{
			Clock: clock.Now,
		})
		relay = service.NewCommandRelay(repos.Commands, focus, repos.Events, nil, clock.Now)
		driver = service.NewDriver(focus, relay, service.DriverSettings{
			PollInterval: 2 * time.Second,
			SuspendGap:   3 * time.Second,
		}, nil, clock.Now)
	})

	Describe("a pomodoro run to completion", func() {
		It("records a completed session with its posture report", func() {
			focus.Start(ctx, reading)
			clock.Advance(500 * time.Millisecond)
			focus.Observe(ctx, landmarks(0.45))
			clock.Advance(500 * time.Millisecond)
			focus.Observe(ctx, landmarks(0.45))

			session := tick(1500)
			Expect(session).NotTo(BeNil())
			Expect(session.Status).To(Equal(models.StatusCompleted))

			stored, err := repos.Sessions.Get(ctx, session.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.DurationSeconds).To(BeNumerically("==", 1500))
			Expect(stored.Category).To(Equal(reading))
			Expect(stored.Report).NotTo(BeNil())
			Expect(stored.Report.Samples).To(HaveLen(2))
			Expect(stored.Report.AccumulatedGoodSeconds).To(BeNumerically("~", 0.5, 1e-6))

			Expect(eventTypes()).To(ContainElements(models.EventStart, models.EventCompleted))
			Expect(focus.Snapshot().Timer.Phase).To(Equal(models.PhaseIdle))
		})
	})

	Describe("stopping early", func() {
		It("records the elapsed countdown time as abandoned", func() {
			_, err := focus.SetMode(ctx, models.ModeCountdown)
			Expect(err).NotTo(HaveOccurred())
			focus.Start(ctx, reading)
			tick(600)
			Expect(focus.Snapshot().Timer.TimeRemainingSeconds).To(BeNumerically("==", 2100))

			session, err := focus.Stop(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Status).To(Equal(models.StatusAbandoned))
			Expect(session.Mode).To(Equal(models.ModeCountdown))
			Expect(session.DurationSeconds).To(BeNumerically("==", 600))

			list, err := repos.Sessions.List(ctx, time.Time{}, time.Time{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})

		It("discards a session with no elapsed time", func() {
			focus.Start(ctx, reading)
			session, err := focus.Stop(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(session).To(BeNil())

			list, err := repos.Sessions.List(ctx, time.Time{}, time.Time{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
			Expect(eventTypes()).To(ContainElement(models.EventDiscarded))
		})
	})

	Describe("pause and resume", func() {
		It("conserves the remaining time", func() {
			focus.Start(ctx, reading)
			tick(100)
			st := focus.Pause(ctx)
			Expect(st.TimeRemainingSeconds).To(BeNumerically("==", 1400))

			clock.Advance(10 * time.Minute)
			_, err := focus.Tick(ctx, 1)
			Expect(err).NotTo(HaveOccurred())

			st = focus.Start(ctx, reading)
			Expect(st.TimeRemainingSeconds).To(BeNumerically("==", 1400))
			Expect(st.TargetEndAt).NotTo(BeNil())
			Expect(st.TargetEndAt.Sub(clock.Now())).To(Equal(1400 * time.Second))
		})
	})

	Describe("foreground reconciliation", func() {
		It("is idempotent for the same instant", func() {
			focus.Start(ctx, reading)
			now := clock.Advance(7 * time.Minute)

			_, err := focus.ReconcileAfterForeground(ctx, now)
			Expect(err).NotTo(HaveOccurred())
			first := focus.Snapshot().Timer.TimeRemainingSeconds

			_, err = focus.ReconcileAfterForeground(ctx, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(focus.Snapshot().Timer.TimeRemainingSeconds).To(Equal(first))
			Expect(first).To(BeNumerically("==", 1080))
		})
	})

	Describe("companion commands", func() {
		It("applies a command once and ignores it on later polls", func() {
			_, err := relay.Submit(ctx, models.CommandToggle)
			Expect(err).NotTo(HaveOccurred())

			st, err := driver.Foreground(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.IsRunning).To(BeTrue())

			clock.Advance(time.Second)
			applied, err := relay.Poll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(BeFalse())
			Expect(focus.Snapshot().Timer.IsRunning).To(BeTrue())
		})

		It("does not re-finalize an idle timer for an already applied stop", func() {
			focus.Start(ctx, reading)
			tick(100)
			_, err := relay.Submit(ctx, models.CommandStop)
			Expect(err).NotTo(HaveOccurred())

			applied, err := relay.Poll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(BeTrue())
			Expect(focus.Snapshot().Timer.Phase).To(Equal(models.PhaseIdle))

			applied, err = relay.Poll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(BeFalse())

			list, err := repos.Sessions.List(ctx, time.Time{}, time.Time{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Status).To(Equal(models.StatusAbandoned))
		})

		It("ignores a stale command left in the slot across restarts", func() {
			_, err := relay.Submit(ctx, models.CommandToggle)
			Expect(err).NotTo(HaveOccurred())
			_, err = relay.Poll(ctx)
			Expect(err).NotTo(HaveOccurred())

			restarted := service.NewCommandRelay(repos.Commands, focus, repos.Events, nil, clock.Now)
			applied, err := restarted.Poll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(BeFalse())
			Expect(focus.Snapshot().Timer.IsRunning).To(BeTrue())
		})
	})
})
