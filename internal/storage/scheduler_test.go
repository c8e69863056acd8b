package storage

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

func TestNewCleanupScheduler_Defaults(t *testing.T) {
	service := NewTestService(t)

	scheduler := NewCleanupScheduler(service, nil)
	if scheduler.config.Interval != time.Hour {
		t.Errorf("Expected default interval 1h, got %v", scheduler.config.Interval)
	}
	if scheduler.config.TTL != 7*24*time.Hour {
		t.Errorf("Expected default TTL 168h, got %v", scheduler.config.TTL)
	}
	if scheduler.logger == nil {
		t.Error("logger should default to slog.Default()")
	}
}

func TestCleanupScheduler_RunOnce(t *testing.T) {
	service := NewTestService(t)
	ctx := context.Background()

	now := time.Now()
	service.WithClock(func() time.Time { return now.Add(-48 * time.Hour) })
	if err := service.SaveCardMetadata(ctx, cards.Metadata{Name: "Old", SetCode: "AAA"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	service.WithClock(func() time.Time { return now })

	var (
		mu       sync.Mutex
		reported int64
	)
	scheduler := NewCleanupScheduler(service, &SchedulerConfig{
		Interval: time.Hour,
		TTL:      24 * time.Hour,
		OnCleanupComplete: func(deleted int64, err error) {
			mu.Lock()
			reported = deleted
			mu.Unlock()
		},
	})

	deleted, err := scheduler.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted row, got %d", deleted)
	}

	mu.Lock()
	if reported != 1 {
		t.Errorf("callback saw %d deletions, want 1", reported)
	}
	mu.Unlock()

	status := scheduler.Status()
	if status.RunCount != 1 || status.TotalDeleted != 1 || status.FailureCount != 0 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestCleanupScheduler_StartStop(t *testing.T) {
	service := NewTestService(t)

	ran := make(chan struct{}, 1)
	scheduler := NewCleanupScheduler(service, &SchedulerConfig{
		Interval:         time.Hour,
		TTL:              time.Hour,
		StartImmediately: true,
		OnCleanupComplete: func(int64, error) {
			select {
			case ran <- struct{}{}:
			default:
			}
		},
	})

	if err := scheduler.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !scheduler.IsRunning() {
		t.Error("scheduler should be running after Start")
	}
	if err := scheduler.Start(); err == nil {
		t.Error("second Start should fail")
	}

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("immediate cleanup did not run")
	}

	if !strings.Contains(scheduler.Status().String(), "Cleanup: Running") {
		t.Errorf("unexpected status string: %s", scheduler.Status())
	}

	if err := scheduler.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler should not be running after Stop")
	}
	if err := scheduler.Stop(); err == nil {
		t.Error("second Stop should fail")
	}

	// Restart after stop.
	if err := scheduler.Start(); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		t.Fatalf("Stop() after restart error = %v", err)
	}
}

func TestCleanupScheduler_RejectsZeroInterval(t *testing.T) {
	scheduler := NewCleanupScheduler(NewTestService(t), &SchedulerConfig{TTL: time.Hour})
	if err := scheduler.Start(); err == nil {
		t.Error("expected error for zero interval")
	}
}
