package service

import (
	"fmt"
	"testing"

	"fin-guardian/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestNotificationService_Bounded(t *testing.T) {
	s := NewNotificationService(3, zap.NewNop())
	alice, bob := uuid.New(), uuid.New()

	for i := 1; i <= 5; i++ {
		s.Enqueue(alice, fmt.Sprintf("msg %d", i), models.NotificationBudgetOverspent)
	}
	s.Enqueue(bob, "hello", models.NotificationGoalCompleted)

	got := s.List(alice)
	if len(got) != 3 {
		t.Fatalf("List() = %d entries, want 3", len(got))
	}
	for i, want := range []string{"msg 3", "msg 4", "msg 5"} {
		if got[i].Message != want {
			t.Errorf("entry %d = %q, want %q", i, got[i].Message, want)
		}
		if got[i].UserID != alice {
			t.Errorf("entry %d belongs to %s", i, got[i].UserID)
		}
	}

	s.Clear(alice)
	if n := len(s.List(alice)); n != 0 {
		t.Errorf("List() after Clear = %d entries", n)
	}
	if n := len(s.List(bob)); n != 1 {
		t.Errorf("Clear touched another user: %d entries", n)
	}
}

func TestNotificationService_DefaultCapacity(t *testing.T) {
	s := NewNotificationService(0, zap.NewNop())
	user := uuid.New()
	for i := 0; i < defaultNotificationsPerUser+5; i++ {
		s.Enqueue(user, "x", models.NotificationBudgetOverspent)
	}
	if n := len(s.List(user)); n != defaultNotificationsPerUser {
		t.Errorf("List() = %d entries, want %d", n, defaultNotificationsPerUser)
	}
}

func TestNotificationService_ListReturnsLatest(t *testing.T) {
	s := NewNotificationService(50, zap.NewNop())
	user := uuid.New()
	for i := 1; i <= 30; i++ {
		s.Enqueue(user, fmt.Sprintf("msg %d", i), models.NotificationBudgetOverspent)
	}

	got := s.List(user)
	if len(got) != maxNotificationsPerFetch {
		t.Fatalf("List() = %d entries, want %d", len(got), maxNotificationsPerFetch)
	}
	if got[0].Message != "msg 11" || got[len(got)-1].Message != "msg 30" {
		t.Errorf("List() = %q .. %q, want msg 11 .. msg 30", got[0].Message, got[len(got)-1].Message)
	}
}

func TestNotificationService_ListIsACopy(t *testing.T) {
	s := NewNotificationService(5, zap.NewNop())
	user := uuid.New()
	s.Enqueue(user, "original", models.NotificationGoalCompleted)

	got := s.List(user)
	got[0].Message = "changed"
	if s.List(user)[0].Message != "original" {
		t.Error("List() exposed internal state")
	}
}
