package service

import (
	"strconv"
	"sync"
	"time"

	"fin-guardian/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultNotificationsPerUser = 20
	maxNotificationsPerFetch    = 20
)

// NotificationService is the process-wide notification queue. Each user keeps at most
// perUser entries; older ones are dropped as new ones arrive.
type NotificationService struct {
	mu      sync.Mutex
	perUser int
	seq     uint64
	queues  map[uuid.UUID][]models.Notification
	now     func() time.Time
	logger  *zap.Logger
}

func NewNotificationService(perUser int, logger *zap.Logger) *NotificationService {
	if perUser <= 0 {
		perUser = defaultNotificationsPerUser
	}
	return &NotificationService{
		perUser: perUser,
		queues:  make(map[uuid.UUID][]models.Notification),
		now:     time.Now,
		logger:  logger,
	}
}

func (s *NotificationService) Enqueue(userID uuid.UUID, message string, typ models.NotificationType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	q := append(s.queues[userID], models.Notification{
		ID:        strconv.FormatUint(s.seq, 10),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		CreatedAt: s.now(),
	})
	if len(q) > s.perUser {
		q = append([]models.Notification(nil), q[len(q)-s.perUser:]...)
	}
	s.queues[userID] = q

	s.logger.Debug("Notification enqueued",
		zap.String("user_id", userID.String()),
		zap.String("type", string(typ)),
	)
}

// List returns the user's latest pending notifications, at most maxNotificationsPerFetch,
// oldest first.
func (s *NotificationService) List(userID uuid.UUID) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.queues[userID]
	if len(q) > maxNotificationsPerFetch {
		q = q[len(q)-maxNotificationsPerFetch:]
	}
	out := make([]models.Notification, len(q))
	copy(out, q)
	return out
}

func (s *NotificationService) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.queues, userID)
}
