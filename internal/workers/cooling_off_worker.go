package workers

import (
	"context"
	"time"

	"agelink_backend/internal/logger"
	"agelink_backend/internal/models"
	"agelink_backend/internal/repositories"
	"agelink_backend/internal/services"
)

// CoolingOffWorker periodically sweeps expired cooling-off windows and tells
// both former parties they may re-engage. The guard itself is enforced at
// application creation; this worker only handles the courtesy notification.
type CoolingOffWorker struct {
	relationshipRepo repositories.RelationshipRepository
	notifications    services.NotificationService
	interval         time.Duration
}

func NewCoolingOffWorker(
	relationshipRepo repositories.RelationshipRepository,
	notifications services.NotificationService,
	interval time.Duration,
) *CoolingOffWorker {
	return &CoolingOffWorker{
		relationshipRepo: relationshipRepo,
		notifications:    notifications,
		interval:         interval,
	}
}

func (w *CoolingOffWorker) Start(ctx context.Context) {
	go w.sweepExpired(ctx)
}

func (w *CoolingOffWorker) sweepExpired(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("cooling-off worker stopped")
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

func (w *CoolingOffWorker) runOnce() {
	withdrawals, err := w.relationshipRepo.ListWithdrawalsToNotify(time.Now())
	if err != nil {
		logger.WorkerLog("cooling_off", "list expired withdrawals", err)
		return
	}

	for i := range withdrawals {
		withdrawal := &withdrawals[i]

		rel, err := w.relationshipRepo.FindByID(withdrawal.RelationshipID)
		if err != nil {
			logger.WorkerLog("cooling_off", "load relationship", err)
			continue
		}

		for _, userID := range []string{rel.YouthID, rel.ElderlyID} {
			w.notifications.Notify(userID, models.NotificationCoolingOffEnded,
				"Cooling-off period ended",
				"The cooling-off period after your withdrawal has ended. You are free to start a new application.",
				nil, &rel.ID)
		}

		if err := w.relationshipRepo.MarkWithdrawalNotified(withdrawal.ID); err != nil {
			logger.WorkerLog("cooling_off", "mark withdrawal notified", err)
			continue
		}
	}

	if len(withdrawals) > 0 {
		logger.WorkerLog("cooling_off", "sweep", nil)
	}
}
