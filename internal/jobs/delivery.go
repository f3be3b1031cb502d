package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/timecapsule/capsule/internal/repository"
)

const deliveryTimeout = 30 * time.Second

// DeliveryJob marks messages delivered once their delivery date has
// passed. It stands in for the real dispatcher in the stub backend.
type DeliveryJob struct {
	messageRepo repository.MessageRepository
	interval    time.Duration
	now         func() time.Time
	done        chan struct{}
}

func NewDeliveryJob(messageRepo repository.MessageRepository, interval time.Duration) *DeliveryJob {
	return &DeliveryJob{
		messageRepo: messageRepo,
		interval:    interval,
		now:         time.Now,
		done:        make(chan struct{}),
	}
}

func (j *DeliveryJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("delivery job started")
}

func (j *DeliveryJob) Stop() {
	close(j.done)
	log.Info().Msg("delivery job stopped")
}

func (j *DeliveryJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.deliver()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.deliver()
		}
	}
}

func (j *DeliveryJob) deliver() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	count, err := j.messageRepo.MarkDueDelivered(ctx, j.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to deliver due messages")
		return 0
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("delivered due messages")
	}
	return count
}
