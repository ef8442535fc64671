package background

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	orderuc "github.com/bazaarkit/bazaar-order-service/internal/usecase/order"
)

const expirySweepSchedule = "@every 1m"

// BackgroundTasks owns the periodic jobs of the service. Currently a single
// job sweeps PENDING_ADMIN orders past their payment deadline.
type BackgroundTasks struct {
	Orders orderuc.OrderUsecase

	scheduler *cron.Cron
}

func NewBackgroundTasks(orders orderuc.OrderUsecase) *BackgroundTasks {
	return &BackgroundTasks{
		Orders:    orders,
		scheduler: cron.New(),
	}
}

func (bt *BackgroundTasks) Start() error {
	_, err := bt.scheduler.AddFunc(expirySweepSchedule, func() {
		if err := bt.Orders.CancelExpiredOrders(context.Background()); err != nil {
			slog.Error("expired order sweep failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return err
	}
	bt.scheduler.Start()
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (bt *BackgroundTasks) Stop() {
	<-bt.scheduler.Stop().Done()
}
