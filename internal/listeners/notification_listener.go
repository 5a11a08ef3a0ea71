package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dispatch-system/internal/events"
	"dispatch-system/pkg/config"
	"dispatch-system/pkg/eventbus"
	"dispatch-system/pkg/telegram"
)

// NotificationListener turns domain events into owner notifications. It is
// the only component that knows the delivery channel; services publish
// events and move on.
type NotificationListener struct {
	telegramService telegram.ServiceInterface
	cfg             config.TelegramConfig
	logger          *zap.Logger
}

func NewNotificationListener(
	telegramService telegram.ServiceInterface,
	cfg config.TelegramConfig,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		telegramService: telegramService,
		cfg:             cfg,
		logger:          logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe("order.assigned", l.handleOrderAssigned)
	bus.Subscribe("order.completed", l.handleOrderCompleted)
	bus.Subscribe("order.rescheduled", l.handleOrderRescheduled)
	bus.Subscribe("order.withdrawn", l.handleOrderWithdrawn)
}

func (l *NotificationListener) handleOrderAssigned(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderAssignedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type for %q", event.Name())
	}
	text := fmt.Sprintf(
		"<b>Order Assigned</b>\nOrder: %s\nCustomer: %s\nInstaller: %s\nDate: %s\nTime: %s - %s",
		e.OrderNumber, e.CustomerName, e.InstallerName, e.ScheduledDate, e.StartTime, e.EndTime,
	)
	return l.send(ctx, text)
}

func (l *NotificationListener) handleOrderCompleted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type for %q", event.Name())
	}
	text := fmt.Sprintf(
		"<b>Order Completed</b>\nOrder: %s\nCustomer: %s\nInstaller: %s",
		e.OrderNumber, e.CustomerName, e.InstallerName,
	)
	return l.send(ctx, text)
}

func (l *NotificationListener) handleOrderRescheduled(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderRescheduledEvent)
	if !ok {
		return fmt.Errorf("unexpected event type for %q", event.Name())
	}
	text := fmt.Sprintf(
		"<b>Order Rescheduled</b>\nOrder: %s\nCustomer: %s\nInstaller: %s\nReason: %s\nNew date: %s\nNew time: %s",
		e.OrderNumber, e.CustomerName, e.InstallerName, e.Reason, e.NewDate, e.NewTime,
	)
	return l.send(ctx, text)
}

func (l *NotificationListener) handleOrderWithdrawn(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderWithdrawnEvent)
	if !ok {
		return fmt.Errorf("unexpected event type for %q", event.Name())
	}
	text := fmt.Sprintf(
		"<b>Order Withdrawn</b>\nOrder: %s\nCustomer: %s",
		e.OrderNumber, e.CustomerName,
	)
	return l.send(ctx, text)
}

func (l *NotificationListener) send(ctx context.Context, text string) error {
	if l.cfg.OwnerChatID == 0 {
		l.logger.Debug("owner chat id not configured, notification skipped")
		return nil
	}
	return l.telegramService.SendMessage(ctx, l.cfg.OwnerChatID, text)
}
