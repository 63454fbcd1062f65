package trade

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/retail/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrPaymentNotConfirmed is returned when a gateway payment left the order awaiting confirmation
var ErrPaymentNotConfirmed = shared.NewDomainError("PAYMENT_NOT_CONFIRMED", "Payment is not approved yet; the order is awaiting confirmation")

// ProcessPayment applies a payment to an order under a row lock.
//
// A settled payment records one sale transaction. A gateway payment that is not
// approved commits the order as PROCESSING and returns ErrPaymentNotConfirmed.
func (s *OrderService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (_ *PaymentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "process_payment")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, req.OrderID,
		telemetry.SpanAttrMethod, req.PaymentMethod,
		telemetry.SpanAttrAmount, req.Amount,
	)

	attempt := req.toAttempt()

	var (
		order  *trade.Order
		saleTx *trade.SaleTransaction
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUpdate(ctx, req.OrderID)
		if err != nil {
			return notFoundAs(err, "Order not found")
		}

		tx, err := o.ApplyPayment(attempt)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		if tx != nil {
			if err := repos.SaleTransactionRepo().Create(ctx, tx); err != nil {
				return err
			}
		}
		order, saleTx = o, tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.businessMetrics.RecordPayment(req.PaymentMethod, string(order.Status))
	if saleTx == nil {
		s.logger.Info("Payment awaiting confirmation",
			zap.String("order_id", order.ID.String()),
			zap.String("gateway_status", attempt.GatewayStatus))
		return nil, ErrPaymentNotConfirmed
	}

	s.logger.Info("Payment settled",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_method", string(saleTx.PaymentMethod)),
		zap.String("amount", saleTx.Amount.StringFixed(2)),
		zap.String("status", string(order.Status)))
	return &PaymentResponse{
		Order:       ToOrderResponse(order),
		Transaction: toSaleTransactionResponse(saleTx),
	}, nil
}

// CreateGatewayPreference creates a hosted checkout for a pending online order
func (s *OrderService) CreateGatewayPreference(ctx context.Context, orderID uuid.UUID, req CreatePreferenceRequest) (*PreferenceResponse, error) {
	if s.gateway == nil {
		return nil, shared.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway is not configured")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundAs(err, "Order not found")
	}
	if order.SaleChannel != trade.SaleChannelOnlineWeb {
		return nil, shared.NewDomainError("UNSUPPORTED_PAYMENT", "Hosted checkout is only available for online orders")
	}
	if order.Status != trade.OrderStatusPending {
		return nil, shared.NewDomainErrorf("INVALID_ORDER_STATE", "Order is %s; a checkout can only be created for pending orders", order.Status)
	}

	payer := trade.Payer{
		Name:    strings.TrimSpace(req.PayerName),
		Surname: strings.TrimSpace(req.PayerSurname),
		Email:   strings.TrimSpace(req.PayerEmail),
		Phone:   strings.TrimSpace(req.PayerPhone),
	}
	if (payer.Name == "" || payer.Email == "") && order.ClientID != nil {
		if client, err := s.clientRepo.FindByID(ctx, *order.ClientID); err == nil {
			if payer.Name == "" {
				payer.Name, payer.Surname = client.FirstName, client.LastName
			}
			if payer.Email == "" {
				payer.Email = client.Email
			}
			if payer.Phone == "" {
				payer.Phone = client.Phone
			}
		}
	}

	items := make([]trade.PreferenceItem, len(order.Items))
	for i, it := range order.Items {
		items[i] = trade.PreferenceItem{
			ProductID: it.ProductID,
			Title:     it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		}
	}
	prefReq := trade.PreferenceRequest{OrderID: order.ID, Items: items, Payer: payer}
	if err := prefReq.Validate(); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	pref, err := s.gateway.CreatePreference(ctx, prefReq)
	if err != nil {
		s.logger.Error("Failed to create gateway preference",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, err
	}

	if err := order.SetGatewayPreference(pref.ID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	return &PreferenceResponse{
		PreferenceID:     pref.ID,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
	}, nil
}

// HandleGatewayWebhook verifies and applies a gateway notification.
// Only an invalid signature is reported to the caller; processing failures are logged.
func (s *OrderService) HandleGatewayWebhook(ctx context.Context, body []byte, signature string) error {
	if s.gateway == nil {
		return shared.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway is not configured")
	}
	if !s.gateway.VerifySignature(body, signature) {
		s.logger.Warn("Rejected gateway webhook with invalid signature")
		return shared.NewDomainError("INVALID_SIGNATURE", "Invalid webhook signature")
	}

	var notification GatewayNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		s.logger.Warn("Unparseable gateway webhook", zap.Error(err))
		return nil
	}

	switch notification.Type {
	case "payment":
		if err := s.applyGatewayPayment(ctx, string(notification.Data.ID)); err != nil {
			s.logger.Error("Failed to apply gateway payment",
				zap.String("payment_id", string(notification.Data.ID)),
				zap.Error(err))
		}
	case "merchant_order":
		s.logger.Info("Gateway merchant order notification acknowledged",
			zap.String("resource_id", string(notification.Data.ID)))
	default:
		s.logger.Info("Ignoring gateway notification",
			zap.String("type", notification.Type),
			zap.String("action", notification.Action))
	}
	return nil
}

func (s *OrderService) applyGatewayPayment(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return errors.New("payment notification without a payment id")
	}

	payment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	key := "gateway:payment:" + payment.ID + ":" + payment.Status
	if s.idempotency != nil {
		seen, err := s.idempotency.IsProcessed(ctx, key)
		if err != nil {
			return err
		}
		if seen {
			s.logger.Debug("Duplicate gateway notification skipped", zap.String("key", key))
			return nil
		}
	}

	orderID, err := uuid.Parse(payment.ExternalReference)
	if err != nil {
		return errors.New("payment external reference is not an order id: " + payment.ExternalReference)
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.AcceptsPayment() {
		s.logger.Info("Gateway payment for an order that no longer accepts payments",
			zap.String("order_id", orderID.String()),
			zap.String("status", string(order.Status)))
		return s.markProcessed(ctx, key)
	}

	var notes string
	if payment.MethodID != "" {
		notes = "Gateway method: " + payment.MethodID
	}
	_, err = s.ProcessPayment(ctx, ProcessPaymentRequest{
		OrderID:              orderID,
		PaymentMethod:        string(trade.PaymentMethodMercadoPagoOnline),
		Amount:               payment.Amount,
		PaymentGatewayID:     payment.ID,
		PaymentGatewayStatus: payment.Status,
		Notes:                notes,
	})
	if err != nil && !errors.Is(err, ErrPaymentNotConfirmed) {
		return err
	}
	return s.markProcessed(ctx, key)
}

func (s *OrderService) markProcessed(ctx context.Context, key string) error {
	if s.idempotency == nil {
		return nil
	}
	_, err := s.idempotency.MarkProcessed(ctx, key, webhookDedupeTTL)
	return err
}
