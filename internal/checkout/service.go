package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/internal/discounts"
	"github.com/grocemart/grocemart-backend/internal/orders"
	"github.com/grocemart/grocemart-backend/pkg/config"
	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
	"github.com/grocemart/grocemart-backend/pkg/logger"
	"github.com/grocemart/grocemart-backend/pkg/outbox"
	"github.com/grocemart/grocemart-backend/pkg/outbox/payloads"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionStore interface {
	FindOpenByCart(ctx context.Context, customerID, cartID uuid.UUID) (*models.CheckoutSession, error)
	Create(ctx context.Context, session *models.CheckoutSession) error
	Save(ctx context.Context, session *models.CheckoutSession) error
	SaveTx(tx *gorm.DB, session *models.CheckoutSession) error
	Transition(ctx context.Context, id uuid.UUID, from, to enums.CheckoutStatus) error
}

type cartProvider interface {
	ActiveRecord(ctx context.Context, customerID, storeID uuid.UUID) (*models.CartRecord, error)
}

type cartConverter interface {
	MarkConverted(tx *gorm.DB, cartID uuid.UUID, at time.Time) error
}

type catalogProvider interface {
	ActiveCatalog(ctx context.Context, storeID uuid.UUID) ([]models.Discount, error)
}

type addressProvider interface {
	Record(ctx context.Context, customerID, id uuid.UUID) (*models.CustomerAddress, error)
}

type orderWriter interface {
	CreateTx(tx *gorm.DB, order *models.Order) error
	MarkPaidTx(tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type variantLoader interface {
	FindVariants(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service orchestrates the checkout session lifecycle: preview, address and
// shipping selection, discount toggles, and the final submit.
type Service interface {
	Preview(ctx context.Context, customerID, storeID uuid.UUID) (*PreviewDTO, error)
	SelectAddress(ctx context.Context, customerID, storeID, addressID uuid.UUID) (*PreviewDTO, error)
	SelectShipping(ctx context.Context, customerID, storeID uuid.UUID, input ShippingInput) (*PreviewDTO, error)
	ToggleDiscount(ctx context.Context, customerID, storeID, discountID uuid.UUID, enabled bool) (*PreviewDTO, error)
	Submit(ctx context.Context, customerID, storeID uuid.UUID) (*orders.OrderDTO, error)
}

type service struct {
	tx        txRunner
	sessions  sessionStore
	carts     cartProvider
	converter cartConverter
	catalog   catalogProvider
	addresses addressProvider
	orders    orderWriter
	products  productLoader
	variants  variantLoader
	outbox    outboxPublisher
	logg      *logger.Logger
	cfg       config.CheckoutConfig
	now       func() time.Time
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	sessions sessionStore,
	carts cartProvider,
	converter cartConverter,
	catalog catalogProvider,
	addresses addressProvider,
	orderRepo orderWriter,
	products productLoader,
	variants variantLoader,
	publisher outboxPublisher,
	logg *logger.Logger,
	cfg config.CheckoutConfig,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	if converter == nil {
		return nil, fmt.Errorf("cart converter required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("discount catalog required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address provider required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant loader required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:        tx,
		sessions:  sessions,
		carts:     carts,
		converter: converter,
		catalog:   catalog,
		addresses: addresses,
		orders:    orderRepo,
		products:  products,
		variants:  variants,
		outbox:    publisher,
		logg:      logg,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

// composed carries the session and the latest composition run against it.
type composed struct {
	cart    *models.CartRecord
	session *models.CheckoutSession
	catalog []models.Discount
	result  discounts.Result
}

func (s *service) Preview(ctx context.Context, customerID, storeID uuid.UUID) (*PreviewDTO, error) {
	c, err := s.compose(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, c)
}

func (s *service) SelectAddress(ctx context.Context, customerID, storeID, addressID uuid.UUID) (*PreviewDTO, error) {
	c, err := s.compose(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	addr, err := s.addresses.Record(ctx, customerID, addressID)
	if err != nil {
		return nil, err
	}

	if c.session.SelectedAddressID == nil || *c.session.SelectedAddressID != addr.ID {
		c.session.SelectedAddressID = &addr.ID
		if c.session.SelectedShipping != nil {
			// The quoted rate was for the old destination.
			c.session.SelectedShipping = nil
			c.recompose(s.now())
		}
	}
	return s.finalize(ctx, c)
}

func (s *service) SelectShipping(ctx context.Context, customerID, storeID uuid.UUID, input ShippingInput) (*PreviewDTO, error) {
	if _, err := enums.ParseCourier(input.Courier); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown courier")
	}
	if _, err := enums.ParseCourierServiceLevel(input.ServiceLevel); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown courier service level")
	}
	if input.CostCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping cost cannot be negative")
	}

	c, err := s.compose(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}
	if c.session.SelectedAddressID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select a shipping address first")
	}

	c.session.SelectedShipping = &types.ShippingSelection{
		Courier:      input.Courier,
		ServiceLevel: input.ServiceLevel,
		Description:  input.Description,
		CostCents:    input.CostCents,
		ETD:          input.ETD,
	}
	c.recompose(s.now())
	return s.finalize(ctx, c)
}

func (s *service) ToggleDiscount(ctx context.Context, customerID, storeID, discountID uuid.UUID, enabled bool) (*PreviewDTO, error) {
	c, err := s.compose(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	applicable := false
	for _, id := range c.result.AppliedIDs() {
		if id == discountID {
			applicable = true
			break
		}
	}
	if !applicable {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount does not apply to this cart")
	}

	ids := c.session.EnabledDiscountIDs[:0:0]
	for _, id := range c.session.EnabledDiscountIDs {
		if id != discountID {
			ids = append(ids, id)
		}
	}
	if enabled {
		ids = append(ids, discountID)
	}
	c.session.EnabledDiscountIDs = ids

	return s.finalize(ctx, c)
}

func (s *service) Submit(ctx context.Context, customerID, storeID uuid.UUID) (*orders.OrderDTO, error) {
	c, err := s.compose(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}
	if len(c.cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	if c.session.SelectedAddressID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address not selected")
	}
	if c.session.SelectedShipping == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping option not selected")
	}

	addr, err := s.addresses.Record(ctx, customerID, *c.session.SelectedAddressID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Transition(ctx, c.session.ID, enums.CheckoutStatusOpen, enums.CheckoutStatusSubmitting); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is already being submitted")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock checkout session")
	}

	if err := s.simulateCapture(ctx); err != nil {
		_ = s.sessions.Transition(ctx, c.session.ID, enums.CheckoutStatusSubmitting, enums.CheckoutStatusOpen)
		return nil, err
	}

	items, err := s.buildOrderItems(ctx, c.cart.Items)
	if err != nil {
		_ = s.sessions.Transition(ctx, c.session.ID, enums.CheckoutStatusSubmitting, enums.CheckoutStatusOpen)
		return nil, err
	}

	enabled := enabledSet(c.session, c.result)
	subtotal, discount, shippingCents, total := deriveTotals(c.cart, c.result, enabled, c.session.SelectedShipping)
	now := s.now()

	order := &models.Order{
		ID:                uuid.New(),
		CustomerID:        customerID,
		StoreID:           c.cart.StoreID,
		CartID:            c.cart.ID,
		CheckoutSessionID: c.session.ID,
		Status:            enums.OrderStatusPending,
		Currency:          c.cart.Currency,
		SubtotalCents:     subtotal,
		DiscountCents:     discount,
		ShippingCents:     shippingCents,
		TotalCents:        total,
		ShippingAddress:   addr.Address,
		ShippingSelection: *c.session.SelectedShipping,
		DiscountBreakdown: breakdown(c.result, enabled),
		Items:             items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.CreateTx(tx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := s.converter.MarkConverted(tx, c.cart.ID, now); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cart already converted")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "convert cart")
		}

		c.session.Status = enums.CheckoutStatusCompleted
		c.session.CompletedAt = &now
		c.session.SubtotalCents = subtotal
		c.session.DiscountCents = discount
		c.session.ShippingCents = shippingCents
		c.session.TotalCents = total
		if err := s.sessions.SaveTx(tx, c.session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete checkout session")
		}

		if err := s.orders.MarkPaidTx(tx, order.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "capture payment")
		}
		order.Status = enums.OrderStatusPaid
		order.PaidAt = &now

		actor := &outbox.ActorRef{UserID: customerID, Role: enums.MemberRoleCustomer.String()}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actor,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderCreatedEvent{
				OrderID:           order.ID,
				CheckoutSessionID: c.session.ID,
				CustomerID:        customerID,
				StoreID:           order.StoreID,
				Currency:          string(order.Currency),
				SubtotalCents:     subtotal,
				DiscountCents:     discount,
				ShippingCents:     shippingCents,
				TotalCents:        total,
				Discounts:         order.DiscountBreakdown,
				PaidAt:            order.PaidAt,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue order event")
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCheckoutCompleted,
			AggregateType: enums.AggregateCheckoutSession,
			AggregateID:   c.session.ID,
			Actor:         actor,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.CheckoutCompletedEvent{
				CheckoutSessionID: c.session.ID,
				CartID:            c.cart.ID,
				CustomerID:        customerID,
				OrderID:           order.ID,
				CompletedAt:       now,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue checkout event")
		}
		return nil
	})
	if err != nil {
		_ = s.sessions.Transition(ctx, c.session.ID, enums.CheckoutStatusSubmitting, enums.CheckoutStatusOpen)
		return nil, err
	}

	if s.logg != nil {
		fields := map[string]any{"order_id": order.ID.String(), "total_cents": total}
		s.logg.Info(s.logg.WithFields(ctx, fields), "checkout submitted")
	}

	dto := orders.ToDTO(*order)
	return &dto, nil
}

// compose loads the active cart and its open session, runs the discount
// engine, and applies the one-shot auto-enable. Nothing is persisted until
// finalize.
func (s *service) compose(ctx context.Context, customerID, storeID uuid.UUID) (*composed, error) {
	cart, err := s.carts.ActiveRecord(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindOpenByCart(ctx, customerID, cart.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
		}
		session = &models.CheckoutSession{
			ID:         uuid.New(),
			CustomerID: customerID,
			CartID:     cart.ID,
			StoreID:    cart.StoreID,
			Status:     enums.CheckoutStatusOpen,
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
		}
	}

	catalog, err := s.catalog.ActiveCatalog(ctx, cart.StoreID)
	if err != nil {
		return nil, err
	}

	c := &composed{cart: cart, session: session, catalog: catalog}
	c.recompose(s.now())

	if !session.DiscountsInitialized && len(c.result.Applied) > 0 {
		session.EnabledDiscountIDs = c.result.AppliedIDs()
		session.DiscountsInitialized = true
	}
	return c, nil
}

func (c *composed) recompose(now time.Time) {
	c.result = discounts.Compose(snapshotFromCart(c.cart), c.catalog, c.session.SelectedShipping, now)
}

// finalize persists the session with fresh totals and maps it to the preview
// shape.
func (s *service) finalize(ctx context.Context, c *composed) (*PreviewDTO, error) {
	enabled := enabledSet(c.session, c.result)
	subtotal, discount, shippingCents, total := deriveTotals(c.cart, c.result, enabled, c.session.SelectedShipping)
	c.session.SubtotalCents = subtotal
	c.session.DiscountCents = discount
	c.session.ShippingCents = shippingCents
	c.session.TotalCents = total

	if err := s.sessions.Save(ctx, c.session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}

	applied := make([]discounts.AppliedDiscountDTO, 0, len(c.result.Applied))
	for _, entry := range c.result.Applied {
		applied = append(applied, discounts.ToAppliedDTO(entry, enabled[entry.Discount.ID]))
	}
	return toPreviewDTO(c.session, applied), nil
}

func (s *service) simulateCapture(ctx context.Context) error {
	delay := time.Duration(s.cfg.SubmitDelayMS) * time.Millisecond
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "payment capture interrupted")
	case <-timer.C:
		return nil
	}
}

func (s *service) buildOrderItems(ctx context.Context, items []models.CartItem) ([]models.OrderItem, error) {
	variantIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		variantIDs = append(variantIDs, item.VariantID)
	}
	variants, err := s.variants.FindVariants(ctx, variantIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}
	variantNames := make(map[uuid.UUID]string, len(variants))
	for _, variant := range variants {
		variantNames[variant.ID] = variant.Name
	}

	productCache := map[uuid.UUID]*models.Product{}
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, ok := productCache[item.ProductID]
		if !ok {
			product, err = s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			productCache[item.ProductID] = product
		}
		out = append(out, models.OrderItem{
			ID:                uuid.New(),
			VariantID:         item.VariantID,
			ProductID:         item.ProductID,
			ProductName:       product.Name,
			VariantName:       variantNames[item.VariantID],
			Quantity:          item.Quantity,
			UnitPriceCents:    item.UnitPriceCents,
			LineSubtotalCents: item.LineSubtotalCents,
		})
	}
	return out, nil
}

func snapshotFromCart(cart *models.CartRecord) *discounts.Snapshot {
	if cart == nil {
		return nil
	}
	snapshot := &discounts.Snapshot{SubtotalCents: cart.SubtotalCents}
	for _, item := range cart.Items {
		snapshot.Lines = append(snapshot.Lines, discounts.CartLine{
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return snapshot
}

// enabledSet intersects the customer's toggles with what actually composed;
// stale toggles for discounts no longer applying contribute nothing.
func enabledSet(session *models.CheckoutSession, result discounts.Result) map[uuid.UUID]bool {
	chosen := make(map[uuid.UUID]bool, len(session.EnabledDiscountIDs))
	for _, id := range session.EnabledDiscountIDs {
		chosen[id] = true
	}
	enabled := make(map[uuid.UUID]bool, len(result.Applied))
	for _, entry := range result.Applied {
		if chosen[entry.Discount.ID] {
			enabled[entry.Discount.ID] = true
		}
	}
	return enabled
}

// deriveTotals computes session money fields. Subtotal, discount, and
// shipping stay informational on their own; the total only materializes once
// a cart and a shipping selection are both present, and it is not floored at
// zero.
func deriveTotals(cart *models.CartRecord, result discounts.Result, enabled map[uuid.UUID]bool, shipping *types.ShippingSelection) (subtotal, discount, shippingCents, total int64) {
	if cart != nil {
		subtotal = cart.SubtotalCents
	}
	discount = result.EnabledTotal(enabled)
	if shipping != nil {
		shippingCents = shipping.CostCents
	}
	if cart != nil && shipping != nil {
		total = subtotal - discount + shippingCents
	}
	return subtotal, discount, shippingCents, total
}

func breakdown(result discounts.Result, enabled map[uuid.UUID]bool) types.DiscountBreakdown {
	lines := make(types.DiscountBreakdown, 0, len(result.Applied))
	for _, entry := range result.Applied {
		if !enabled[entry.Discount.ID] {
			continue
		}
		lines = append(lines, types.DiscountLine{
			DiscountID:   entry.Discount.ID,
			Name:         entry.Discount.Name,
			Type:         entry.Discount.Type.String(),
			AppliedCents: entry.AppliedCents,
		})
	}
	return lines
}
