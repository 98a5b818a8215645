package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/MightyHelper/WSD25-Assign02/internal/logging"
	authmw "github.com/MightyHelper/WSD25-Assign02/internal/middleware/auth"
	"github.com/MightyHelper/WSD25-Assign02/internal/models"
	"github.com/MightyHelper/WSD25-Assign02/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

// CreateOrder: regular users may only create their own unpaid orders;
// admins may create any.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	var req struct {
		ID     string `json:"id"`
		UserID string `json:"user_id"`
		Paid   bool   `json:"paid"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.UserID == "" {
		req.UserID = user.ID
	}
	if !user.Role.IsAdmin() {
		if req.UserID != user.ID {
			return echo.NewHTTPError(http.StatusForbidden, "cannot create orders for other users")
		}
		if req.Paid {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot create a paid order")
		}
	}

	order := models.Order{ID: req.ID, UserID: req.UserID, Paid: req.Paid}
	if err := h.DB.WithContext(ctx).Create(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "order creation failed")
	}
	if !order.Paid {
		// an unpaid order becomes the owner's active cart
		err := h.DB.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", order.UserID).
			Update("active_order_id", order.ID).Error
		if err != nil {
			logging.FromContext(ctx).Warn("active order update failed", "order_id", order.ID, "error", err)
		}
	}

	h.publish(c, order.ID, map[string]any{"type": "order_created", "order_id": order.ID, "user_id": order.UserID})
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) getOwnedOrder(c echo.Context) (*models.Order, error) {
	user := authmw.CurrentUser(c)

	var order models.Order
	err := h.DB.WithContext(c.Request().Context()).First(&order, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	if order.UserID != user.ID && !user.Role.IsAdmin() {
		return nil, echo.NewHTTPError(http.StatusForbidden, "not your order")
	}
	return &order, nil
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.getOwnedOrder(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// SetItem upserts an order line; quantity <= 0 removes it.
func (h *OrderHandler) SetItem(c echo.Context) error {
	ctx := c.Request().Context()
	order, err := h.getOwnedOrder(c)
	if err != nil {
		return err
	}
	if order.Paid {
		return echo.NewHTTPError(http.StatusBadRequest, "order already paid")
	}

	var req struct {
		BookID   string `json:"book_id"`
		Quantity int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.BookID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "book_id is required")
	}

	var book models.Book
	if err := h.DB.WithContext(ctx).First(&book, "id = ?", req.BookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	var item models.OrderItem
	findErr := h.DB.WithContext(ctx).
		Where("order_id = ? AND book_id = ?", order.ID, req.BookID).
		First(&item).Error
	missing := errors.Is(findErr, gorm.ErrRecordNotFound)
	if findErr != nil && !missing {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	if req.Quantity <= 0 {
		if missing {
			return c.JSON(http.StatusOK, echo.Map{"ok": true})
		}
		if err := h.DB.WithContext(ctx).Delete(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "item delete failed")
		}
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}

	if missing {
		item = models.OrderItem{
			ID:       uuid.NewString(),
			OrderID:  order.ID,
			BookID:   req.BookID,
			Quantity: req.Quantity,
		}
		if err := h.DB.WithContext(ctx).Create(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "item creation failed")
		}
		return c.JSON(http.StatusCreated, item)
	}

	item.Quantity = req.Quantity
	if err := h.DB.WithContext(ctx).Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "item update failed")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *OrderHandler) ListItems(c echo.Context) error {
	order, err := h.getOwnedOrder(c)
	if err != nil {
		return err
	}

	var items []models.OrderItem
	if err := h.DB.WithContext(c.Request().Context()).
		Where("order_id = ?", order.ID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) PayOrder(c echo.Context) error {
	ctx := c.Request().Context()
	order, err := h.getOwnedOrder(c)
	if err != nil {
		return err
	}
	if order.Paid {
		return echo.NewHTTPError(http.StatusBadRequest, "order already paid")
	}

	order.Paid = true
	if err := h.DB.WithContext(ctx).Model(order).Update("paid", true).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "payment failed")
	}
	err = h.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND active_order_id = ?", order.UserID, order.ID).
		Update("active_order_id", nil).Error
	if err != nil {
		logging.FromContext(ctx).Warn("active order clear failed", "order_id", order.ID, "error", err)
	}

	h.publish(c, order.ID, map[string]any{"type": "order_paid", "order_id": order.ID, "user_id": order.UserID})
	return c.JSON(http.StatusOK, order)
}
