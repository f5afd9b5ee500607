package handler

import (
	"net/http"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/cancel", h.cancel)
}

type OrderItemRequest struct {
	ProductID string  `json:"product_id"`
	DealID    *string `json:"deal_id,omitempty"`
	Quantity  int64   `json:"quantity"`
}

type ShippingAddressRequest struct {
	RecipientName string  `json:"recipient_name"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	AddressDetail *string `json:"address_detail,omitempty"`
	PostalCode    string  `json:"postal_code"`
}

type OrderCreateRequest struct {
	Items           []OrderItemRequest      `json:"items"`
	ShippingAddress *ShippingAddressRequest `json:"shipping_address,omitempty"`
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHORIZED", Message: "missing token"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid body"})
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		productID, err := uuid.Parse(it.ProductID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid product id"})
		}

		in := usecase.OrderItemInput{ProductID: productID, Quantity: it.Quantity}
		if it.DealID != nil {
			dealID, err := uuid.Parse(*it.DealID)
			if err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid deal id"})
			}
			in.DealID = &dealID
		}
		items = append(items, in)
	}

	var shipping *usecase.ShippingAddressInput
	if req.ShippingAddress != nil {
		shipping = &usecase.ShippingAddressInput{
			RecipientName: req.ShippingAddress.RecipientName,
			Phone:         req.ShippingAddress.Phone,
			Address:       req.ShippingAddress.Address,
			AddressDetail: req.ShippingAddress.AddressDetail,
			PostalCode:    req.ShippingAddress.PostalCode,
		}
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), userID, items, shipping)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHORIZED", Message: "missing token"})
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	status := c.QueryParam("status")

	out, err := h.uc.ListOrders(c.Request().Context(), userID, page, limit, status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHORIZED", Message: "missing token"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid order id"})
	}

	out, err := h.uc.GetOrder(c.Request().Context(), id, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type OrderCancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHORIZED", Message: "missing token"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid order id"})
	}

	var req OrderCancelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid body"})
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), id, userID, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
