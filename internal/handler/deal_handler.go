package handler

import (
	"net/http"
	"time"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DealHandler struct {
	deals *usecase.DealUsecase
}

func NewDealHandler(deals *usecase.DealUsecase) *DealHandler {
	return &DealHandler{deals: deals}
}

func (h *DealHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/deals")

	g.GET("", h.listActive)
	g.GET("/:id", h.detail)

	admin := g.Group("", middleware.AuthJWT(cfg), middleware.AdminOnly())
	admin.POST("", h.create)
}

func (h *DealHandler) listActive(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	out, err := h.deals.ListActiveDeals(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DealHandler) detail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid deal id"})
	}

	dwp, err := h.deals.GetDeal(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, usecase.NewDealOutput(dwp, time.Now().UTC()))
}

type DealCreateRequest struct {
	ProductID string    `json:"product_id"`
	DealPrice int64     `json:"deal_price"`
	DealStock int64     `json:"deal_stock"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

func (h *DealHandler) create(c echo.Context) error {
	var req DealCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid body"})
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid product id"})
	}

	out, err := h.deals.CreateDeal(c.Request().Context(), usecase.CreateDealInput{
		ProductID: productID,
		DealPrice: req.DealPrice,
		DealStock: req.DealStock,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
