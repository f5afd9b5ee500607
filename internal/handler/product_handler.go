package handler

import (
	"net/http"
	"strconv"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	products *usecase.ProductUsecase
	stock    *usecase.StockUsecase
}

func NewProductHandler(products *usecase.ProductUsecase, stock *usecase.StockUsecase) *ProductHandler {
	return &ProductHandler{products: products, stock: stock}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/products")

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/:id/stock", h.stockDetail)

	//在庫調整は内部/管理エンドポイント
	g.PATCH("/:id/stock", h.stockAdjust)

	admin := g.Group("", middleware.AuthJWT(cfg), middleware.AdminOnly())
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
}

func (h *ProductHandler) list(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	category := c.QueryParam("category")

	out, err := h.products.ListProducts(c.Request().Context(), page, limit, category)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid product id"})
	}

	out, err := h.products.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type StockResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Stock     int64     `json:"stock"`
}

func (h *ProductHandler) stockDetail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid product id"})
	}

	p, err := h.products.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, StockResponse{ProductID: p.ID, Stock: p.Stock})
}

type StockAdjustRequest struct {
	Delta int64 `json:"delta"`
}

// 符号付きdeltaで在庫を増減する。結果の在庫数を返す。
func (h *ProductHandler) stockAdjust(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid product id"})
	}

	var req StockAdjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid body"})
	}

	p, err := h.stock.Adjust(c.Request().Context(), id, req.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, StockResponse{ProductID: p.ID, Stock: p.Stock})
}

type ProductCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       int64   `json:"price"`
	Stock       int64   `json:"stock"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
}

func (h *ProductHandler) create(c echo.Context) error {
	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid body"})
	}

	out, err := h.products.CreateProduct(c.Request().Context(), usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type ProductUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid product id"})
	}

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: usecase.CodeInvalidArgument, Message: "invalid body"})
	}

	out, err := h.products.UpdateProduct(c.Request().Context(), id, usecase.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func queryInt(c echo.Context, key string, def int) int {
	v := c.QueryParam(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
