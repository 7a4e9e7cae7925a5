package controller

import (
	"ecommerce-recs-be/internal/dto"
	"ecommerce-recs-be/internal/pkg/serverutils"
	"ecommerce-recs-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRecommendationController interface {
	RegisterRoutes(r fiber.Router)
	ForUser(ctx *fiber.Ctx) error
	Anonymous(ctx *fiber.Ctx) error
	Similar(ctx *fiber.Ctx) error
}

type recommendationController struct {
	service service.IRecommendationService
}

func NewRecommendationController(service service.IRecommendationService) IRecommendationController {
	return &recommendationController{service: service}
}

func (c *recommendationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/recommendation/v1")
	h.Get("user", serverutils.JwtMiddleware, c.ForUser)
	h.Get("anonymous", c.Anonymous)
	h.Get("similar/:productId", c.Similar)
}

func (c *recommendationController) ForUser(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.RecommendationsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequestError("Invalid query parameters")
	}

	res, err := c.service.ForUser(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get recommendations", res))
}

func (c *recommendationController) Anonymous(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit")

	res, err := c.service.Anonymous(ctx.Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get recommendations", res))
}

func (c *recommendationController) Similar(ctx *fiber.Ctx) error {
	productId, err := uuid.Parse(ctx.Params("productId"))
	if err != nil {
		return serverutils.BadRequestError("Invalid product id")
	}
	limit := ctx.QueryInt("limit")

	res, err := c.service.SimilarProducts(ctx.Context(), productId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get similar products", res))
}
