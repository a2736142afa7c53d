package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/service"
)

type RewardHandler struct {
	redemption service.RedemptionService
	ledger     service.LedgerService
}

func NewRewardHandler(redemption service.RedemptionService, ledger service.LedgerService) *RewardHandler {
	return &RewardHandler{redemption: redemption, ledger: ledger}
}

func (h *RewardHandler) Catalog(c echo.Context) error {
	list, err := h.redemption.Catalog(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to fetch rewards")
	}
	if list == nil {
		list = []model.Reward{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *RewardHandler) Mine(c echo.Context) error {
	out, err := h.redemption.Mine(c.Request().Context(), uidOf(c))
	if err != nil {
		return respondError(c, err, "failed to fetch rewards")
	}
	if out.Rewards == nil {
		out.Rewards = []model.UserReward{}
	}
	return c.JSON(http.StatusOK, out)
}

type redeemRequest struct {
	Items []service.RedeemItem `json:"items"`
}

func (h *RewardHandler) Redeem(c echo.Context) error {
	uid := uidOf(c)
	if uid == "" {
		return unauthorized(c)
	}
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	out, err := h.redemption.Redeem(c.Request().Context(), uid, req.Items)
	if err != nil {
		return respondError(c, err, "failed to redeem rewards")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RewardHandler) Achievements(c echo.Context) error {
	out, err := h.ledger.Achievements(c.Request().Context(), uidOf(c))
	if err != nil {
		return respondError(c, err, "failed to compute points")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RewardHandler) History(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := h.ledger.History(c.Request().Context(), uidOf(c), limit)
	if err != nil {
		return respondError(c, err, "failed to fetch history")
	}
	if list == nil {
		list = []model.PointEvent{}
	}
	return c.JSON(http.StatusOK, list)
}
