package withdrawal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
	wdpipeline "github.com/wagerly/bridge-backend/internal/pipeline/withdrawal"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
	"github.com/wagerly/bridge-backend/internal/view"
)

type CreateWithdrawalRequest struct {
	UserID    uint   `json:"user_id" binding:"required"`
	Network   string `json:"network" binding:"required"`
	ToAddress string `json:"to_address" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

type CreateWithdrawalResponse struct {
	Request    *model.WithdrawalRequest `json:"request"`
	NewBalance string                   `json:"new_balance"`
}

type FailRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type handler struct {
	pipeline  wdpipeline.IPipeline
	logger    *logger.Logger
	appConfig *config.AppConfig
}

func New(pipeline wdpipeline.IPipeline, logger *logger.Logger, appConfig *config.AppConfig) IHandler {
	return &handler{
		pipeline:  pipeline,
		logger:    logger,
		appConfig: appConfig,
	}
}

// Create godoc
// @Summary Create withdrawal request
// @Description Creates a withdrawal request and reserves the gross amount from the user balance
// @id createWithdrawal
// @Tags Withdrawal
// @Accept json
// @Produce json
// @Param request body CreateWithdrawalRequest true "Withdrawal request parameters"
// @Success 200 {object} view.MessageResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 500 {object} view.ErrorResponse
// @Router /withdrawals [post]
func (h *handler) Create(c *gin.Context) {
	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[Create][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	// validate req
	if err := validator.New().Struct(req); err != nil {
		h.logger.Error("[Create][Validator]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	network, err := model.ParseNetwork(req.Network)
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid network"))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid amount"))
		return
	}

	created, newBalance, err := h.pipeline.Create(req.UserID, network, req.ToAddress, amount)
	if err != nil {
		h.logger.Error("[Create][Pipeline]", map[string]string{
			"error":   err.Error(),
			"network": network.String(),
		})
		c.JSON(statusFor(err), view.CreateResponse[any](nil, err, nil, "failed to create withdrawal"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](CreateWithdrawalResponse{
		Request:    created,
		NewBalance: newBalance.String(),
	}, nil, nil, ""))
}

// Approve godoc
// @Summary Approve withdrawal request
// @Description Moves a pending withdrawal request to approved
// @id approveWithdrawal
// @Tags Withdrawal
// @Produce json
// @Param id path int true "Withdrawal request ID"
// @Success 200 {object} view.MessageResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /withdrawals/{id}/approve [post]
func (h *handler) Approve(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	if err := h.pipeline.Approve(id); err != nil {
		c.JSON(statusFor(err), view.CreateResponse[any](nil, err, nil, "failed to approve withdrawal"))
		return
	}
	c.JSON(http.StatusOK, view.CreateResponse[any]("withdrawal approved", nil, nil, ""))
}

// Send godoc
// @Summary Send withdrawal payout
// @Description Pays out an approved withdrawal request on chain
// @id sendWithdrawal
// @Tags Withdrawal
// @Produce json
// @Param id path int true "Withdrawal request ID"
// @Success 200 {object} view.MessageResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /withdrawals/{id}/send [post]
func (h *handler) Send(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	sent, err := h.pipeline.Send(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("[Send][Pipeline]", map[string]string{
			"error":     err.Error(),
			"requestId": strconv.FormatUint(uint64(id), 10),
		})
		c.JSON(statusFor(err), view.CreateResponse[any](nil, err, nil, "failed to send withdrawal"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](sent, nil, nil, ""))
}

// Retry godoc
// @Summary Retry failed withdrawal
// @Description Re-reserves funds for a failed withdrawal and moves it back to approved
// @id retryWithdrawal
// @Tags Withdrawal
// @Produce json
// @Param id path int true "Withdrawal request ID"
// @Success 200 {object} view.MessageResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /withdrawals/{id}/retry [post]
func (h *handler) Retry(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	if err := h.pipeline.Retry(id); err != nil {
		c.JSON(statusFor(err), view.CreateResponse[any](nil, err, nil, "failed to retry withdrawal"))
		return
	}
	c.JSON(http.StatusOK, view.CreateResponse[any]("withdrawal retrying", nil, nil, ""))
}

// Fail godoc
// @Summary Reject pending withdrawal
// @Description Rejects a pending withdrawal request and refunds the reserved amount
// @id failWithdrawal
// @Tags Withdrawal
// @Accept json
// @Produce json
// @Param id path int true "Withdrawal request ID"
// @Param request body FailRequest true "Rejection reason"
// @Success 200 {object} view.MessageResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /withdrawals/{id}/fail [post]
func (h *handler) Fail(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	var req FailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	if err := h.pipeline.Fail(id, req.Reason); err != nil {
		c.JSON(statusFor(err), view.CreateResponse[any](nil, err, nil, "failed to reject withdrawal"))
		return
	}
	c.JSON(http.StatusOK, view.CreateResponse[any]("withdrawal rejected", nil, nil, ""))
}

func (h *handler) requestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, nil, "invalid request id"))
		return 0, false
	}
	return uint(id), true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, wdpipeline.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, wdpipeline.ErrInvalidState), errors.Is(err, wdpipeline.ErrAlreadySent):
		return http.StatusConflict
	case errors.Is(err, wdpipeline.ErrInsufficientFunds),
		errors.Is(err, wdpipeline.ErrBelowMinimum),
		errors.Is(err, wdpipeline.ErrNetAmountNotPositive),
		errors.Is(err, wdpipeline.ErrUnknownNetwork):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
