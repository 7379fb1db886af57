package deposit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/model"
	deppipeline "github.com/wagerly/bridge-backend/internal/pipeline/deposit"
	"github.com/wagerly/bridge-backend/internal/store"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
	"github.com/wagerly/bridge-backend/internal/view"
)

type CreditByTxHashRequest struct {
	Network string `json:"network" binding:"required"`
	TxHash  string `json:"tx_hash" binding:"required"`
}

type RescanRequest struct {
	Network   string  `json:"network" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	FromBlock uint64  `json:"from_block"`
	ToBlock   *uint64 `json:"to_block"`
}

type DepositAddressResponse struct {
	UserID  uint   `json:"user_id"`
	Network string `json:"network"`
	Address string `json:"address"`
}

type handler struct {
	db       *gorm.DB
	store    *store.Store
	pipeline deppipeline.IPipeline
	clients  map[model.Network]chain.Client
	logger   *logger.Logger
}

func New(db *gorm.DB, s *store.Store, pipeline deppipeline.IPipeline, clients map[model.Network]chain.Client, logger *logger.Logger) IHandler {
	return &handler{
		db:       db,
		store:    s,
		pipeline: pipeline,
		clients:  clients,
		logger:   logger,
	}
}

// RunCycle godoc
// @Summary Run one deposit cycle
// @Description Runs detect, confirm and credit for one network
// @id runDepositCycle
// @Tags Deposit
// @Produce json
// @Param network path string true "Network (TRON, MATIC, SOL)"
// @Success 200 {object} view.MessageResponse
// @Failure 400 {object} view.ErrorResponse
// @Router /deposits/cycle/{network} [post]
func (h *handler) RunCycle(c *gin.Context) {
	network, err := model.ParseNetwork(c.Param("network"))
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, nil, "invalid network"))
		return
	}

	result := h.pipeline.RunCycle(c.Request.Context(), network)
	c.JSON(http.StatusOK, view.CreateResponse[any](result, nil, nil, ""))
}

// CreditByTxHash godoc
// @Summary Credit deposit by transaction hash
// @Description Manual recovery path that detects, confirms and credits one known transaction
// @id creditDepositByTxHash
// @Tags Deposit
// @Accept json
// @Produce json
// @Param request body CreditByTxHashRequest true "Credit parameters"
// @Success 200 {object} view.MessageResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Router /deposits/credit-by-hash [post]
func (h *handler) CreditByTxHash(c *gin.Context) {
	var req CreditByTxHashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	network, err := model.ParseNetwork(req.Network)
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid network"))
		return
	}

	deps, err := h.pipeline.CreditByTxHash(c.Request.Context(), network, req.TxHash)
	if err != nil {
		h.logger.Error("[CreditByTxHash][Pipeline]", map[string]string{
			"error":   err.Error(),
			"network": network.String(),
			"txHash":  req.TxHash,
		})
		status := http.StatusInternalServerError
		if errors.Is(err, deppipeline.ErrTxNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, view.CreateResponse[any](nil, err, nil, "failed to credit deposit"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](deps, nil, nil, ""))
}

// Rescan godoc
// @Summary Rescan one address
// @Description Replays detection for one address without moving the block cursor
// @id rescanDepositAddress
// @Tags Deposit
// @Accept json
// @Produce json
// @Param request body RescanRequest true "Rescan parameters"
// @Success 200 {object} view.MessageResponse
// @Failure 400 {object} view.ErrorResponse
// @Router /deposits/rescan [post]
func (h *handler) Rescan(c *gin.Context) {
	var req RescanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	network, err := model.ParseNetwork(req.Network)
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid network"))
		return
	}

	result, err := h.pipeline.RescanForAddress(c.Request.Context(), network, req.Address, req.FromBlock, req.ToBlock)
	if err != nil {
		h.logger.Error("[Rescan][Pipeline]", map[string]string{
			"error":   err.Error(),
			"network": network.String(),
			"address": req.Address,
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "failed to rescan address"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](result, nil, nil, ""))
}

// GetDepositAddress godoc
// @Summary Get or create a deposit address
// @Description Returns the user's deposit address on a network, deriving and persisting one on first request
// @id getDepositAddress
// @Tags Deposit
// @Produce json
// @Param id path int true "User ID"
// @Param network path string true "Network (TRON, MATIC, SOL)"
// @Success 200 {object} view.MessageResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Router /users/{id}/deposit-address/{network} [get]
func (h *handler) GetDepositAddress(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, nil, "invalid user id"))
		return
	}

	network, err := model.ParseNetwork(c.Param("network"))
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, nil, "invalid network"))
		return
	}

	addr, err := h.getOrCreateAddress(c, uint(userID), network)
	if err != nil {
		h.logger.Error("[GetDepositAddress]", map[string]string{
			"error":   err.Error(),
			"network": network.String(),
			"userId":  c.Param("id"),
		})
		status := http.StatusInternalServerError
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, view.CreateResponse[any](nil, err, nil, "failed to get deposit address"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](DepositAddressResponse{
		UserID:  addr.UserID,
		Network: addr.Network.String(),
		Address: addr.Address,
	}, nil, nil, ""))
}

func (h *handler) getOrCreateAddress(c *gin.Context, userID uint, network model.Network) (*model.WalletAddress, error) {
	existing, err := h.store.WalletAddress.GetByUserAndNetwork(h.db, userID, network)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := h.store.User.GetByID(h.db, userID); err != nil {
		return nil, err
	}

	client, ok := h.clients[network]
	if !ok {
		return nil, errors.New("no client configured for network")
	}

	var addr *model.WalletAddress
	err = store.DoInTx(h.db, func(tx *gorm.DB) error {
		index, err := h.store.WalletAddress.NextDerivationIndex(tx, network)
		if err != nil {
			return err
		}

		derived, err := client.DeriveAddress(c.Request.Context(), index)
		if err != nil {
			return err
		}

		created, result, err := h.store.WalletAddress.Create(tx, &model.WalletAddress{
			UserID:          userID,
			Network:         network,
			Address:         derived,
			DerivationIndex: index,
		})
		if err != nil {
			return err
		}
		if result == store.AlreadyExists {
			// lost a race with a concurrent request for the same user
			addr, err = h.store.WalletAddress.GetByUserAndNetwork(tx, userID, network)
			return err
		}

		addr = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}
