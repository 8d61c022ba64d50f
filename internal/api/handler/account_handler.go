package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hiringgo/account-service/internal/core/ports"
)

// AccountHandler handles HTTP requests for account administration.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Create handles POST /accounts.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	acc, err := h.service.CreateAccount(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAccountResponse(acc))
}

// List handles GET /accounts.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.service.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /accounts/:id.
//
// @Summary      Get an account by id
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	acc, found, err := h.service.FindAccount(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !found {
		return errAccountNotFound
	}
	return c.JSON(http.StatusOK, toAccountResponse(acc))
}

// UpdateRole handles PATCH /accounts/:id.
//
// @Summary      Change an account's role
// @Description  Numbers the new role may not hold are cleared.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Account id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /accounts/{id} [patch]
func (h *AccountHandler) UpdateRole(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	acc, found, err := h.service.UpdateRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return err
	}
	if !found {
		return errAccountNotFound
	}
	return c.JSON(http.StatusOK, toAccountResponse(acc))
}

// Delete handles DELETE /accounts/:id.
//
// @Summary      Delete an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	deleted, err := h.service.DeleteAccount(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return errAccountNotFound
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}

var errAccountNotFound = echo.NewHTTPError(http.StatusNotFound, "account not found")

func accountID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}
