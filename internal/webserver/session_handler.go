package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"

	"github.com/tripkit/agentd/internal/sessions"
	"github.com/tripkit/agentd/internal/webserver/weberror"
)

type sessionHandler struct {
	logger   logger.Logger
	sessions SessionService
}

type createSessionRequest struct {
	Pool   string                 `json:"pool"`
	Config sessions.SessionConfig `json:"session_config,omitempty"`
}

type executeCodeRequest struct {
	Code string `json:"code"`
}

func (h *sessionHandler) Create(c echo.Context) error {
	c.Set("handler_method", "session.Create")

	var request createSessionRequest
	if err := c.Bind(&request); err != nil {
		return weberror.New(http.StatusBadRequest, err.Error())
	}

	session, err := h.sessions.CreateSession(c.Request().Context(), request.Pool, request.Config)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, session)
}

func (h *sessionHandler) Show(c echo.Context) error {
	c.Set("handler_method", "session.Show")

	session, err := h.sessions.GetStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, session)
}

func (h *sessionHandler) Execute(c echo.Context) error {
	c.Set("handler_method", "session.Execute")

	var request executeCodeRequest
	if err := c.Bind(&request); err != nil {
		return weberror.New(http.StatusBadRequest, err.Error())
	}

	result, err := h.sessions.ExecuteCode(c.Request().Context(), c.Param("id"), request.Code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *sessionHandler) Delete(c echo.Context) error {
	c.Set("handler_method", "session.Delete")

	err := h.sessions.DeleteSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
