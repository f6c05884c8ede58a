package webserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"

	"github.com/tripkit/agentd/internal/objval"
	"github.com/tripkit/agentd/internal/webserver/weberror"
)

type blobHandler struct {
	logger logger.Logger
	blobs  BlobService
	ttl    time.Duration
}

func (h *blobHandler) locator(c echo.Context) objval.Locator {
	return objval.Locator{Container: c.QueryParam("container"), Name: c.Param("name")}
}

func (h *blobHandler) Show(c echo.Context) error {
	c.Set("handler_method", "blob.Show")

	object, err := h.blobs.GetStream(c.Request().Context(), h.locator(c), nil)
	if err != nil {
		return err
	}
	defer object.Body.Close()

	headers := c.Response().Header()

	if object.ETag != "" {
		headers.Set("ETag", object.ETag)
	}

	if object.LastModified != nil {
		headers.Set(echo.HeaderLastModified, object.LastModified.UTC().Format(http.TimeFormat))
	}

	if download, _ := strconv.ParseBool(c.QueryParam("download")); download {
		headers.Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename=%q`, c.Param("name")))
	}

	contentType := object.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	return c.Stream(http.StatusOK, contentType, object.Body)
}

func (h *blobHandler) Stream(c echo.Context) error {
	c.Set("handler_method", "blob.Stream")

	object, err := h.blobs.GetStream(c.Request().Context(), h.locator(c), nil)
	if err != nil {
		return err
	}
	defer object.Body.Close()

	contentType := object.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	return c.Stream(http.StatusOK, contentType, object.Body)
}

func (h *blobHandler) Metadata(c echo.Context) error {
	c.Set("handler_method", "blob.Metadata")

	metadata, err := h.blobs.GetMetadata(c.Request().Context(), h.locator(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, metadata)
}

func (h *blobHandler) Exists(c echo.Context) error {
	c.Set("handler_method", "blob.Exists")

	exists, err := h.blobs.Exists(c.Request().Context(), h.locator(c))
	if err != nil {
		return err
	}

	if !exists {
		return weberror.New(http.StatusNotFound, "blob not found")
	}

	return c.NoContent(http.StatusOK)
}

func (h *blobHandler) Delegate(c echo.Context) error {
	c.Set("handler_method", "blob.Delegate")

	ttl := h.ttl

	if raw := c.QueryParam("expires_in_hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return weberror.New(http.StatusBadRequest, "invalid expires_in_hours: "+err.Error())
		}

		ttl = time.Duration(hours) * time.Hour
	}

	url, err := h.blobs.GetDelegatedURL(h.locator(c), ttl)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"url":        url,
		"expires_in": ttl.String(),
	})
}
