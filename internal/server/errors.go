package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/naka-gawa/github-insights/internal/chart"
	"github.com/naka-gawa/github-insights/internal/usecase"
)

// Error codes returned in ApiError.ErrorCode.
const (
	CodeBadRequest    = "BadRequest"
	CodeNotFound      = "NotFound"
	CodeUnprocessable = "UnprocessableEntity"
	CodeBadGateway    = "BadGateway"
	CodeTimeout       = "Timeout"
	CodeInternal      = "InternalError"
)

// ApiError is the JSON body of every failed request.
type ApiError struct {
	HttpCode     int    `json:"-"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func (err *ApiError) Error() string {
	return err.ErrorMessage
}

// NewBadRequest creates a 400 ApiError.
func NewBadRequest(msg string) *ApiError {
	return &ApiError{HttpCode: http.StatusBadRequest, ErrorCode: CodeBadRequest, ErrorMessage: msg}
}

// NewNotFound creates a 404 ApiError.
func NewNotFound(msg string) *ApiError {
	return &ApiError{HttpCode: http.StatusNotFound, ErrorCode: CodeNotFound, ErrorMessage: msg}
}

// AbortWithApiError records err on the context and writes it as the response.
func AbortWithApiError(c *gin.Context, err error) {
	_ = c.Error(err)
	rsp := cvtToErrResponse(err)
	c.AbortWithStatusJSON(rsp.HttpCode, rsp)
}

func cvtToErrResponse(err error) ApiError {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return *apiErr
	}

	var unknown *chart.UnknownMetricError
	var malformed *chart.MalformedRecordError
	rsp := ApiError{ErrorMessage: err.Error()}
	switch {
	case errors.Is(err, usecase.ErrInvalidProfile), errors.Is(err, usecase.ErrInvalidYear):
		rsp.HttpCode, rsp.ErrorCode = http.StatusBadRequest, CodeBadRequest
	case errors.As(err, &unknown), errors.As(err, &malformed):
		rsp.HttpCode, rsp.ErrorCode = http.StatusUnprocessableEntity, CodeUnprocessable
	case errors.Is(err, context.DeadlineExceeded):
		rsp.HttpCode, rsp.ErrorCode = http.StatusGatewayTimeout, CodeTimeout
	case errors.Is(err, usecase.ErrUpstream):
		rsp.HttpCode, rsp.ErrorCode = http.StatusBadGateway, CodeBadGateway
	default:
		rsp.HttpCode, rsp.ErrorCode = http.StatusInternalServerError, CodeInternal
	}
	return rsp
}
