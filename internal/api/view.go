// Package api implements posts API server and client.
package api

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/udovin/board/internal/config"
	"github.com/udovin/board/internal/core"
	"github.com/udovin/board/internal/pkg/locale"
	"github.com/udovin/board/internal/pkg/logs"
)

// View represents API view.
type View struct {
	core *core.Core
}

// NewView returns a new instance of view.
func NewView(core *core.Core) *View {
	return &View{core: core}
}

// Register registers handlers in specified server.
func (v *View) Register(e *echo.Echo) {
	e.GET("/", v.status)
	g := e.Group("/api", v.wrapResponse)
	g.GET("/ping", v.ping)
	g.GET("/health", v.health)
	v.registerPostHandlers(g)
}

// status reports that server is alive.
func (v *View) status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// ping returns pong.
func (v *View) ping(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}

// health returns current healthiness status.
func (v *View) health(c echo.Context) error {
	if err := v.core.DB.PingContext(c.Request().Context()); err != nil {
		c.Logger().Error(err)
		return c.String(http.StatusInternalServerError, "unhealthy")
	}
	return c.String(http.StatusOK, "healthy")
}

const postKey = "post"

type errorField struct {
	Message string `json:"message"`
}

type errorFields map[string]errorField

type errorResponse struct {
	// Code.
	Code int `json:"-"`
	// Message.
	Message string `json:"message"`
	// InvalidFields.
	InvalidFields errorFields `json:"invalid_fields,omitempty"`
}

// StatusCode returns response status code.
func (r errorResponse) StatusCode() int {
	return r.Code
}

// Error returns response error message.
func (r errorResponse) Error() string {
	var result strings.Builder
	result.WriteString(r.Message)
	if len(r.InvalidFields) > 0 {
		var fields []string
		for field := range r.InvalidFields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		result.WriteString(" (invalid fields: ")
		result.WriteString(strings.Join(fields, ", "))
		result.WriteRune(')')
	}
	return result.String()
}

type statusCodeResponse interface {
	StatusCode() int
}

var (
	rnd      = rand.NewSource(time.Now().UnixNano())
	rndMutex = sync.Mutex{}
)

func randUint32() uint32 {
	rndMutex.Lock()
	defer rndMutex.Unlock()
	return uint32(rnd.Int63() >> 32)
}

// wrapResponse logs requests and renders errorResponse errors.
func (v *View) wrapResponse(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := c.Request().Header.Get(echo.HeaderXRequestID)
		if reqID == "" {
			reqID = fmt.Sprintf("%d-%d", time.Now().UnixMilli(), randUint32())
		}
		base, ok := c.Logger().(*logs.Logger)
		if !ok {
			base = v.core.Logger()
		}
		logger := base.With(logs.Any("req_id", reqID))
		c.SetLogger(logger)
		c.Response().Header().Set(echo.HeaderXRequestID, reqID)
		c.Response().Header().Set("X-Board-Version", config.Version)
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if resp, ok := err.(statusCodeResponse); ok {
			status = resp.StatusCode()
			if status == 0 {
				status = http.StatusInternalServerError
			}
		} else if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
		} else if err != nil {
			status = http.StatusInternalServerError
		}
		defer func() {
			params := map[string]string{}
			for _, name := range c.ParamNames() {
				params[name] = c.Param(name)
			}
			args := []any{
				fmt.Sprintf("%s %s", c.Request().Method, c.Request().RequestURI),
				logs.Any("status", status),
				logs.Any("method", c.Request().Method),
				logs.Any("path", c.Path()),
				logs.Any("params", params),
				logs.Any("remote_ip", c.RealIP()),
				logs.Any("latency", time.Since(start).String()),
				err,
			}
			switch {
			case status >= 500:
				logger.Error(args...)
			case status >= 400:
				logger.Warn(args...)
			default:
				logger.Info(args...)
			}
		}()
		if resp, ok := err.(statusCodeResponse); ok {
			return c.JSON(status, resp)
		}
		return err
	}
}

func getContext(c echo.Context) context.Context {
	return c.Request().Context()
}

// localize translates message to language from Accept-Language header.
func localize(c echo.Context, key string, args ...any) string {
	tag := locale.ParseAcceptLanguage(c.Request().Header.Get("Accept-Language"))
	return locale.NewPrinter(tag).Sprintf(key, args...)
}
