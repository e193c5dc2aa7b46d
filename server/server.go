// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/poiesic/assessly"
)

// Server exposes the assessment pipeline over HTTP.
type Server struct {
	echo    *echo.Echo
	service *assessly.Service
}

// Config holds server settings.
type Config struct {
	// AllowOrigins enables CORS for the listed origins. Empty disables
	// the CORS middleware.
	AllowOrigins []string
}

// New creates a server around the given service and registers routes.
func New(service *assessly.Service, config Config) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status)
			return nil
		},
	}))

	if len(config.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: config.AllowOrigins,
			AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	s := &Server{
		echo:    e,
		service: service,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api/assessment")
	api.POST("/generate", s.handleGenerate)
	api.POST("/score", s.handleScore)
	api.POST("/upload", s.handleUpload)
	api.GET("/recent", s.handleRecent)
	api.GET("/:id", s.handleGet)
}

// Echo returns the underlying echo instance. Exposed for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
