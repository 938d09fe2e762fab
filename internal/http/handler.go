package http

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"checkers/internal/core"
	"checkers/internal/processor"
	"checkers/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  10 * time.Second,
		// long polls hold the response open up to the waiter timeout
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Put("/games/:gameId/players", h.ConfigurePlayers)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Post("/games/:gameId/click", h.Click)
	api.Post("/games/:gameId/undo", h.UndoMove)
	api.Get("/games/:gameId/board", h.GetBoard)

	return app
}

// contentTypeValidator ensures POST and PUT requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		contentType := c.Get("Content-Type")
		if contentType != "application/json" && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// gameID reads and checks the :gameId route parameter
func gameID(c *fiber.Ctx) (string, bool) {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return "", false
	}
	return id, true
}

func invalidGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

// respond writes a processor response, mapping error codes to HTTP statuses
func respond(c *fiber.Ctx, resp processor.Result, okStatus int) error {
	if !resp.Success {
		status := fiber.StatusBadRequest
		switch resp.Error.Code {
		case core.ErrGameNotFound:
			status = fiber.StatusNotFound
		case core.ErrNotHumanTurn, core.ErrGameOver:
			status = fiber.StatusConflict
		case core.ErrInternalError:
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// CreateGame starts a game from the standard layout or a position code
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return err
	}
	return respond(c, h.proc.Execute(processor.Create(req)), fiber.StatusCreated)
}

// ConfigurePlayers updates the AI configuration mid-game
func (h *HTTPHandler) ConfigurePlayers(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return invalidGameID(c)
	}
	req, err := validatedBody[core.ConfigurePlayersRequest](c)
	if err != nil {
		return err
	}
	return respond(c, h.proc.Execute(processor.SetPlayers(id, req)), fiber.StatusOK)
}

// GetGame returns the game state. With wait=true and a moveCount matching the
// current history it blocks until the game changes or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return invalidGameID(c)
	}

	if c.Query("wait", "false") == "true" {
		moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
		if err != nil || moveCount < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid moveCount",
				Code:    core.ErrInvalidRequest,
				Details: "moveCount must be a non-negative integer when wait=true",
			})
		}

		// fasthttp request contexts only finish on server shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		notify, err := h.svc.RegisterWait(ctx, id, moveCount)
		if err == nil {
			select {
			case <-notify:
			case <-c.Context().Done():
			}
		}
	}

	return respond(c, h.proc.Execute(processor.Fetch(id)), fiber.StatusOK)
}

// MakeMove plays a move in square notation, or "cccc" for the computer
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return invalidGameID(c)
	}
	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return err
	}
	return respond(c, h.proc.Execute(processor.Play(id, req)), fiber.StatusOK)
}

// Click selects a piece or moves the selected one
func (h *HTTPHandler) Click(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return invalidGameID(c)
	}
	req, err := validatedBody[core.ClickRequest](c)
	if err != nil {
		return err
	}
	return respond(c, h.proc.Execute(processor.Click(id, req)), fiber.StatusOK)
}

func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return invalidGameID(c)
	}
	req, err := validatedBody[core.UndoRequest](c)
	if err != nil {
		return err
	}
	return respond(c, h.proc.Execute(processor.Undo(id, req)), fiber.StatusOK)
}

func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return invalidGameID(c)
	}
	return respond(c, h.proc.Execute(processor.Delete(id)), fiber.StatusNoContent)
}

// GetBoard returns an ASCII rendering of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return invalidGameID(c)
	}
	return respond(c, h.proc.Execute(processor.Board(id)), fiber.StatusOK)
}
