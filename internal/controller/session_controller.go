package controller

import (
	"io"

	"edumentor-be/internal/dto"
	"edumentor-be/internal/pkg/apperror"
	"edumentor-be/internal/pkg/serverutils"
	"edumentor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
	Transcribe(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
	tutorService   service.ITutorService
	jwtMiddleware  fiber.Handler
}

func NewSessionController(
	sessionService service.ISessionService,
	tutorService service.ITutorService,
	jwtMiddleware fiber.Handler,
) ISessionController {
	return &sessionController{
		sessionService: sessionService,
		tutorService:   tutorService,
		jwtMiddleware:  jwtMiddleware,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session")
	h.Use(c.jwtMiddleware)
	h.Get("list", c.List)
	h.Post("new", c.Create)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/upload", c.Upload)
	h.Post(":id/message", c.SendMessage)
	h.Post(":id/generate/:action", c.Generate)
	h.Post(":id/transcribe", c.Transcribe)
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

// sessionIdParam parses the :id segment. Malformed ids behave like unknown
// sessions.
func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.NotFound("Session not found")
	}
	return id, nil
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	// paging is optional; the default returns everything newest-first
	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.sessionService.List(ctx.Context(), currentUserId(ctx), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Create(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Get(ctx.Context(), currentUserId(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.sessionService.Delete(ctx.Context(), currentUserId(ctx), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session deleted", nil))
}

func (c *sessionController) Upload(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	input := dto.UploadInput{
		Text: ctx.FormValue("text"),
	}

	if fileHeader, err := ctx.FormFile("file"); err == nil && fileHeader != nil {
		f, err := fileHeader.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		input.Filename = fileHeader.Filename
		input.Data = data
	}

	res, err := c.sessionService.Upload(ctx.Context(), currentUserId(ctx), id, &input)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *sessionController) SendMessage(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tutorService.SendMessage(ctx.Context(), currentUserId(ctx), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *sessionController) Generate(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	// Every form field is optional, so an absent body is fine.
	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil && err != fiber.ErrUnprocessableEntity {
		return err
	}

	res, err := c.tutorService.Generate(ctx.Context(), currentUserId(ctx), id, ctx.Params("action"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate "+ctx.Params("action"), res))
}

func (c *sessionController) Transcribe(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperror.Validation("No audio file provided")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	audio, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return err
	}

	res, err := c.tutorService.Transcribe(ctx.Context(), currentUserId(ctx), id, audio, fileHeader.Filename, ctx.FormValue("lang"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success transcribe audio", res))
}
