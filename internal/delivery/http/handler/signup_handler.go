package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"pathexplorer/internal/delivery/http/dto"
	"pathexplorer/internal/delivery/http/middleware"
	"pathexplorer/internal/pkg/response"
	"pathexplorer/internal/usecase"
	"pathexplorer/internal/wizard"
)

const (
	SignupStartPath   = "/auth/SignUp"
	SignupSuccessPath = "/user/basic-info"
)

type SignupHandler struct {
	uc     usecase.SignupUsecase
	schema *wizard.Schema
}

type setFieldsRequest struct {
	Values map[string]string `json:"values"`
}

type stepOneRequest map[string]string

type completeRequest struct {
	Token  string            `json:"token"`
	Values map[string]string `json:"values"`
}

func NewSignupHandler(uc usecase.SignupUsecase, schema *wizard.Schema) *SignupHandler {
	return &SignupHandler{uc: uc, schema: schema}
}

// RegisterRoutes mounts the session wizard and the two page flow. guard, when
// set, runs in front of the routes that create sessions, fragments or
// accounts.
func (h *SignupHandler) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	if r == nil {
		return
	}

	grp := r.Group("/signup")
	postGuarded(grp, "/sessions", guard, h.Start)
	grp.Get("/sessions/:id", h.Get)
	grp.Patch("/sessions/:id/steps/:step", h.SetFields)
	grp.Post("/sessions/:id/advance", h.Advance)
	grp.Post("/sessions/:id/back", h.Back)
	postGuarded(grp, "/sessions/:id/submit", guard, h.Submit)
	grp.Delete("/sessions/:id", h.Abandon)

	postGuarded(grp, "/step-one", guard, h.SaveStepOne)
	grp.Get("/step-one/:token", h.LoadStepOne)
	postGuarded(grp, "/complete", guard, h.Complete)
}

func (h *SignupHandler) Start(c fiber.Ctx) error {
	st, err := h.uc.Start(c.Context())
	if err != nil {
		return h.mapError(err, nil)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, h.session(st))
}

func (h *SignupHandler) Get(c fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	st, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return h.mapError(err, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.session(st))
}

func (h *SignupHandler) SetFields(c fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req setFieldsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if len(req.Values) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, nil)
	}

	st, err := h.uc.SetFields(c.Context(), id, c.Params("step"), req.Values)
	if err != nil {
		return h.mapError(err, &st)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.session(st))
}

func (h *SignupHandler) Advance(c fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	st, err := h.uc.Advance(c.Context(), id)
	if err != nil {
		return h.mapError(err, &st)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.session(st))
}

func (h *SignupHandler) Back(c fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	st, err := h.uc.Back(c.Context(), id)
	if err != nil {
		return h.mapError(err, &st)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.session(st))
}

func (h *SignupHandler) Submit(c fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	st, res, err := h.uc.Submit(c.Context(), id)
	if err != nil {
		return h.mapError(err, &st)
	}

	sess := h.session(st)
	return response.Success(c, fiber.StatusOK, res.Message, dto.SignupResultResponse{
		Session:  &sess,
		Message:  res.Message,
		Redirect: SignupSuccessPath,
		Auth:     authFromResult(res),
	})
}

func (h *SignupHandler) Abandon(c fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Abandon(c.Context(), id); err != nil {
		return h.mapError(err, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *SignupHandler) SaveStepOne(c fiber.Ctx) error {
	var req stepOneRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	token, err := h.uc.SaveStepOne(c.Context(), wizard.Record(req))
	if err != nil {
		return h.mapError(err, nil)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.StepOneResponse{Token: token})
}

// LoadStepOne lets the second page check that its entry point is valid. The
// stored values are returned without secrets.
func (h *SignupHandler) LoadStepOne(c fiber.Ctx) error {
	token := c.Params("token")
	rec, err := h.uc.LoadStepOne(c.Context(), token)
	if err != nil {
		return h.mapError(err, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.StepOneResponse{
		Token:  token,
		Values: dto.RedactRecord(rec),
	})
}

func (h *SignupHandler) Complete(c fiber.Ctx) error {
	var req completeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.CompleteRegistration(c.Context(), req.Token, wizard.Record(req.Values))
	if err != nil {
		return h.mapError(err, nil)
	}
	return response.Success(c, fiber.StatusOK, res.Message, dto.SignupResultResponse{
		Message:  res.Message,
		Redirect: SignupSuccessPath,
		Auth:     authFromResult(res),
	})
}

func (h *SignupHandler) session(st wizard.State) dto.SignupSessionResponse {
	return dto.NewSignupSessionResponse(h.schema, st)
}

func (h *SignupHandler) mapError(err error, st *wizard.State) error {
	if err == nil {
		return nil
	}

	var data any
	if st != nil && st.ID != uuid.Nil {
		sess := h.session(*st)
		data = dto.SignupResultResponse{Session: &sess}
	}

	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", map[string]any{
			"step":         verr.Step,
			"field_errors": dto.NewFieldErrors(verr.Fields),
			"session":      sessionOf(data),
		}, err)
	}

	var subErr *wizard.SubmissionError
	if errors.As(err, &subErr) {
		res := dto.SignupResultResponse{Message: subErr.Message}
		if s := sessionOf(data); s != nil {
			res.Session = s
		}
		switch subErr.Kind {
		case wizard.KindRejected:
			return middleware.NewAppError(fiber.StatusConflict, subErr.Message, res, err)
		case wizard.KindTimeout:
			return middleware.NewAppError(fiber.StatusGatewayTimeout, subErr.Message, res, err)
		case wizard.KindCanceled:
			return middleware.NewAppError(fiber.StatusRequestTimeout, subErr.Message, res, err)
		default:
			return middleware.NewAppError(fiber.StatusBadGateway, subErr.Message, res, err)
		}
	}

	switch {
	case errors.Is(err, wizard.ErrSessionExpired):
		return middleware.NewAppError(fiber.StatusGone, "Sign-up session expired", dto.SignupResultResponse{
			Message:  "Sign-up session expired",
			Redirect: SignupStartPath,
		}, err)
	case errors.Is(err, wizard.ErrSessionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Sign-up session not found", nil, err)
	case errors.Is(err, wizard.ErrUnknownStep), errors.Is(err, wizard.ErrUnknownField):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, wizard.ErrSessionBusy), errors.Is(err, wizard.ErrSubmissionInFlight):
		return middleware.NewAppError(fiber.StatusConflict, "Submission already in progress", data, err)
	case errors.Is(err, wizard.ErrSessionClosed):
		return middleware.NewAppError(fiber.StatusConflict, "Sign-up already completed", data, err)
	case errors.Is(err, wizard.ErrNoNextStep), errors.Is(err, wizard.ErrNotLastStep):
		return middleware.NewAppError(fiber.StatusConflict, "Step transition not allowed", data, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func sessionOf(data any) *dto.SignupSessionResponse {
	if r, ok := data.(dto.SignupResultResponse); ok {
		return r.Session
	}
	return nil
}

func sessionID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return id, nil
}

func authFromResult(res wizard.SubmitResult) *dto.AuthResponse {
	ar, ok := res.Data.(usecase.AuthResult)
	if !ok {
		return nil
	}
	out := newAuthResponse(ar)
	return &out
}
