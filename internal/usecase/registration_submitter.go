package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"pathexplorer/internal/logger"
	ucauth "pathexplorer/internal/usecase/auth"
	"pathexplorer/internal/wizard"
)

const (
	MessageUserExists          = "User already exists"
	MessageRegistrationInvalid = "Registration data is invalid"
	MessageRegistered          = "Registration successful"
)

// RegistrationSubmitter turns a completed sign-up payload into an account.
// Business rejections come back as an unsuccessful result; infrastructure
// failures come back as errors.
type RegistrationSubmitter struct {
	auth   AuthUsecase
	logger *zap.Logger
}

func NewRegistrationSubmitter(auth AuthUsecase, logger *zap.Logger) *RegistrationSubmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationSubmitter{auth: auth, logger: logger}
}

func (s *RegistrationSubmitter) Submit(ctx context.Context, payload wizard.Record) (wizard.SubmitResult, error) {
	seniority, err := strconv.Atoi(strings.TrimSpace(payload["seniority"]))
	if err != nil {
		return wizard.SubmitResult{Success: false, Message: MessageRegistrationInvalid}, nil
	}

	res, err := s.auth.Register(ctx, ucauth.RegisterInput{
		Email:       payload["email"],
		Password:    payload["password"],
		Name:        payload["name"],
		LastName1:   payload["last_name_1"],
		LastName2:   payload["last_name_2"],
		PhoneNumber: payload["phone_number"],
		Location:    payload["location"],
		Capability:  payload["capability"],
		Position:    payload["position"],
		Seniority:   seniority,
		Role:        payload["role"],
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return wizard.SubmitResult{}, ctxErr
		}
		switch {
		case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
			s.logger.Info("registration rejected", zap.String("email", logger.MaskEmail(payload["email"])), zap.String("reason", "duplicate"))
			return wizard.SubmitResult{Success: false, Message: MessageUserExists}, nil
		case errors.Is(err, ucauth.ErrInvalidInput):
			s.logger.Info("registration rejected", zap.String("email", logger.MaskEmail(payload["email"])), zap.Error(err))
			return wizard.SubmitResult{Success: false, Message: MessageRegistrationInvalid}, nil
		default:
			s.logger.Error("registration failed", zap.Error(err))
			return wizard.SubmitResult{}, err
		}
	}

	s.logger.Info("employee registered", zap.String("user_id", res.User.ID.String()), zap.String("role", string(res.Employee.Role)))
	return wizard.SubmitResult{Success: true, Message: MessageRegistered, Data: res}, nil
}
