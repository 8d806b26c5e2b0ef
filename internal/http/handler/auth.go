package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docexchange/internal/errs"
	"docexchange/internal/service"
)

// Verification page texts.
const (
	MsgActivated        = "Your account has been successfully activated."
	MsgActivationFailed = "Activation failed try again..!"
)

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Password1 string `json:"password1" validate:"required,eqfield=Password"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

func (r registerRequest) input() service.RegisterInput {
	return service.RegisterInput{
		Email:     r.Email,
		Password:  r.Password,
		Password1: r.Password1,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// RegisterOps creates an ops account.
//
//	@Summary	Register an ops user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		registerRequest	true	"account"
//	@Success	201		{object}	model.User
//	@Failure	400		{object}	errorPayload
//	@Router		/auth/ops/register [post]
func RegisterOps(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		u, err := svc.RegisterOps(c.UserContext(), req.input())
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// RegisterClient creates a client account and e-mails a verification link.
//
//	@Summary	Register a client user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		registerRequest	true	"account"
//	@Success	201		{object}	model.User
//	@Failure	400		{object}	errorPayload
//	@Router		/auth/client/register [post]
func RegisterClient(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		u, err := svc.RegisterClient(c.UserContext(), req.input())
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// VerifyEmail activates an account from the e-mailed link.
//
//	@Summary	Activate a client account
//	@Tags		auth
//	@Produce	plain
//	@Param		uid		path		string	true	"encoded user id"
//	@Param		token	path		string	true	"verification token"
//	@Success	200		{string}	string
//	@Router		/verify/{uid}/{token} [get]
func VerifyEmail(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := svc.Verify(c.UserContext(), c.Params("uid"), c.Params("token"))
		switch {
		case errors.Is(err, errs.ErrInvalidToken):
			return c.SendString(MsgActivationFailed)
		case err != nil:
			return err
		}
		return c.SendString(MsgActivated)
	}
}

// Login exchanges credentials for a bearer token.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"credentials"
//	@Success	200		{object}	tokenResponse
//	@Failure	400		{object}	errorPayload
//	@Router		/auth/login [post]
func Login(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		token, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(tokenResponse{Token: token})
	}
}
