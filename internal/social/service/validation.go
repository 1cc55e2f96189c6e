package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/vincentyono/icp-smart-contract/internal/common/crypto"
)

type credentialsInput struct {
	Username string `validate:"username"`
	Password string `validate:"password"`
}

type reactionInput struct {
	ContentID string `validate:"entityid"`
	UserID    string `validate:"entityid"`
}

type postContentInput struct {
	UserID string `validate:"entityid"`
	Text   string `validate:"contenttext"`
}

type postCommentInput struct {
	ContentID string `validate:"entityid"`
	UserID    string `validate:"entityid"`
	Text      string `validate:"commenttext"`
}

type contentLookupInput struct {
	ContentID string `validate:"entityid"`
}

// InputValidator maps struct-tag failures onto the domain validation errors.
type InputValidator struct {
	v *validator.Validate
}

// NewInputValidator panics if the static rule registration fails.
func NewInputValidator() *InputValidator {
	v := validator.New()
	if err := v.RegisterValidation("entityid", func(fl validator.FieldLevel) bool {
		return crypto.ValidateID(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register entityid validation: %v", err))
	}
	v.RegisterAlias("username", "required")
	v.RegisterAlias("password", "required")
	v.RegisterAlias("contenttext", "required")
	v.RegisterAlias("commenttext", "required")
	return &InputValidator{v: v}
}

func (iv *InputValidator) Validate(input any) error {
	err := iv.v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ErrInvalidParameter.WithCause(err)
	}

	first := fieldErrs[0]
	switch first.Field() {
	case "Username":
		return ErrInvalidUsername.WithCause(first)
	case "Password":
		return ErrInvalidPassword.WithCause(first)
	case "ContentID", "UserID":
		return ErrInvalidID.WithCause(first)
	default:
		return ErrInvalidParameter.WithCause(first)
	}
}
