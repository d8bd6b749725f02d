package delivery_http

import (
	"strconv"

	"github.com/go-playground/validator/v10"

	"yatube/internal/model"
)

var validate = validator.New()

type PostForm struct {
	Text  string `form:"text" validate:"required"`
	Group string `form:"group" validate:"omitempty,number"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// PostFormContext is what the create/edit template renders: submitted values,
// the selectable groups and per-field errors.
type PostFormContext struct {
	Text   string
	Group  string
	Groups []*model.Group
	Errors map[string]string
}

func newPostFormContext(groups []*model.Group) *PostFormContext {
	return &PostFormContext{
		Groups: groups,
		Errors: map[string]string{},
	}
}

type LoginFormContext struct {
	Username string
	Errors   map[string]string
}

// groupChoice turns the submitted group field into an optional group id.
// An empty value means "no group".
func groupChoice(value string) (*int64, bool) {
	if value == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}
