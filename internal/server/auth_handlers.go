package server

import (
	"errors"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) renderLogin(c *fiber.Ctx, form *forms.LoginForm, next string) error {
	return s.render(c, fiber.StatusOK, "users/login", fiber.Map{
		"title": "Войти",
		"form":  form,
		"next":  next,
	})
}

func (s *Server) LoginForm(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect(safeNext(c.Query("next")), fiber.StatusFound)
	}
	return s.renderLogin(c, forms.NewLoginForm(), c.Query("next"))
}

func (s *Server) Login(c *fiber.Ctx) error {
	next := c.FormValue("next", c.Query("next"))
	form := forms.NewLoginForm()
	if !form.Validate(formValues(c)) {
		return s.renderLogin(c, form, next)
	}

	user, err := s.userService.Authenticate(c.UserContext(), form.Value("username"), form.Value("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			form.AddError("", service.ErrInvalidCredentials.Message)
			return s.renderLogin(c, form, next)
		}
		return err
	}

	if err := s.login(c, user); err != nil {
		return err
	}
	return c.Redirect(safeNext(next), fiber.StatusFound)
}

func (s *Server) Logout(c *fiber.Ctx) error {
	s.logout(c)
	return s.render(c, fiber.StatusOK, "users/logged_out", fiber.Map{
		"title": "Вы вышли из системы",
	})
}

func (s *Server) renderSignup(c *fiber.Ctx, form *forms.SignupForm) error {
	return s.render(c, fiber.StatusOK, "users/signup", fiber.Map{
		"title": "Зарегистрироваться",
		"form":  form,
	})
}

func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.renderSignup(c, forms.NewSignupForm())
}

func (s *Server) Signup(c *fiber.Ctx) error {
	form := forms.NewSignupForm()
	if !form.Validate(formValues(c)) {
		return s.renderSignup(c, form)
	}

	if _, err := s.userService.Signup(c.UserContext(), form.Cleaned); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
			form.AddError("username", appErr.Message)
			return s.renderSignup(c, form)
		}
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) staticPage(name, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return s.render(c, fiber.StatusOK, name, fiber.Map{"title": title})
	}
}
