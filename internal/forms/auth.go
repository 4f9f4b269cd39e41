package forms

import "yatube/internal/validation"

// LoginForm collects credentials for an existing user.
type LoginForm struct {
	Form
}

func NewLoginForm() *LoginForm {
	return &LoginForm{Form: Form{Fields: []*Field{
		CharField("username", "Имя пользователя", true, WidgetText),
		CharField("password", "Пароль", true, WidgetPassword),
	}}}
}

func (f *LoginForm) Validate(get func(string) string) bool {
	f.Bind(get)
	return f.Valid()
}

// SignupInput is the cleaned result of a valid SignupForm.
type SignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// SignupForm registers a new user.
type SignupForm struct {
	Form
	Cleaned SignupInput
}

func NewSignupForm() *SignupForm {
	username := CharField("username", "Имя пользователя", true, WidgetText)
	username.MaxLength = validation.UsernameMaxLen
	username.HelpText = "Не более 150 символов. Только буквы, цифры и символы @/./+/-/_."
	email := CharField("email", "Адрес электронной почты", false, WidgetEmail)
	email.MaxLength = validation.EmailMaxLen

	return &SignupForm{Form: Form{Fields: []*Field{
		CharField("first_name", "Имя", false, WidgetText),
		CharField("last_name", "Фамилия", false, WidgetText),
		username,
		email,
		CharField("password1", "Пароль", true, WidgetPassword),
		CharField("password2", "Подтверждение пароля", true, WidgetPassword),
	}}}
}

// Validate binds the submission and applies the username, email and
// password rules. Username uniqueness is checked by the caller.
func (f *SignupForm) Validate(get func(string) string) bool {
	f.Bind(get)

	if err := validation.ValidateUsername(f.Value("username")); err != nil && len(f.Field("username").Errors) == 0 {
		f.AddError("username", err.Error())
	}
	if err := validation.ValidateEmail(f.Value("email")); err != nil && len(f.Field("email").Errors) == 0 {
		f.AddError("email", err.Error())
	}

	p1, p2 := f.Value("password1"), f.Value("password2")
	if p1 != "" && p2 != "" {
		if p1 != p2 {
			f.AddError("password2", "Введённые пароли не совпадают.")
		} else if err := validation.ValidatePassword(p1, f.Value("username")); err != nil {
			f.AddError("password2", err.Error())
		}
	}

	if !f.Valid() {
		return false
	}
	f.Cleaned = SignupInput{
		FirstName: f.Value("first_name"),
		LastName:  f.Value("last_name"),
		Username:  f.Value("username"),
		Email:     f.Value("email"),
		Password:  p1,
	}
	return true
}
