package forms

import (
	"strconv"

	"yatube/internal/models"
)

// PostInput is the cleaned result of a valid PostForm.
type PostInput struct {
	Text    string
	GroupID *uint
}

// PostForm creates or edits a post: a required text and an optional group.
type PostForm struct {
	Form
	Cleaned PostInput
}

// NewPostForm builds the form with one choice per group. A non-nil post
// provides the initial values for editing; its group is preselected only
// when it is among the offered choices.
func NewPostForm(groups []models.Group, post *models.Post) *PostForm {
	choices := make([]Choice, 0, len(groups))
	initialGroup := ""
	for _, g := range groups {
		value := strconv.FormatUint(uint64(g.ID), 10)
		choices = append(choices, Choice{Value: value, Label: g.String()})
		if post != nil && post.InGroup(g.ID) {
			initialGroup = value
		}
	}

	text := CharField("text", "Текст поста", true, WidgetTextarea)
	text.HelpText = "Текст нового поста"
	group := ChoiceField("group", "Группа", false, choices)
	group.HelpText = "Группа, к которой будет относиться пост"

	f := &PostForm{Form: Form{Fields: []*Field{text, group}}}
	if post != nil {
		text.Value = post.Text
		group.Value = initialGroup
	}
	return f
}

// Validate binds the submission and fills Cleaned when it is valid.
func (f *PostForm) Validate(get func(string) string) bool {
	f.Bind(get)
	if !f.Valid() {
		return false
	}

	f.Cleaned = PostInput{Text: f.Value("text")}
	if raw := f.Value("group"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			f.AddError("group", msgInvalidChoice)
			return false
		}
		gid := uint(id)
		f.Cleaned.GroupID = &gid
	}
	return true
}
