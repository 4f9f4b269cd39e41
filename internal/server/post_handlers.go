package server

import (
	"yatube/internal/forms"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.postService.Index(c.UserContext(), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "posts/index", fiber.Map{
		"title":    "Последние обновления на сайте",
		"page_obj": page,
	})
}

func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, page, err := s.postService.GroupPosts(c.UserContext(), c.Params("slug"), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "posts/group_list", fiber.Map{
		"title":    "Записи сообщества " + group.String(),
		"group":    group,
		"page_obj": page,
	})
}

func (s *Server) Profile(c *fiber.Ctx) error {
	username, err := pathParam(c, "username")
	if err != nil {
		return err
	}
	view, err := s.postService.Profile(c.UserContext(), username, c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "posts/profile", fiber.Map{
		"title":       "Профайл пользователя " + view.Author.FullName(),
		"author":      view.Author,
		"page_obj":    view.Page,
		"posts_count": view.PostsCount,
	})
}

func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	view, err := s.postService.Detail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "posts/post_detail", fiber.Map{
		"title":       "Пост " + view.Post.String(),
		"post":        view.Post,
		"posts_count": view.PostsCount,
		"is_author":   isAuthor(c, view.Post),
	})
}

func (s *Server) renderPostForm(c *fiber.Ctx, form *forms.PostForm, post *models.Post) error {
	bind := fiber.Map{
		"form":    form,
		"is_edit": post != nil,
	}
	if post != nil {
		bind["title"] = "Редактировать пост"
		bind["post_id"] = post.ID
		bind["post"] = post
	} else {
		bind["title"] = "Новый пост"
	}
	return s.render(c, fiber.StatusOK, "posts/create_post", bind)
}

func (s *Server) PostCreateForm(c *fiber.Ctx) error {
	form, err := s.postService.NewPostForm(c.UserContext(), nil)
	if err != nil {
		return err
	}
	return s.renderPostForm(c, form, nil)
}

func (s *Server) PostCreate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	form, err := s.postService.NewPostForm(ctx, nil)
	if err != nil {
		return err
	}
	if !form.Validate(formValues(c)) {
		return s.renderPostForm(c, form, nil)
	}

	user := currentUser(c)
	if _, err := s.postService.Create(ctx, user.ID, form.Cleaned); err != nil {
		if models.IsValidation(err) {
			form.AddError("group", errorMessage(err))
			return s.renderPostForm(c, form, nil)
		}
		return err
	}
	return c.Redirect(profileURL(user.Username), fiber.StatusFound)
}

// editablePost loads the post for its author. Anyone else is sent to the
// post page and handled is true.
func (s *Server) editablePost(c *fiber.Ctx) (post *models.Post, handled bool, err error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, false, err
	}
	post, err = s.postService.GetForEdit(c.UserContext(), currentUser(c).ID, id)
	if models.IsForbidden(err) {
		return nil, true, c.Redirect(postURL(id), fiber.StatusFound)
	}
	if err != nil {
		return nil, false, err
	}
	return post, false, nil
}

func (s *Server) PostEditForm(c *fiber.Ctx) error {
	post, handled, err := s.editablePost(c)
	if handled || err != nil {
		return err
	}
	form, err := s.postService.NewPostForm(c.UserContext(), post)
	if err != nil {
		return err
	}
	return s.renderPostForm(c, form, post)
}

func (s *Server) PostEdit(c *fiber.Ctx) error {
	post, handled, err := s.editablePost(c)
	if handled || err != nil {
		return err
	}

	ctx := c.UserContext()
	form, err := s.postService.NewPostForm(ctx, post)
	if err != nil {
		return err
	}
	if !form.Validate(formValues(c)) {
		return s.renderPostForm(c, form, post)
	}

	if _, err := s.postService.Edit(ctx, currentUser(c).ID, post.ID, form.Cleaned); err != nil {
		switch {
		case models.IsForbidden(err):
			return c.Redirect(postURL(post.ID), fiber.StatusFound)
		case models.IsValidation(err):
			form.AddError("group", errorMessage(err))
			return s.renderPostForm(c, form, post)
		}
		return err
	}
	return c.Redirect(postURL(post.ID), fiber.StatusFound)
}

func (s *Server) PostDelete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user := currentUser(c)
	if _, err := s.postService.Delete(c.UserContext(), user.ID, id); err != nil {
		if models.IsForbidden(err) {
			return c.Redirect(postURL(id), fiber.StatusFound)
		}
		return err
	}
	return c.Redirect(profileURL(user.Username), fiber.StatusFound)
}
