package delivery_http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/model"
	auth_service "yatube/internal/service/auth"
	feed_service "yatube/internal/service/feed"
	post_service "yatube/internal/service/post"
)

type Handler struct {
	posts post_service.Service
	feed  feed_service.Service
	auth  auth_service.Service
	log   *logger.Logger
}

func NewHandler(
	posts post_service.Service,
	feed feed_service.Service,
	auth auth_service.Service,
	log *logger.Logger,
) *Handler {
	return &Handler{
		posts: posts,
		feed:  feed,
		auth:  auth,
		log:   log,
	}
}

func pageNumber(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func postURL(id int64) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func (h *Handler) currentUser(c *gin.Context) (*model.User, bool) {
	id := LoadSession(c).UserID()
	if id == 0 {
		return nil, false
	}
	user, err := h.auth.GetUser(c.Request.Context(), id)
	if err != nil {
		return nil, false
	}
	return user, true
}

func (h *Handler) notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "404 page not found")
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.log.Error("Request failed",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()))
	c.String(http.StatusInternalServerError, "internal server error")
}

// Index is the main page: the latest posts across all groups and authors.
func (h *Handler) Index(c *gin.Context) {
	page, err := h.feed.ListPosts(c.Request.Context(), nil, pageNumber(c))
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.tmpl", gin.H{"page_obj": page})
}

func (h *Handler) GroupPosts(c *gin.Context) {
	group, page, err := h.feed.ListGroupPosts(c.Request.Context(), c.Param("slug"), pageNumber(c))
	if err != nil {
		if errors.Is(err, custom_errors.ErrGroupNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "group_list.tmpl", gin.H{
		"group":    group,
		"page_obj": page,
	})
}

func (h *Handler) Profile(c *gin.Context) {
	author, page, err := h.feed.ListAuthorPosts(c.Request.Context(), c.Param("username"), pageNumber(c))
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "profile.tmpl", gin.H{
		"author":     author,
		"page_obj":   page,
		"post_count": page.Page.TotalItems,
	})
}

func (h *Handler) PostDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}

	post, err := h.posts.GetPostByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) || errors.Is(err, custom_errors.ErrUserNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, err)
		return
	}

	count, err := h.posts.CountByAuthor(c.Request.Context(), post.Post.AuthorID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	viewer, _ := h.currentUser(c)
	isAuthor := viewer != nil && viewer.ID == post.Post.AuthorID
	c.HTML(http.StatusOK, "post_detail.tmpl", gin.H{
		"post":              post,
		"author_post_count": count,
		"is_author":         isAuthor,
	})
}

func (h *Handler) CreatePostForm(c *gin.Context) {
	groups, err := h.posts.ListGroups(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "create_post.tmpl", gin.H{
		"form":    newPostFormContext(groups),
		"is_edit": false,
	})
}

func (h *Handler) CreatePost(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, loginURL)
		return
	}

	groups, err := h.posts.ListGroups(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	var form PostForm
	_ = c.ShouldBindWith(&form, binding.Form)

	formCtx := newPostFormContext(groups)
	formCtx.Text = form.Text
	formCtx.Group = form.Group

	render := func() {
		c.HTML(http.StatusOK, "create_post.tmpl", gin.H{
			"form":    formCtx,
			"is_edit": false,
		})
	}

	if err := validate.Struct(&form); err != nil {
		formCtx.Errors["text"] = "This field is required."
		render()
		return
	}

	groupID, valid := groupChoice(form.Group)
	if !valid {
		formCtx.Errors["group"] = "Select a valid choice."
		render()
		return
	}

	_, err = h.posts.CreatePost(c.Request.Context(), &model.CreatePostDTO{
		AuthorID: user.ID,
		Text:     form.Text,
		GroupID:  groupID,
	})
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", user.Username))
	case errors.Is(err, custom_errors.ErrGroupNotFound):
		formCtx.Errors["group"] = "Select a valid choice."
		render()
	case errors.Is(err, custom_errors.ErrPostValidation):
		formCtx.Errors["text"] = "This field is required."
		render()
	default:
		h.serverError(c, err)
	}
}

func (h *Handler) EditPostForm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}

	post, err := h.posts.GetPostByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, err)
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, loginURL)
		return
	}
	// Non-authors get sent back to the post, they never see the form.
	if post.Post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}

	groups, err := h.posts.ListGroups(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	formCtx := newPostFormContext(groups)
	formCtx.Text = post.Post.Text
	if post.Post.GroupID != nil {
		formCtx.Group = strconv.FormatInt(*post.Post.GroupID, 10)
	}

	c.HTML(http.StatusOK, "create_post.tmpl", gin.H{
		"form":    formCtx,
		"is_edit": true,
		"post_id": id,
	})
}

func (h *Handler) EditPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, loginURL)
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		h.serverError(c, err)
		return
	}
	// A submission with no fields changes nothing and lands back on the post.
	if len(c.Request.PostForm) == 0 {
		if _, err := h.posts.GetPostByID(c.Request.Context(), id); err != nil {
			if errors.Is(err, custom_errors.ErrPostNotFound) {
				h.notFound(c)
				return
			}
			h.serverError(c, err)
			return
		}
		c.Redirect(http.StatusFound, postURL(id))
		return
	}

	groups, err := h.posts.ListGroups(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	var form PostForm
	_ = c.ShouldBindWith(&form, binding.Form)

	formCtx := newPostFormContext(groups)
	formCtx.Text = form.Text
	formCtx.Group = form.Group

	render := func() {
		c.HTML(http.StatusOK, "create_post.tmpl", gin.H{
			"form":    formCtx,
			"is_edit": true,
			"post_id": id,
		})
	}

	if err := validate.Struct(&form); err != nil {
		formCtx.Errors["text"] = "This field is required."
		render()
		return
	}

	groupID, valid := groupChoice(form.Group)
	if !valid {
		formCtx.Errors["group"] = "Select a valid choice."
		render()
		return
	}

	_, err = h.posts.UpdatePost(c.Request.Context(), user.ID, id, &model.UpdatePostDTO{
		Text:    &form.Text,
		GroupID: groupID,
	})
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, postURL(id))
	case errors.Is(err, custom_errors.ErrForbidden):
		// Editing someone else's post quietly leaves it as-is.
		c.Redirect(http.StatusFound, postURL(id))
	case errors.Is(err, custom_errors.ErrPostNotFound):
		h.notFound(c)
	case errors.Is(err, custom_errors.ErrGroupNotFound):
		formCtx.Errors["group"] = "Select a valid choice."
		render()
	case errors.Is(err, custom_errors.ErrPostValidation):
		formCtx.Errors["text"] = "This field is required."
		render()
	default:
		h.serverError(c, err)
	}
}

func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"form": &LoginFormContext{Errors: map[string]string{}},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var form LoginForm
	_ = c.ShouldBindWith(&form, binding.Form)

	formCtx := &LoginFormContext{Username: form.Username, Errors: map[string]string{}}

	if err := validate.Struct(&form); err != nil {
		formCtx.Errors["__all__"] = "Please enter a username and password."
		c.HTML(http.StatusOK, "login.tmpl", gin.H{"form": formCtx})
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, custom_errors.ErrInvalidCredentials) {
			formCtx.Errors["__all__"] = "Please enter a correct username and password."
			c.HTML(http.StatusOK, "login.tmpl", gin.H{"form": formCtx})
			return
		}
		h.serverError(c, err)
		return
	}

	if err := LoadSession(c).LoginUser(user.ID); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := LoadSession(c).LogoutUser(); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
