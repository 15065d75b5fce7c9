package server

import (
	"mafather/internal/middleware"
	"mafather/internal/models"
	"mafather/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type createPostRequest struct {
	CategoryID  uuid.UUID `json:"category_id"`
	PostType    string    `json:"post_type"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsAnonymous bool      `json:"is_anonymous"`
	ImageURLs   []string  `json:"image_urls"`
}

type updatePostRequest struct {
	Title      *string    `json:"title"`
	Content    *string    `json:"content"`
	CategoryID *uuid.UUID `json:"category_id"`
}

type markSolvedRequest struct {
	Solved *bool `json:"solved"`
}

// listPostsInput builds catalog filters from query parameters. The search
// endpoint shares it so both read the same filter set.
func (s *Server) listPostsInput(c *fiber.Ctx, search string) (service.ListPostsInput, error) {
	in := service.ListPostsInput{
		PostType: c.Query("post_type"),
		Search:   search,
		Sort:     c.Query("sort"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 20),
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return in, models.NewValidationError("Invalid category ID")
		}
		in.CategoryID = &categoryID
	}
	if userID, ok := middleware.UserID(c); ok {
		in.UserID = &userID
	}
	in.IPAddress = c.IP()
	in.UserAgent = c.Get("User-Agent")
	return in, nil
}

// ListPosts returns a page of the community catalog.
//
//	@Summary		List posts
//	@Tags			posts
//	@Param			post_type	query	string	false	"Filter by post type"
//	@Param			category_id	query	string	false	"Filter by category"
//	@Param			sort		query	string	false	"Sort: recent, popular, views"
//	@Param			page		query	int		false	"Page number"
//	@Param			limit		query	int		false	"Page size"
//	@Success		200	{object}	service.PostPage
//	@Router			/posts/ [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	in, err := s.listPostsInput(c, "")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	page, err := s.postService.ListPosts(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(page)
}

// SearchPosts runs a keyword search over the catalog and records the query.
//
//	@Summary		Search posts
//	@Tags			posts
//	@Param			q	query	string	true	"Search term"
//	@Success		200	{object}	service.PostPage
//	@Router			/posts/search/ [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, models.NewValidationError("Search term is required"))
	}
	in, err := s.listPostsInput(c, q)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	page, err := s.postService.ListPosts(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(page)
}

// CreatePost publishes a new post.
//
//	@Summary		Create a post
//	@Tags			posts
//	@Security		BearerAuth
//	@Param			body	body		createPostRequest	true	"Post details"
//	@Success		201		{object}	models.Post
//	@Failure		400		{object}	models.ErrorResponse
//	@Router			/posts/create/ [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		PostType:    req.PostType,
		Title:       req.Title,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns one post and counts the view.
//
//	@Summary		Get a post
//	@Tags			posts
//	@Param			post_id	path		string	true	"Post ID"
//	@Success		200		{object}	models.Post
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/posts/{post_id}/ [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}
	post, err := s.postService.GetPost(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost edits a post. Author only.
//
//	@Summary		Update a post
//	@Tags			posts
//	@Security		BearerAuth
//	@Param			post_id	path		string				true	"Post ID"
//	@Param			body	body		updatePostRequest	true	"Fields to change"
//	@Success		200		{object}	models.Post
//	@Router			/posts/{post_id}/ [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:     userID,
		PostID:     postID,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post. Author or staff.
//
//	@Summary		Delete a post
//	@Tags			posts
//	@Security		BearerAuth
//	@Param			post_id	path	string	true	"Post ID"
//	@Success		200
//	@Router			/posts/{post_id}/ [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}
	if err := s.postService.DeletePost(c.Context(), userID, postID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// TogglePostLike flips the caller's like on a post. A like answers 201, an
// un-like answers 200, so clients can tell which way the toggle went.
//
//	@Summary		Toggle a like on a post
//	@Tags			posts
//	@Security		BearerAuth
//	@Param			post_id	path		string	true	"Post ID"
//	@Success		200		{object}	service.ToggleLikeResult
//	@Success		201		{object}	service.ToggleLikeResult
//	@Router			/posts/{post_id}/like/ [post]
func (s *Server) TogglePostLike(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}

	result, err := s.engagementService.ToggleLike(c.Context(), service.ToggleLikeInput{
		UserID: userID,
		Target: models.PostTarget(postID),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	status := fiber.StatusOK
	if result.Liked {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result)
}

// MarkPostSolved toggles the solved flag on a question.
//
//	@Summary		Mark a question solved
//	@Tags			posts
//	@Security		BearerAuth
//	@Param			post_id	path		string	true	"Post ID"
//	@Success		200		{object}	models.Post
//	@Router			/posts/{post_id}/solve/ [post]
func (s *Server) MarkPostSolved(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}

	req := markSolvedRequest{}
	_ = c.BodyParser(&req)
	solved := true
	if req.Solved != nil {
		solved = *req.Solved
	}

	post, err := s.postService.MarkSolved(c.Context(), userID, postID, solved)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}
