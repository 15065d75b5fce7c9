package server

import (
	"mafather/internal/middleware"
	"mafather/internal/models"
	"mafather/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type createCommentRequest struct {
	Content     string     `json:"content"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsAnonymous bool       `json:"is_anonymous"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

func commentPathIDs(c *fiber.Ctx) (postID, commentID uuid.UUID, err error) {
	postID, err = uuid.Parse(c.Params("post_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, models.NewValidationError("Invalid post ID")
	}
	commentID, err = uuid.Parse(c.Params("comment_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, models.NewValidationError("Invalid comment ID")
	}
	return postID, commentID, nil
}

// ListComments returns the post's comment tree.
//
//	@Summary		List comments on a post
//	@Tags			comments
//	@Param			post_id	path	string	true	"Post ID"
//	@Success		200	{array}	models.Comment
//	@Router			/posts/{post_id}/comments/ [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}
	comments, err := s.commentService.ListComments(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment writes a comment on a post. A parent_id in the body makes it
// a reply.
//
//	@Summary		Comment on a post
//	@Tags			comments
//	@Security		BearerAuth
//	@Param			post_id	path		string					true	"Post ID"
//	@Param			body	body		createCommentRequest	true	"Comment"
//	@Success		201		{object}	models.Comment
//	@Failure		400		{object}	models.ErrorResponse
//	@Router			/posts/{post_id}/comment/ [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid post ID"))
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:      userID,
		PostID:      postID,
		Content:     req.Content,
		ParentID:    req.ParentID,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComment returns one comment with its replies.
//
//	@Summary		Get a comment
//	@Tags			comments
//	@Param			post_id		path		string	true	"Post ID"
//	@Param			comment_id	path		string	true	"Comment ID"
//	@Success		200			{object}	models.Comment
//	@Router			/posts/{post_id}/comment/{comment_id}/ [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	postID, commentID, err := commentPathIDs(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	comment, err := s.commentService.GetComment(c.Context(), postID, commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}

// ReplyToComment writes a reply under a top-level comment. Replying to a
// reply is rejected.
//
//	@Summary		Reply to a comment
//	@Tags			comments
//	@Security		BearerAuth
//	@Param			post_id		path		string					true	"Post ID"
//	@Param			comment_id	path		string					true	"Parent comment ID"
//	@Param			body		body		updateCommentRequest	true	"Reply content"
//	@Success		201			{object}	models.Comment
//	@Failure		400			{object}	models.ErrorResponse
//	@Router			/posts/{post_id}/comment/{comment_id}/reply/ [post]
func (s *Server) ReplyToComment(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	postID, commentID, err := commentPathIDs(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:      userID,
		PostID:      postID,
		Content:     req.Content,
		ParentID:    &commentID,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment edits a comment. Author only.
//
//	@Summary		Edit a comment
//	@Tags			comments
//	@Security		BearerAuth
//	@Param			post_id		path		string					true	"Post ID"
//	@Param			comment_id	path		string					true	"Comment ID"
//	@Param			body		body		updateCommentRequest	true	"New content"
//	@Success		200			{object}	models.Comment
//	@Failure		403			{object}	models.ErrorResponse
//	@Router			/posts/{post_id}/comment/{comment_id}/edit/ [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	_, commentID, err := commentPathIDs(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req updateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		UserID:    userID,
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment removes a comment. Author or staff.
//
//	@Summary		Delete a comment
//	@Tags			comments
//	@Security		BearerAuth
//	@Param			post_id		path	string	true	"Post ID"
//	@Param			comment_id	path	string	true	"Comment ID"
//	@Success		200
//	@Failure		403	{object}	models.ErrorResponse
//	@Router			/posts/{post_id}/comment/{comment_id}/delete/ [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	_, commentID, err := commentPathIDs(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if _, err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// ToggleCommentLike flips the caller's like on a comment. Same status
// convention as post likes: 201 when liked, 200 when un-liked.
//
//	@Summary		Toggle a like on a comment
//	@Tags			comments
//	@Security		BearerAuth
//	@Param			post_id		path		string	true	"Post ID"
//	@Param			comment_id	path		string	true	"Comment ID"
//	@Success		200			{object}	service.ToggleLikeResult
//	@Success		201			{object}	service.ToggleLikeResult
//	@Router			/posts/{post_id}/comment/{comment_id}/like/ [post]
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	_, commentID, err := commentPathIDs(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	result, err := s.engagementService.ToggleLike(c.Context(), service.ToggleLikeInput{
		UserID: userID,
		Target: models.CommentTarget(commentID),
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
