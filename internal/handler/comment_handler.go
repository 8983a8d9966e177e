package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vivotour/vivotour/internal/domain"
)

// CommentHandler handles public reviews and admin moderation
type CommentHandler struct {
	commentRepo domain.CommentRepository
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentRepo domain.CommentRepository) *CommentHandler {
	return &CommentHandler{
		commentRepo: commentRepo,
	}
}

// ListApproved handles GET /v1/comments
func (h *CommentHandler) ListApproved(c *fiber.Ctx) error {
	comments, err := h.commentRepo.GetApproved(c.UserContext())
	if err != nil {
		log.Printf("[Comments] Failed to list comments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch comments",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    comments,
	})
}

// Create handles POST /v1/comments
// New comments start unapproved and wait for moderation.
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	var comment domain.Comment
	if err := c.BodyParser(&comment); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	comment.ID = ""
	comment.Approved = false

	if err := comment.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	if err := h.commentRepo.Create(c.UserContext(), &comment); err != nil {
		log.Printf("[Comments] Failed to create comment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to save comment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    comment,
		"message": "comment submitted for review",
	})
}

// ListAll handles GET /v1/admin/comments
func (h *CommentHandler) ListAll(c *fiber.Ctx) error {
	comments, err := h.commentRepo.GetAll(c.UserContext())
	if err != nil {
		log.Printf("[Comments] Failed to list comments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to fetch comments",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    comments,
	})
}

type moderateCommentRequest struct {
	Approved bool `json:"approved"`
}

// Moderate handles PATCH /v1/admin/comments/:id
func (h *CommentHandler) Moderate(c *fiber.Ctx) error {
	var req moderateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	if err := h.commentRepo.SetApproved(c.UserContext(), c.Params("id"), req.Approved); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "comment not found",
			})
		}
		log.Printf("[Comments] Failed to moderate comment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to update comment",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "updated",
	})
}

// Delete handles DELETE /v1/admin/comments/:id
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	if err := h.commentRepo.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "comment not found",
			})
		}
		log.Printf("[Comments] Failed to delete comment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete comment",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "deleted",
	})
}
