package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	userapp "github.com/brookse/smartdoc-backend/internal/application"
	"github.com/brookse/smartdoc-backend/internal/domain/entity"
	"github.com/brookse/smartdoc-backend/pkg/response"
	"github.com/brookse/smartdoc-backend/pkg/validation"
)

// UserService is what the HTTP layer needs from the application layer.
type UserService interface {
	CreateUser(ctx context.Context, in userapp.UserInput) (*entity.User, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	UpdateUser(ctx context.Context, id string, in userapp.UserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type UserHandler struct {
	Svc    UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userRequest struct {
	Name    string `json:"name"`
	Zipcode string `json:"zipcode"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Zipcode   string    `json:"zipcode"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(u *entity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Zipcode:   u.Zipcode,
		Latitude:  u.Latitude,
		Longitude: u.Longitude,
		Timezone:  u.Timezone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.logError(c, "list users failed", err)
		response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Error listing users: %v", err))
		return
	}
	resp := make([]userResponse, len(users))
	for i := range users {
		resp[i] = toResponse(&users[i])
	}
	response.JSON(c, http.StatusOK, resp)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		h.logError(c, "get user failed", err)
		response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Error fetching user: %v", err))
		return
	}
	response.JSON(c, http.StatusOK, toResponse(u))
}

func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.PayloadMessage(err))
		return
	}
	if err := validation.UserInput(req.Name, req.Zipcode); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.Svc.CreateUser(c.Request.Context(), userapp.UserInput{Name: req.Name, Zipcode: req.Zipcode})
	if err != nil {
		h.logError(c, "create user failed", err)
		response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Error creating user: %v", err))
		return
	}
	response.JSON(c, http.StatusCreated, toResponse(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.PayloadMessage(err))
		return
	}
	if err := validation.UserInput(req.Name, req.Zipcode); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.Svc.UpdateUser(c.Request.Context(), id, userapp.UserInput{Name: req.Name, Zipcode: req.Zipcode})
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "User not found")
		case errors.Is(err, userapp.ErrConflict):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			h.logError(c, "update user failed", err)
			response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Error updating user: %v", err))
		}
		return
	}
	response.JSON(c, http.StatusOK, toResponse(u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		h.logError(c, "delete user failed", err)
		response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Error deleting user: %v", err))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "User deleted"})
}

// parseID rejects ids that cannot be a stored UUID; an unparseable id can
// never name an existing record, so it reads as absent.
func parseID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return "", false
	}
	return id, true
}

func (h *UserHandler) logError(c *gin.Context, msg string, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	}).Error(msg)
}
