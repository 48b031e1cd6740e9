package controllers

import (
	"fmt"
	"strings"

	"rta-backend/entity"
	"rta-backend/pkg/resp"
	"rta-backend/services"
	"rta-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequest carries every action's fields; each action reads the ones it needs.
type AuthRequest struct {
	Action         string                   `json:"action"`
	Email          string                   `json:"email"`
	Password       string                   `json:"password"`
	Name           string                   `json:"name"`
	Type           entity.UserType          `json:"type"`
	RestaurantData *services.RestaurantData `json:"restaurantData"`
}

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /api/auth
func (a *AuthController) Action(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	ctx := c.Request.Context()
	switch strings.TrimSpace(req.Action) {
	case "login":
		res, err := a.Auth.Login(ctx, req.Email, req.Password)
		if err != nil {
			handleError(c, err)
			return
		}
		resp.OK(c, res)

	case "register":
		res, err := a.Auth.Register(ctx, services.RegisterInput{
			Name:           req.Name,
			Email:          req.Email,
			Password:       req.Password,
			Type:           req.Type,
			RestaurantData: req.RestaurantData,
		})
		if err != nil {
			handleError(c, err)
			return
		}
		resp.OK(c, res)

	case "logout":
		a.Auth.Logout(ctx, utils.CurrentSession(c))
		resp.Message(c, "logged out")

	default:
		handleError(c, fmt.Errorf("%w: %q", services.ErrUnknownAction, req.Action))
	}
}

// GET /api/auth
func (a *AuthController) Session(c *gin.Context) {
	info, err := a.Auth.Current(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	resp.OK(c, info)
}
