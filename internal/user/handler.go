package user

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	pkgerrors "github.com/pkg/errors"

	"vidtube/internal/common"
	"vidtube/internal/config"
	"vidtube/internal/dbmysql"
	"vidtube/internal/engagement"
	"vidtube/internal/video"
)

// Handler covers accounts and the viewer-centric surfaces: register/login,
// profile, channel subscribe toggle, liked videos and watch history.
type Handler struct {
	service    UserService
	engagement engagement.Service
	videos     video.VideoService
	timeout    time.Duration
}

func NewHandler(service UserService, eng engagement.Service, videos video.VideoService, cnf *config.Config) *Handler {
	return &Handler{
		service:    service,
		engagement: eng,
		videos:     videos,
		timeout:    time.Duration(cnf.Server.RequestTimeout) * time.Second,
	}
}

func (h *Handler) deadline(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

type registerRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  *dbmysql.User `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, pkgerrors.Wrap(common.ErrInvalidOperation, "invalid request body"))
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	user, token, err := h.service.RegisterUser(ctx, req.Handle, req.Email, req.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, pkgerrors.Wrap(common.ErrInvalidOperation, "invalid request body"))
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	user, token, err := h.service.LoginUser(ctx, req.Handle, req.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	viewer := common.ViewerFromContext(r.Context())

	ctx, cancel := h.deadline(r)
	defer cancel()

	user, err := h.service.GetProfile(ctx, viewer.UserID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]*dbmysql.User{"user": user})
}

func (h *Handler) ToggleSubscribe(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseUint(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		common.WriteError(w, pkgerrors.Wrap(common.ErrInvalidOperation, "invalid userID"))
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	subscribed, err := h.engagement.ToggleSubscription(ctx, common.ViewerFromContext(r.Context()), targetID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"subscribed": subscribed})
}

func (h *Handler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.deadline(r)
	defer cancel()

	listings, err := h.videos.LikedVideos(ctx, common.ViewerFromContext(r.Context()))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string][]video.VideoListing{"videos": listings})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.deadline(r)
	defer cancel()

	listings, err := h.videos.History(ctx, common.ViewerFromContext(r.Context()))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string][]video.VideoListing{"videos": listings})
}
