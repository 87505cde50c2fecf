package video

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
)

// Handler wires HTTP requests to the video and engagement services. Every
// store-touching call runs under the configured request deadline.
type Handler struct {
	service    VideoService
	engagement engagement.Service
	timeout    time.Duration
}

func NewHandler(service VideoService, eng engagement.Service, cnf *config.Config) *Handler {
	return &Handler{
		service:    service,
		engagement: eng,
		timeout:    time.Duration(cnf.Server.RequestTimeout) * time.Second,
	}
}

func (h *Handler) deadline(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func pathID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrapf(common.ErrInvalidOperation, "invalid %s", name)
	}
	return id, nil
}

type publishRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, pkgerrors.Wrap(common.ErrInvalidOperation, "invalid request body"))
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	video, err := h.service.Publish(ctx, common.ViewerFromContext(r.Context()), req.Title, req.Description, req.URL, req.Thumbnail)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]*dbmysql.Video{"video": video})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoID")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	detail, err := h.service.Get(ctx, videoID, common.ViewerFromContext(r.Context()))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoID")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	if err := h.service.Delete(ctx, videoID, common.ViewerFromContext(r.Context())); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]uint64{"deleted": videoID})
}

func (h *Handler) Recommended(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.deadline(r)
	defer cancel()

	listings, err := h.service.Recommended(ctx)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string][]VideoListing{"videos": listings})
}

func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.deadline(r)
	defer cancel()

	listings, err := h.service.Trending(ctx)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string][]VideoListing{"videos": listings})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.deadline(r)
	defer cancel()

	listings, err := h.service.Search(ctx, r.URL.Query().Get("query"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string][]VideoListing{"videos": listings})
}

func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoID")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	view, err := h.engagement.RecordView(ctx, videoID, common.ViewerFromContext(r.Context()))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, dbmysql.PolarityLike)
}

func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, dbmysql.PolarityDislike)
}

func (h *Handler) toggleReaction(w http.ResponseWriter, r *http.Request, polarity int8) {
	videoID, err := pathID(r, "videoID")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	state, err := h.engagement.ToggleReaction(ctx, common.ViewerFromContext(r.Context()), videoID, polarity)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoID")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, pkgerrors.Wrap(common.ErrInvalidOperation, "invalid request body"))
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	comment, err := h.service.AddComment(ctx, common.ViewerFromContext(r.Context()), videoID, req.Text)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]*dbmysql.Comment{"comment": comment})
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoID")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	comments, err := h.service.ListComments(ctx, videoID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string][]dbmysql.Comment{"comments": comments})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentID")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	ctx, cancel := h.deadline(r)
	defer cancel()

	if err := h.service.DeleteComment(ctx, common.ViewerFromContext(r.Context()), commentID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]uint64{"deleted": commentID})
}
