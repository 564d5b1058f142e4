package post

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"postboard/pkg/common"
	"postboard/pkg/logger"
	"postboard/pkg/sessions"
	"postboard/pkg/user"
)

type IPostService interface {
	Create(ctx context.Context, callerId, text string) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Get(ctx context.Context, id PostId) (*Post, error)
	Delete(ctx context.Context, callerId string, id PostId) error
	Like(ctx context.Context, callerId string, id PostId) ([]*Like, error)
	Unlike(ctx context.Context, callerId string, id PostId) ([]*Like, error)
	AddComment(ctx context.Context, callerId string, id PostId, text string) ([]*Comment, error)
	DeleteComment(ctx context.Context, callerId string, id PostId, commentId CommentId) ([]*Comment, error)
}

type PostHandler struct {
	Service IPostService
}

func NewPostHandler(svc IPostService) *PostHandler {
	return &PostHandler{
		Service: svc,
	}
}

// writeDomainErr maps domain error kinds to HTTP statuses: validation
// and state conflicts are 400, missing entities 404, ownership
// failures 403, anything else is a server error.
func writeDomainErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTextRequired):
		common.WriteMsg(w, "text is required", http.StatusBadRequest)
	case errors.Is(err, ErrAlreadyLiked):
		common.WriteMsg(w, "post already liked", http.StatusBadRequest)
	case errors.Is(err, ErrNotLiked):
		common.WriteMsg(w, "post has not been liked previously", http.StatusBadRequest)
	case errors.Is(err, ErrPostNotFound):
		common.WriteMsg(w, "post not found", http.StatusNotFound)
	case errors.Is(err, ErrCommentNotFound):
		common.WriteMsg(w, "comment does not exist", http.StatusNotFound)
	case errors.Is(err, user.ErrNotFound):
		common.WriteMsg(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrNotAuthorized):
		common.WriteMsg(w, "user is not authorized", http.StatusForbidden)
	default:
		logger.Log(r.Context()).Errorf("post/handlers: operation failed: %v", err)
		common.WriteMsg(w, "server error", http.StatusInternalServerError)
	}
}

func caller(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	u, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		common.WriteMsg(w, "authentication required", http.StatusUnauthorized)
		return nil, false
	}
	return u, true
}

func (ph *PostHandler) Add(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u, ok := caller(w, r)
	if !ok {
		return
	}

	body := struct {
		Text string `json:"text"`
	}{}
	if err := common.ParseReqBody(r.Body, &body); err != nil {
		logger.Log(r.Context()).Errorf("can't parse post body: %v", err)
		common.WriteMsg(w, "can't parse post", http.StatusBadRequest)
		return
	}

	p, err := ph.Service.Create(r.Context(), u.Id, body.Text)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	common.WriteRespJSON(w, p)
}

func (ph *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	posts, err := ph.Service.List(r.Context())
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	common.WriteRespJSON(w, posts)
}

func (ph *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	postId := PostId(mux.Vars(r)["post_id"])
	p, err := ph.Service.Get(r.Context(), postId)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	common.WriteRespJSON(w, p)
}

func (ph *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u, ok := caller(w, r)
	if !ok {
		return
	}

	postId := PostId(mux.Vars(r)["post_id"])
	if err := ph.Service.Delete(r.Context(), u.Id, postId); err != nil {
		writeDomainErr(w, r, err)
		return
	}

	common.WriteMsg(w, "post is removed", http.StatusOK)
}

func (ph *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u, ok := caller(w, r)
	if !ok {
		return
	}

	postId := PostId(mux.Vars(r)["post_id"])
	likes, err := ph.Service.Like(r.Context(), u.Id, postId)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	common.WriteRespJSON(w, likes)
}

func (ph *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u, ok := caller(w, r)
	if !ok {
		return
	}

	postId := PostId(mux.Vars(r)["post_id"])
	likes, err := ph.Service.Unlike(r.Context(), u.Id, postId)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	common.WriteRespJSON(w, likes)
}

func (ph *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u, ok := caller(w, r)
	if !ok {
		return
	}

	body := struct {
		Text string `json:"text"`
	}{}
	if err := common.ParseReqBody(r.Body, &body); err != nil {
		logger.Log(r.Context()).Errorf("can't parse comment body: %v", err)
		common.WriteMsg(w, "can't parse comment", http.StatusBadRequest)
		return
	}

	postId := PostId(mux.Vars(r)["post_id"])
	comments, err := ph.Service.AddComment(r.Context(), u.Id, postId, body.Text)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	common.WriteRespJSON(w, comments)
}

func (ph *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u, ok := caller(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	postId := PostId(vars["post_id"])
	commentId := CommentId(vars["comment_id"])

	comments, err := ph.Service.DeleteComment(r.Context(), u.Id, postId, commentId)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	common.WriteRespJSON(w, comments)
}
