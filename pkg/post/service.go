package post

import (
	"context"
	"sort"
	"strings"
	"time"

	"postboard/pkg/user"
)

type (
	// IPostStore is the storage contract the service runs on. Ordering
	// of GetAll results is unspecified; sorting is the service's job.
	IPostStore interface {
		Add(context.Context, *Post) (PostId, error)
		GetById(context.Context, PostId) (*Post, error)
		GetAll(context.Context) ([]*Post, error)
		Delete(context.Context, PostId) error

		AddLike(ctx context.Context, id PostId, userId string) (bool, error)
		RemoveLike(ctx context.Context, id PostId, userId string) (matched, removed bool, err error)

		AddComment(context.Context, PostId, *Comment) (*Post, error)
		DeleteComment(ctx context.Context, id PostId, commentId CommentId, authorId string) (*Post, error)
	}

	// IUserDirectory resolves a caller id to its profile; the service
	// only reads the display name from it.
	IUserDirectory interface {
		GetById(ctx context.Context, id string) (*user.User, error)
	}
)

// Service owns the post domain rules: who may create, like, comment on
// and delete what. It keeps no state of its own; all consistency
// guarantees come from the store's per-document atomic updates.
type Service struct {
	store IPostStore
	users IUserDirectory
}

func NewService(store IPostStore, users IUserDirectory) *Service {
	return &Service{
		store: store,
		users: users,
	}
}

func (s *Service) Create(ctx context.Context, callerId, text string) (*Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	author, err := s.users.GetById(ctx, callerId)
	if err != nil {
		return nil, err
	}

	p := &Post{
		AuthorId:   callerId,
		AuthorName: author.Name,
		Text:       text,
		Likes:      []*Like{},
		Comments:   []*Comment{},
		Created:    time.Now(),
	}
	if _, err := s.store.Add(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]*Post, error) {
	posts, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Created.After(posts[j].Created)
	})
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id PostId) (*Post, error) {
	return s.store.GetById(ctx, id)
}

// Delete removes the post with everything embedded in it. Only the
// post's author may do that.
func (s *Service) Delete(ctx context.Context, callerId string, id PostId) error {
	p, err := s.store.GetById(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorId != callerId {
		return ErrNotAuthorized
	}
	return s.store.Delete(ctx, id)
}

// Like records the caller's like at the head of the post's like set.
// The duplicate check and the insert are one conditional store update,
// so racing likes from the same user can't both get in.
func (s *Service) Like(ctx context.Context, callerId string, id PostId) ([]*Like, error) {
	inserted, err := s.store.AddLike(ctx, id, callerId)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Nothing matched: the post is gone or the caller already
		// likes it. A re-read tells which.
		if _, err := s.store.GetById(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyLiked
	}

	p, err := s.store.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *Service) Unlike(ctx context.Context, callerId string, id PostId) ([]*Like, error) {
	matched, removed, err := s.store.RemoveLike(ctx, id, callerId)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrPostNotFound
	}
	if !removed {
		return nil, ErrNotLiked
	}

	p, err := s.store.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *Service) AddComment(ctx context.Context, callerId string, id PostId, text string) ([]*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	author, err := s.users.GetById(ctx, callerId)
	if err != nil {
		return nil, err
	}

	cmt := &Comment{
		AuthorId:   callerId,
		AuthorName: author.Name,
		Text:       text,
		Created:    time.Now(),
	}
	p, err := s.store.AddComment(ctx, id, cmt)
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

// DeleteComment removes a single comment. Authorization is against the
// comment's author, not the post's: commenters own their comments even
// on somebody else's post.
func (s *Service) DeleteComment(ctx context.Context, callerId string, id PostId, commentId CommentId) ([]*Comment, error) {
	p, err := s.store.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	cmt, ok := p.FindComment(commentId)
	if !ok {
		return nil, ErrCommentNotFound
	}
	if cmt.AuthorId != callerId {
		return nil, ErrNotAuthorized
	}

	updated, err := s.store.DeleteComment(ctx, id, commentId, callerId)
	if err != nil {
		return nil, err
	}
	return updated.Comments, nil
}
