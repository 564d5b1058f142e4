package post

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"postboard/pkg/common"
)

// Repo is the Mongo-backed post store. A post is one document with
// likes and comments embedded, so every mutation below is atomic with
// respect to the whole post.
type Repo struct {
	posts IMongoCollection
}

func NewPostRepo(postsCol *mongo.Collection) *Repo {
	return &Repo{
		posts: &MongoCollection{Coll: postsCol},
	}
}

func (r *Repo) Add(ctx context.Context, p *Post) (PostId, error) {
	p.Id = PostId(common.RandStringRunes(12))
	if _, err := r.posts.InsertOne(ctx, p); err != nil {
		return PostId(``), fmt.Errorf("post/repo: failed inserting a post: %w (%v)", ErrStoreUnavailable, err)
	}
	return p.Id, nil
}

func (r *Repo) GetById(ctx context.Context, id PostId) (*Post, error) {
	p := new(Post)
	err := r.posts.FindOne(ctx, bson.M{"id": id}).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding post: %w (%v)", ErrStoreUnavailable, err)
	}
	return p, nil
}

func (r *Repo) GetAll(ctx context.Context) ([]*Post, error) {
	cursor, err := r.posts.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w (%v)", ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	posts := []*Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("post/repo: failed reading posts from cursor: %w (%v)", ErrStoreUnavailable, err)
	}
	return posts, nil
}

func (r *Repo) Delete(ctx context.Context, id PostId) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("post/repo: failed deleting post: %w (%v)", ErrStoreUnavailable, err)
	}
	if res.DeletedCount() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddLike inserts a like at the head of the likes array with a single
// conditional update: the filter only matches when the post exists AND
// the user has no like on it yet. Concurrent likes from the same user
// therefore cannot both match. Returns false when nothing matched; the
// caller tells "post missing" from "already liked" by re-reading.
func (r *Repo) AddLike(ctx context.Context, id PostId, userId string) (bool, error) {
	filter := bson.D{
		{Key: "id", Value: id},
		{Key: "likes.user", Value: bson.D{{Key: "$ne", Value: userId}}},
	}
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "likes", Value: bson.D{
		{Key: "$each", Value: []*Like{{UserId: userId}}},
		{Key: "$position", Value: 0},
	}}}}}

	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("post/repo: failed adding like: %w (%v)", ErrStoreUnavailable, err)
	}
	return res.MatchedCount() > 0, nil
}

// RemoveLike pulls the caller's like. `matched` reports the post was
// found, `removed` that a like was actually pulled; relative order of
// the remaining likes is preserved by $pull.
func (r *Repo) RemoveLike(ctx context.Context, id PostId, userId string) (matched, removed bool, err error) {
	filter := bson.D{{Key: "id", Value: id}}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "likes", Value: bson.D{
		{Key: "user", Value: userId},
	}}}}}

	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, false, fmt.Errorf("post/repo: failed removing like: %w (%v)", ErrStoreUnavailable, err)
	}
	return res.MatchedCount() > 0, res.ModifiedCount() > 0, nil
}

// AddComment assigns the comment an id and prepends it to the post's
// comments. Returns the post as stored after the update.
func (r *Repo) AddComment(ctx context.Context, id PostId, cmt *Comment) (*Post, error) {
	cmt.Id = CommentId(common.RandStringRunes(12))

	filter := bson.D{{Key: "id", Value: id}}
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: bson.D{
		{Key: "$each", Value: []*Comment{cmt}},
		{Key: "$position", Value: 0},
	}}}}}

	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed adding comment: %w (%v)", ErrStoreUnavailable, err)
	}
	if res.MatchedCount() == 0 {
		return nil, ErrPostNotFound
	}

	return r.GetById(ctx, id)
}

// DeleteComment pulls the comment only when both its id and its author
// match, so the ownership check holds even if the service's read and
// this update interleave with other writers.
func (r *Repo) DeleteComment(ctx context.Context, id PostId, commentId CommentId, authorId string) (*Post, error) {
	filter := bson.D{{Key: "id", Value: id}}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "comments", Value: bson.D{
		{Key: "id", Value: commentId},
		{Key: "user", Value: authorId},
	}}}}}

	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed removing comment: %w (%v)", ErrStoreUnavailable, err)
	}
	if res.MatchedCount() == 0 {
		return nil, ErrPostNotFound
	}
	if res.ModifiedCount() == 0 {
		return nil, ErrCommentNotFound
	}

	return r.GetById(ctx, id)
}
