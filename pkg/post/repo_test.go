package post

import (
	"context"
	"fmt"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestRepoAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockInsertOneResult := NewMockIMongoInsertOneResult(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	t.Run("success assigns an id", func(t *testing.T) {
		mockMongoColl.EXPECT().
			InsertOne(ctx, gomock.Any()).
			Return(mockInsertOneResult, nil)

		p := &Post{AuthorId: "1", Text: "hello"}
		insertedId, err := repo.Add(ctx, p)
		assert.Nil(t, err)
		assert.NotEmpty(t, insertedId)
		assert.Equal(t, p.Id, insertedId)
	})

	t.Run("insert error", func(t *testing.T) {
		mockMongoColl.EXPECT().
			InsertOne(ctx, gomock.Any()).
			Return(nil, fmt.Errorf("insert_failed"))

		insertedId, err := repo.Add(ctx, &Post{})
		assert.Equal(t, PostId(``), insertedId)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestRepoGetById(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockSingleResult := NewMockIMongoSingleResult(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	t.Run("success", func(t *testing.T) {
		expected := Post{Id: PostId("1"), AuthorId: "42", Text: "hello"}

		mockMongoColl.EXPECT().
			FindOne(ctx, gomock.Any()).
			Return(mockSingleResult)
		mockSingleResult.EXPECT().
			Decode(gomock.AssignableToTypeOf(&expected)).
			SetArg(0, expected).
			Return(nil)

		got, err := repo.GetById(ctx, PostId("1"))
		assert.Nil(t, err)
		assert.Equal(t, &expected, got)
	})

	t.Run("missing post", func(t *testing.T) {
		mockMongoColl.EXPECT().
			FindOne(ctx, gomock.Any()).
			Return(mockSingleResult)
		mockSingleResult.EXPECT().
			Decode(gomock.Any()).
			Return(mongo.ErrNoDocuments)

		_, err := repo.GetById(ctx, PostId("nope"))
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		mockMongoColl.EXPECT().
			FindOne(ctx, gomock.Any()).
			Return(mockSingleResult)
		mockSingleResult.EXPECT().
			Decode(gomock.Any()).
			Return(fmt.Errorf("connection reset"))

		_, err := repo.GetById(ctx, PostId("1"))
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestRepoGetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockCursor := NewMockIMongoCursor(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	t.Run("success", func(t *testing.T) {
		expected := []*Post{
			{Id: PostId("1"), AuthorId: "42"},
			{Id: PostId("2"), AuthorId: "43"},
		}

		mockMongoColl.EXPECT().
			Find(ctx, gomock.Any()).
			Return(mockCursor, nil)
		mockCursor.EXPECT().
			All(ctx, gomock.AssignableToTypeOf(&expected)).
			SetArg(1, expected).
			Return(nil)
		mockCursor.EXPECT().Close(ctx).Return(nil)

		posts, err := repo.GetAll(ctx)
		assert.Nil(t, err)
		assert.Equal(t, expected, posts)
	})
}

func TestRepoDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockDeleteResult := NewMockIMongoDeleteResult(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	t.Run("success", func(t *testing.T) {
		mockMongoColl.EXPECT().
			DeleteOne(ctx, gomock.Any()).
			Return(mockDeleteResult, nil)
		mockDeleteResult.EXPECT().DeletedCount().Return(int64(1))

		assert.Nil(t, repo.Delete(ctx, PostId("1")))
	})

	t.Run("missing post", func(t *testing.T) {
		mockMongoColl.EXPECT().
			DeleteOne(ctx, gomock.Any()).
			Return(mockDeleteResult, nil)
		mockDeleteResult.EXPECT().DeletedCount().Return(int64(0))

		assert.ErrorIs(t, repo.Delete(ctx, PostId("nope")), ErrPostNotFound)
	})
}

func TestRepoAddLike(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockUpdateResult := NewMockIMongoUpdateResult(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	t.Run("inserted", func(t *testing.T) {
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(mockUpdateResult, nil)
		mockUpdateResult.EXPECT().MatchedCount().Return(int64(1))

		inserted, err := repo.AddLike(ctx, PostId("1"), "42")
		assert.Nil(t, err)
		assert.True(t, inserted)
	})

	t.Run("condition not met", func(t *testing.T) {
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(mockUpdateResult, nil)
		mockUpdateResult.EXPECT().MatchedCount().Return(int64(0))

		inserted, err := repo.AddLike(ctx, PostId("1"), "42")
		assert.Nil(t, err)
		assert.False(t, inserted)
	})

	t.Run("store failure", func(t *testing.T) {
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("connection reset"))

		_, err := repo.AddLike(ctx, PostId("1"), "42")
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestRepoRemoveLike(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockUpdateResult := NewMockIMongoUpdateResult(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	cases := []struct {
		name             string
		matchedN         int64
		modifiedN        int64
		matched, removed bool
	}{
		{"like removed", 1, 1, true, true},
		{"post found but not liked", 1, 0, true, false},
		{"post missing", 0, 0, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockMongoColl.EXPECT().
				UpdateOne(ctx, gomock.Any(), gomock.Any()).
				Return(mockUpdateResult, nil)
			mockUpdateResult.EXPECT().MatchedCount().Return(tc.matchedN)
			mockUpdateResult.EXPECT().ModifiedCount().Return(tc.modifiedN)

			matched, removed, err := repo.RemoveLike(ctx, PostId("1"), "42")
			assert.Nil(t, err)
			assert.Equal(t, tc.matched, matched)
			assert.Equal(t, tc.removed, removed)
		})
	}
}

func TestRepoAddComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockUpdateResult := NewMockIMongoUpdateResult(ctrl)
	mockSingleResult := NewMockIMongoSingleResult(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	t.Run("assigns an id and returns the updated post", func(t *testing.T) {
		cmt := &Comment{AuthorId: "42", AuthorName: "Carol", Text: "nice"}
		updated := Post{Id: PostId("1"), Comments: []*Comment{cmt}}

		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(mockUpdateResult, nil)
		mockUpdateResult.EXPECT().MatchedCount().Return(int64(1))
		mockMongoColl.EXPECT().
			FindOne(ctx, gomock.Any()).
			Return(mockSingleResult)
		mockSingleResult.EXPECT().
			Decode(gomock.Any()).
			SetArg(0, updated).
			Return(nil)

		got, err := repo.AddComment(ctx, PostId("1"), cmt)
		assert.Nil(t, err)
		assert.NotEmpty(t, cmt.Id)
		assert.Equal(t, &updated, got)
	})

	t.Run("missing post", func(t *testing.T) {
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(mockUpdateResult, nil)
		mockUpdateResult.EXPECT().MatchedCount().Return(int64(0))

		_, err := repo.AddComment(ctx, PostId("nope"), &Comment{Text: "nice"})
		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestRepoDeleteComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockUpdateResult := NewMockIMongoUpdateResult(ctrl)
	mockSingleResult := NewMockIMongoSingleResult(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	t.Run("success returns updated post", func(t *testing.T) {
		updated := Post{Id: PostId("1"), Comments: []*Comment{}}

		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(mockUpdateResult, nil)
		mockUpdateResult.EXPECT().MatchedCount().Return(int64(1))
		mockUpdateResult.EXPECT().ModifiedCount().Return(int64(1))
		mockMongoColl.EXPECT().
			FindOne(ctx, gomock.Any()).
			Return(mockSingleResult)
		mockSingleResult.EXPECT().
			Decode(gomock.Any()).
			SetArg(0, updated).
			Return(nil)

		got, err := repo.DeleteComment(ctx, PostId("1"), CommentId("c1"), "42")
		assert.Nil(t, err)
		assert.Equal(t, &updated, got)
	})

	t.Run("post missing", func(t *testing.T) {
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(mockUpdateResult, nil)
		mockUpdateResult.EXPECT().MatchedCount().Return(int64(0))

		_, err := repo.DeleteComment(ctx, PostId("nope"), CommentId("c1"), "42")
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("comment missing or not owned", func(t *testing.T) {
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(mockUpdateResult, nil)
		mockUpdateResult.EXPECT().MatchedCount().Return(int64(1))
		mockUpdateResult.EXPECT().ModifiedCount().Return(int64(0))

		_, err := repo.DeleteComment(ctx, PostId("1"), CommentId("nope"), "42")
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}
